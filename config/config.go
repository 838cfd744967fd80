// Package config reads the process configuration of the drinkrate service from
// environment variables and the embedded name/version files.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

// SessionStoreType selects where session state is kept.
type SessionStoreType string

const (
	SessionStoreCookie SessionStoreType = "cookie"
	SessionStoreRedis  SessionStoreType = "redis"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("DRINKRATE_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("DRINKRATE_DEBUG") == "true"
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("DRINKRATE_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/drinkrate"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("DRINKRATE_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

// GetSessionStore defaults to the server-side redis store; an empty
// DRINKRATE_REDIS_ADDR runs it on an embedded redis.
func GetSessionStore() SessionStoreType {
	switch SessionStoreType(strings.ToLower(os.Getenv("DRINKRATE_SESSION_STORE"))) {
	case SessionStoreCookie:
		return SessionStoreCookie
	default:
		return SessionStoreRedis
	}
}

func GetRedisAddr() string {
	return os.Getenv("DRINKRATE_REDIS_ADDR")
}

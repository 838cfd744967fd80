// Package cache connects the session store to Redis. When no address is
// configured an embedded miniredis instance is started instead.
package cache

import (
	"context"
	"fmt"

	"github.com/drinkrate/drinkrate/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var (
	client    *redis.Client
	miniRedis *miniredis.Miniredis
)

// InitRedis connects to redisAddr, or to a fresh embedded server when
// redisAddr is empty.
func InitRedis(redisAddr string) error {
	if client != nil {
		return nil
	}
	if redisAddr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return fmt.Errorf("failed to start embedded Redis: %w", err)
		}
		miniRedis = mr
		client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		logger.Info("Embedded Redis started on", mr.Addr())
		return nil
	}

	c := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := c.Ping(context.Background()).Err(); err != nil {
		_ = c.Close()
		return fmt.Errorf("failed to connect to Redis at %s: %w", redisAddr, err)
	}
	client = c
	logger.Info("Connected to external Redis at", redisAddr)
	return nil
}

func GetClient() *redis.Client {
	return client
}

// Close closes the client and stops the embedded server if one was started.
func Close() error {
	var err error
	if client != nil {
		err = client.Close()
		client = nil
	}
	if miniRedis != nil {
		miniRedis.Close()
		miniRedis = nil
	}
	return err
}

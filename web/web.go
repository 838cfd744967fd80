// Package web assembles the gin engine and runs the HTTP server of the
// drink rating service.
package web

import (
	"context"
	"crypto/tls"
	"embed"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/drinkrate/drinkrate/caching"
	"github.com/drinkrate/drinkrate/config"
	"github.com/drinkrate/drinkrate/logger"
	"github.com/drinkrate/drinkrate/util/common"
	"github.com/drinkrate/drinkrate/web/cache"
	"github.com/drinkrate/drinkrate/web/controller"
	"github.com/drinkrate/drinkrate/web/job"
	"github.com/drinkrate/drinkrate/web/locale"
	"github.com/drinkrate/drinkrate/web/middleware"
	"github.com/drinkrate/drinkrate/web/network"
	"github.com/drinkrate/drinkrate/web/service"
	"github.com/drinkrate/drinkrate/web/session"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

//go:embed html/*
var htmlFS embed.FS

//go:embed translation/*
var i18nFS embed.FS

const (
	shutdownTimeout = 10 * time.Second
	accountCacheTTL = time.Minute
)

type Server struct {
	httpServer *http.Server
	listener   net.Listener

	index *controller.IndexController
	drink *controller.DrinkController

	settingService service.SettingService

	cron *cron.Cron
}

func NewServer() *Server {
	return &Server{}
}

// newSessionStore builds the store selected by DRINKRATE_SESSION_STORE,
// signed with the persisted secret.
func (s *Server) newSessionStore(basePath string) (sessions.Store, error) {
	secret, err := s.settingService.GetSecret()
	if err != nil {
		return nil, err
	}
	maxAge, err := s.settingService.GetSessionMaxAge()
	if err != nil {
		return nil, err
	}

	var store sessions.Store
	switch config.GetSessionStore() {
	case config.SessionStoreCookie:
		store = cookie.NewStore(secret)
	default:
		if err := cache.InitRedis(config.GetRedisAddr()); err != nil {
			return nil, err
		}
		store = cache.NewRedisStore(cache.GetClient(), secret)
	}
	store.Options(sessions.Options{
		Path:     basePath,
		MaxAge:   maxAge * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()

	basePath, err := s.settingService.GetBasePath()
	if err != nil {
		return nil, err
	}
	store, err := s.newSessionStore(basePath)
	if err != nil {
		return nil, err
	}
	if err := locale.InitLocalizer(i18nFS); err != nil {
		return nil, err
	}
	frontend, err := htmlFS.ReadFile("html/frontend.html")
	if err != nil {
		return nil, err
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	engine.Use(middleware.BasePath(basePath))
	engine.Use(sessions.Sessions(session.CookieName, store))
	engine.Use(session.Store(store))
	engine.Use(locale.LocalizerMiddleware())

	g := engine.Group(basePath)
	s.index = controller.NewIndexController(g, frontend)
	accounts := caching.NewAccountCache(&service.AccountService{}, accountCacheTTL)
	s.drink = controller.NewDrinkController(g, accounts)

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

func (s *Server) startTask() {
	runtime, err := s.settingService.GetCheckpointCron()
	if err != nil || runtime == "" {
		logger.Errorf("checkpoint cron [%s] invalid: %v, will run daily", runtime, err)
		runtime = "@daily"
	}
	if _, err := s.cron.AddJob(runtime, job.NewCheckpointJob()); err != nil {
		logger.Warning("Add checkpoint job error", err)
	}
}

func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	loc, err := s.settingService.GetTimeLocation()
	if err != nil {
		return err
	}
	s.cron = cron.New(cron.WithLocation(loc))
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	certFile, err := s.settingService.GetCertFile()
	if err != nil {
		return err
	}
	keyFile, err := s.settingService.GetKeyFile()
	if err != nil {
		return err
	}
	listen, err := s.settingService.GetListen()
	if err != nil {
		return err
	}
	port, err := s.settingService.GetPort()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(listen, strconv.Itoa(port))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	if certFile != "" || keyFile != "" {
		if cert, err := tls.LoadX509KeyPair(certFile, keyFile); err == nil {
			c := &tls.Config{
				Certificates: []tls.Certificate{cert},
			}
			listener = network.NewHttpsRedirectListener(listener)
			listener = tls.NewListener(listener, c)
			logger.Info("Web server running HTTPS on", listener.Addr())
		} else {
			logger.Error("Error loading certificates:", err)
			logger.Info("Web server running HTTP on", listener.Addr())
		}
	} else {
		logger.Info("Web server running HTTP on", listener.Addr())
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Addr:              listenAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("web server stopped:", err)
		}
	}()

	s.startTask()

	return nil
}

// Stop shuts the HTTP server down gracefully. The Redis session backend is
// left running so sessions survive a restart; see cache.Close.
func (s *Server) Stop() error {
	if s.cron != nil {
		s.cron.Stop()
	}
	var err1, err2 error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err1 = s.httpServer.Shutdown(ctx)
	}
	if s.listener != nil {
		// Shutdown already closes the listener.
		if err2 = s.listener.Close(); errors.Is(err2, net.ErrClosed) {
			err2 = nil
		}
	}
	return common.Combine(err1, err2)
}

// Addr returns the address the server listens on, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) GetCron() *cron.Cron {
	return s.cron
}

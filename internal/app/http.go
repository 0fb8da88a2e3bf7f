package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/adanyl0v/tasks-api/internal/config"
	"github.com/adanyl0v/tasks-api/internal/delivery/http/v1"
	"github.com/adanyl0v/tasks-api/internal/services"
)

const (
	serviceTitle   = "Tasks API"
	serviceVersion = "1.0.0"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	server := &http.Server{
		Addr:         net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler:      newRouter(cfg),
		ReadTimeout:  httpCfg.ReadTimeout,
		WriteTimeout: httpCfg.WriteTimeout,
		IdleTimeout:  httpCfg.IdleTimeout,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// kill (no params) sends SIGTERM, kill -2 sends SIGINT.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Dur("timeout", httpCfg.ShutdownTimeout).
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func newRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	err := router.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Strs("trusted_proxies", cfg.HTTP.TrustedProxies).
			Msg("invalid trusted proxies")
		panic(err)
	}

	router.Use(v1.RequestID())
	router.Use(v1.RequestLogger(globalLogger))
	router.Use(v1.Recovery(globalLogger))
	router.Use(v1.CORS(cfg.CORS.AllowedOrigins))

	if rps := cfg.RateLimit.RequestsPerSecond; rps > 0 {
		router.Use(v1.RateLimiter(rate.Limit(rps), cfg.RateLimit.Burst))
		globalLogger.Info().
			Float64("rps", rps).
			Int("burst", cfg.RateLimit.Burst).
			Msg("enabled rate limiting")
	}

	registerRoutes(router, cfg)
	return router
}

func registerRoutes(router gin.IRouter, cfg *config.Config) {
	taskService := services.NewTaskService(
		globalLogger.With().Str("component", "task_service").Logger(),
		globalPostgresPool,
	)
	v1Handler := v1.New(
		globalLogger.With().Str("component", "http").Logger(),
		globalPostgresPool,
		taskService,
		v1.ServiceInfo{
			Name:    serviceName,
			Title:   serviceTitle,
			Version: serviceVersion,
			Env:     cfg.Env,
		},
	)
	v1.RegisterRoutes(router, v1Handler)
}

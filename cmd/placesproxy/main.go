package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/empite/localfeeds/internal/config"
	gp "github.com/empite/localfeeds/internal/googleplaces"
	"github.com/empite/localfeeds/internal/proxy"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
	placesBurst       = 5
)

func main() {
	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	logger := baseLogger.Sugar()

	if err := config.LoadDotEnv(); err != nil {
		logger.Warnw("no .env file loaded", "error", err)
	}
	cfg, err := config.LoadProxy()
	if err != nil {
		logger.Fatalw(err.Error(), "action", "LoadProxy")
	}
	if cfg.PlacesApiKey == "" {
		logger.Warnw("google_places_apikey is not set, every search will answer 500")
	}

	places := gp.New(
		gp.ApiKeyOption(cfg.PlacesApiKey),
		gp.BaseUrlOption(cfg.PlacesBaseUrl),
		gp.RateLimitOption(cfg.PlacesRps, placesBurst),
	)

	var opts []proxy.ServiceOption
	if !cfg.DisableRedis {
		rc := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
		defer rc.Close()
		opts = append(opts, proxy.CacheOption(proxy.NewRedisCache(rc, proxy.DefaultCacheTTL)))
	}

	s := proxy.New(places, logger, opts...)

	server := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		logger.Infow("places proxy listening", "addr", server.Addr, "cache", !cfg.DisableRedis)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw(err.Error(), "action", "ListenAndServe")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorw(err.Error(), "action", "Shutdown")
	}
	logger.Infow("places proxy stopped")
}

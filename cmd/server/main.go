// main wires high-level dependencies, exposes the console router, and
// keeps the server lifecycle small. Business logic lives in the internal
// services packages.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"dinardap-console/internal/auth"
	"dinardap-console/internal/platform/config"
	"dinardap-console/internal/platform/httpserver"
	"dinardap-console/internal/platform/logger"
	"dinardap-console/internal/platform/metrics"
	platredis "dinardap-console/internal/platform/redis"
	"dinardap-console/internal/registry"
	"dinardap-console/internal/registry/cache"
	"dinardap-console/internal/session"
	httptransport "dinardap-console/internal/transport/http"
	"dinardap-console/internal/upstream"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	m := metrics.New()

	redisClient, err := platredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis unavailable, sessions will not survive restarts", "error", err)
	}

	var vault session.TokenVault
	if redisClient != nil && cfg.SessionSealKey != "" {
		v, err := session.NewRedisVault(redisClient, cfg.SessionSealKey)
		if err != nil {
			log.Error("invalid session seal key, disabling durable sessions", "error", err)
		} else {
			vault = v
		}
	}

	sessions := session.New(vault)
	if err := sessions.Rehydrate(context.Background()); err != nil {
		log.Warn("could not rehydrate session", "error", err)
	}

	client := upstream.New(cfg.RegistryBaseURL, cfg.UpstreamTimeout, sessions, log,
		upstream.WithMetrics(m),
		upstream.WithOnAuthExpired(func() {
			// Navigation back to the login view is the browser's job; the
			// server side records the expiry and the 401 envelope does the rest.
			log.Warn("session expired, operator must log in again")
		}),
	)

	gateway := auth.New(cfg.TokenURL, cfg.UpstreamTimeout, client, sessions, log, m)

	var queryOpts []registry.Option
	if redisClient != nil {
		queryOpts = append(queryOpts, registry.WithCache(cache.New(redisClient, cfg.CitizenCacheTTL)))
	}
	queryOpts = append(queryOpts, registry.WithMetrics(m))
	queries := registry.NewService(client, log, queryOpts...)

	router := httptransport.NewRouter(
		httptransport.NewSessionHandler(gateway, sessions),
		httptransport.NewRegistryHandler(queries),
		log,
		cfg.UpstreamTimeout+5*time.Second,
	)

	srv := httpserver.New(cfg.Addr, router, cfg.UpstreamTimeout)
	log.Info("starting dinardap console", "addr", cfg.Addr, "registry", cfg.RegistryBaseURL)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jeevanhealth/portal/internal/backend"
	"github.com/jeevanhealth/portal/internal/booking"
	"github.com/jeevanhealth/portal/internal/config"
	"github.com/jeevanhealth/portal/internal/handler"
	"github.com/jeevanhealth/portal/internal/middleware"
	"github.com/jeevanhealth/portal/internal/router"
	"github.com/jeevanhealth/portal/internal/session"
	"github.com/jeevanhealth/portal/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logger.New(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	// Session store: Redis when configured, in-process otherwise.
	var store session.Store
	if cfg.Session.RedisAddr != "" {
		redisStore, err := session.NewRedisStore(cfg.Session.RedisAddr)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		store = redisStore
		log.Info().Str("addr", cfg.Session.RedisAddr).Msg("using Redis session store")
	} else {
		store = session.NewMemoryStore(cfg.Session.TTL())
		log.Info().Msg("using in-process session store")
	}

	sessions := session.NewManager(store, cfg.Session)
	api := backend.New(cfg.API)
	flow := booking.NewFlow(api)
	gate := middleware.NewSessionGate(sessions)

	if err := handler.RegisterValidations(); err != nil {
		log.Fatal().Err(err).Msg("failed to register form validations")
	}

	r, err := router.NewRouter(
		gate,
		handler.NewAuthHandler(api, sessions),
		handler.NewPatientHandler(api, flow, sessions),
		handler.NewDoctorHandler(api, sessions),
		handler.NewHealthHandler(api),
		router.RouterConfig{
			RateLimit:      50,
			RateBurst:      100,
			MetricsPrefix:  "portal",
			RequestTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		},
		handler.NewAdminHandler(api, sessions),
		handler.NewAdminBookingHandler(flow, sessions),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("upstream", cfg.API.BaseURL).Msg("portal listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

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

	"github.com/jwalitptl/credpolicy-api/internal/audit"
	"github.com/jwalitptl/credpolicy-api/internal/config"
	"github.com/jwalitptl/credpolicy-api/internal/handler"
	policyHandler "github.com/jwalitptl/credpolicy-api/internal/handler/policy"
	"github.com/jwalitptl/credpolicy-api/internal/hook"
	"github.com/jwalitptl/credpolicy-api/internal/middleware"
	"github.com/jwalitptl/credpolicy-api/internal/policy"
	"github.com/jwalitptl/credpolicy-api/internal/repository/postgres"
	"github.com/jwalitptl/credpolicy-api/internal/router"
	"github.com/jwalitptl/credpolicy-api/internal/strength"
	"github.com/jwalitptl/credpolicy-api/pkg/auth"
	"github.com/jwalitptl/credpolicy-api/pkg/logger"
	"github.com/jwalitptl/credpolicy-api/pkg/messaging"
	redisbroker "github.com/jwalitptl/credpolicy-api/pkg/messaging/redis"
	"github.com/jwalitptl/credpolicy-api/pkg/metrics"
	"github.com/jwalitptl/credpolicy-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	lgr := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Pretty:  cfg.Log.Pretty,
		Service: "credpolicy-api",
	})
	log.Logger = lgr

	m := metrics.New("credpolicy")

	// Optional dictionary-strength collaborator, selected by config.
	var checker policy.StrengthChecker
	switch cfg.Strength.Mode {
	case "", "none":
	case "wordlist":
		wl, err := strength.NewWordlist(cfg.Strength.WordlistPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load wordlist")
		}
		log.Info().Int("entries", wl.Len()).Msg("wordlist strength checker enabled")
		checker = wl
	case "store":
		db, err := postgres.NewDB(cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()
		checker = strength.NewStore(postgres.NewDictionaryRepository(db), m)
		log.Info().Msg("store strength checker enabled")
	default:
		log.Fatal().Str("mode", cfg.Strength.Mode).Msg("unknown strength checker mode")
	}

	expiration := policy.NewExpirationPolicy(cfg.Policy.MaxValidityDays)
	complexity := policy.NewComplexityPolicy(cfg.Policy.MinPasswordLength, checker)
	svc := policy.NewService(expiration, complexity, security.NewBcryptVerifier(), lgr)

	// The registry is the chain both entry points run through. Anything
	// installed ahead of the service on the credential chain vetoes first;
	// the service's gate is installed first on the request chain so its
	// check runs before any chained handler.
	registry := hook.NewRegistry()
	credHandle := registry.InstallCredentialChecker(svc)
	reqHandle := registry.InstallRequestChecker(svc)
	defer func() {
		registry.Remove(credHandle)
		registry.Remove(reqHandle)
	}()

	var broker messaging.Broker
	if cfg.Redis.Enabled {
		broker, err = redisbroker.NewRedisBroker(redisbroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, lgr)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
	}

	auditor := audit.NewRecorder(lgr, broker, m)

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour, cfg.JWT.Issuer)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	h := handler.NewHandler()
	policyH := policyHandler.NewHandler(registry, auditor, m)

	r := router.NewRouter(authMiddleware, policyH, h, router.RouterConfig{
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimitRPS:     cfg.RateLimit.RequestsPerSecond,
		RateLimitBurst:   cfg.RateLimit.Burst,
		Timeout:          time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		CORSConfig:       middleware.DefaultCORSConfig(),
		MetricsPrefix:    "credpolicy",
	})
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("credential policy service loaded")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"offerwall-rewards/config"
	httpHandler "offerwall-rewards/internal/adapter/http/handler"
	"offerwall-rewards/internal/adapter/http/middleware"
	"offerwall-rewards/internal/adapter/notify"
	"offerwall-rewards/internal/adapter/offerwall"
	pgStorage "offerwall-rewards/internal/adapter/storage/postgres"
	redisStorage "offerwall-rewards/internal/adapter/storage/redis"
	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports"
	"offerwall-rewards/internal/service"
	"offerwall-rewards/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	cfgPath := os.Getenv("OFW_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, Caller: true})
	gin.SetMode(cfg.Server.Mode)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting offerwall rewards server")

	ctx := context.Background()

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	if cfg.Database.AutoMigrate {
		if err := pgStorage.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply schema")
		}
		log.Info().Msg("Schema up to date")
	}

	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Repositories
	userRepo := pgStorage.NewUserRepo(pool)
	balanceRepo := pgStorage.NewBalanceRepo(pool)
	conversionRepo := pgStorage.NewConversionRepo(pool)
	withdrawalRepo := pgStorage.NewWithdrawalRepo(pool)
	auditRepo := pgStorage.NewAuditRepository(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Redis stores
	postbackLock := redisStorage.NewPostbackLock(rdb)
	resultCache := redisStorage.NewResultCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Core services
	sigSvc := service.NewSignatureService()
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	auditSvc := service.NewAuditService(auditRepo, logger.Component(log, "audit"))

	notifier, telegram, err := buildNotifier(cfg, sigSvc, logger.Component(log, "notify"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize admin notifications")
	}

	registry, err := offerwall.NewRegistry(sigSvc, offerwallSettings(cfg.Offerwall))
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid offerwall configuration")
	}

	// Business services
	authSvc := service.NewAuthService(userRepo, hashSvc, tokenSvc, cfg.Admin.Emails)
	postbackSvc := service.NewPostbackService(
		userRepo,
		balanceRepo,
		conversionRepo,
		postbackLock,
		resultCache,
		transactor,
		auditSvc,
		cfg.Offerwall.LockTTL,
		cfg.Offerwall.ResultTTL,
		logger.Component(log, "postback"),
	)
	withdrawalSvc := service.NewWithdrawalService(
		withdrawalRepo,
		balanceRepo,
		transactor,
		notifier,
		auditSvc,
		cfg.Withdrawal.Coins,
		cfg.Withdrawal.MinAmount,
		logger.Component(log, "withdrawal"),
	)
	adminSvc := service.NewAdminService(userRepo, withdrawalRepo, balanceRepo, transactor, auditSvc, logger.Component(log, "admin"))
	accountSvc := service.NewAccountService(userRepo, balanceRepo, conversionRepo)

	window := cfg.RateLimit.Window
	router, err := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:       authSvc,
		PostbackSvc:   postbackSvc,
		WithdrawalSvc: withdrawalSvc,
		AdminSvc:      adminSvc,
		AccountSvc:    accountSvc,
		TokenSvc:      tokenSvc,
		Offerwalls:    registry,
		Limiter:       rateLimitStore,
		RateLimits: httpHandler.RateLimits{
			Auth:     middleware.RateLimitRule{Limit: cfg.RateLimit.Auth, Window: window},
			Postback: middleware.RateLimitRule{Limit: cfg.RateLimit.Postback, Window: window},
			API:      middleware.RateLimitRule{Limit: cfg.RateLimit.API, Window: window},
		},
		TrustedProxies: cfg.Server.TrustedProxies,
		HealthCheckers: []ports.HealthChecker{pgStorage.NewHealthCheck(pool), redisStorage.NewHealthCheck(rdb)},
		AuditSvc:       auditSvc,
		Logger:         log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build router")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := auditSvc.Wait(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Pending audit entries dropped")
	}
	if telegram != nil {
		if err := telegram.Wait(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Pending Telegram notifications dropped")
		}
	}

	log.Info().Msg("Server exited")
}

func offerwallSettings(cfg config.OfferwallConfig) map[string]offerwall.Settings {
	toSettings := func(p config.ProviderConfig) offerwall.Settings {
		return offerwall.Settings{
			Enabled:    p.Enabled,
			Secret:     p.Secret,
			Rate:       p.Rate,
			AllowedIPs: p.AllowedIPs,
		}
	}
	return map[string]offerwall.Settings{
		domain.ProviderGeneric:     toSettings(cfg.Generic),
		domain.ProviderAdswedMedia: toSettings(cfg.AdswedMedia),
		domain.ProviderCPX:         toSettings(cfg.CPX),
		domain.ProviderGemiwall:    toSettings(cfg.Gemiwall),
		domain.ProviderNotik:       toSettings(cfg.Notik),
	}
}

// buildNotifier returns the configured withdrawal notifiers, or a no-op when none are set.
// The Telegram notifier is also returned, nil when disabled, so shutdown can drain it.
func buildNotifier(cfg *config.Config, sigSvc ports.SignatureService, log zerolog.Logger) (ports.AdminNotifier, *notify.Telegram, error) {
	var notifiers []ports.AdminNotifier
	var telegram *notify.Telegram

	if cfg.Telegram.Token != "" {
		bot, err := notify.NewTelegramBot(cfg.Telegram.Token, cfg.Telegram.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("telegram: %w", err)
		}
		telegram = notify.NewTelegram(bot, cfg.Telegram.ChatID, log)
		notifiers = append(notifiers, telegram)
		log.Info().Int64("chat_id", cfg.Telegram.ChatID).Msg("Telegram notifications enabled")
	}

	if cfg.Webhook.URL != "" {
		client := &http.Client{Timeout: cfg.Webhook.Timeout}
		notifiers = append(notifiers, notify.NewWebhook(cfg.Webhook.URL, cfg.Webhook.Secret, sigSvc, client, notify.DefaultRetryIntervals, log))
		log.Info().Str("url", cfg.Webhook.URL).Msg("Webhook notifications enabled")
	}

	return notify.Combine(notifiers...), telegram, nil
}

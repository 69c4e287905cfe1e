// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"payment-status-bot/internal/config"
	"payment-status-bot/internal/domain/ports/repository"
	tele "payment-status-bot/internal/infra/adapters/telegram"
	"payment-status-bot/internal/infra/adapters/upstream"
	"payment-status-bot/internal/infra/api"
	pg "payment-status-bot/internal/infra/db/postgres"
	"payment-status-bot/internal/infra/i18n"
	"payment-status-bot/internal/infra/logging"
	"payment-status-bot/internal/infra/memory"
	"payment-status-bot/internal/infra/metrics"
	red "payment-status-bot/internal/infra/redis"
	"payment-status-bot/internal/infra/registry"
	"payment-status-bot/internal/infra/worker"
	"payment-status-bot/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	envFile := flag.String("env", ".env", "optional dotenv file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted values)")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("dotenv: %v", err)
	}

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Registry ----
	reg, closeRegistry, err := openRegistry(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("registry: %v", err)
	}
	defer closeRegistry()

	// ---- Conversation state ----
	states := memory.NewStateStore(cfg.Conversation.StateTTL)

	// ---- Upstream clients ----
	hc := &http.Client{}
	up := usecase.Upstreams{
		Payments:    upstream.NewPaymentStatusClient(cfg.Upstream.PaymentStatusURL, hc, cfg.Upstream.Timeout, logger),
		Blacklist:   upstream.NewBlacklistClient(cfg.Upstream.BlacklistURL, cfg.Upstream.BlacklistComment, hc, cfg.Upstream.Timeout, logger, cfg.Runtime.Dev),
		Descriptors: upstream.NewDescriptorSource(cfg.Upstream.DescriptorsURL, cfg.Upstream.DescriptorsPath, hc, cfg.Upstream.Timeout, logger),
		Pinger:      upstream.NewPinger(cfg.Upstream.PingURL, hc, cfg.Upstream.Timeout, logger),
	}

	// ---- Telegram ----
	bot, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, logger)
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}
	translator := i18n.MustDefault()
	dispatcher := usecase.NewDispatcher(reg, states, up, translator, bot.Username(), logger, cfg.Runtime.Dev)

	// ---- Redis (optional rate limit) ----
	var limiter tele.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		limiter = red.NewRateLimiter(redisClient, cfg.Redis.RateLimitPerMinute, time.Minute)
	}

	// ---- Worker pool ----
	pool := worker.NewPool(cfg.Bot.Workers, cfg.Bot.QueueSize, logger)
	pool.Start(context.Background())

	proc := tele.NewProcessor(dispatcher, bot.Transport(), limiter, translator, logger)
	ingestor := tele.NewIngestor(proc, pool, logger)

	// ---- HTTP ----
	routes := api.RouterConfig{
		WebhookPath:    cfg.Bot.WebhookPath,
		Webhook:        tele.NewWebhookHandler(ingestor, logger),
		Metrics:        metrics.Handler(),
		RequestTimeout: cfg.HTTP.RequestTimeout,
	}
	switch cfg.Bot.Mode {
	case config.ModeWebhook:
		routes.Registrar = bot
		if cfg.Bot.SetWebhook {
			if err := bot.RegisterWebhook(ctx); err != nil {
				logger.Error().Err(err).Msg("webhook registration failed")
			}
		}
	case config.ModePolling:
		go func() {
			if err := bot.StartPolling(ctx, ingestor); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("telegram polling stopped")
			}
		}()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           api.NewRouter(routes, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Str("mode", cfg.Bot.Mode).Str("webhook_path", cfg.Bot.WebhookPath).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			stop()
		}
	}()

	// ---- Graceful shutdown ----
	<-ctx.Done()
	logger.Info().Msg("shutdown requested")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	bot.StopPolling()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	pool.Stop()
	logger.Info().Msg("bye")
}

// openRegistry opens the configured backend and returns its closer.
func openRegistry(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (repository.Registry, func(), error) {
	switch cfg.Registry.Driver {
	case config.RegistryPostgres:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		pool, err := pg.NewPgxPool(connectCtx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		if err := pg.EnsureSchema(connectCtx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		repo, err := pg.NewRegistryRepo(connectCtx, pool, logger)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil
	default:
		fr, err := registry.Open(cfg.Registry.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		return fr, func() {
			if err := fr.Close(); err != nil {
				logger.Error().Err(err).Msg("close registry")
			}
		}, nil
	}
}

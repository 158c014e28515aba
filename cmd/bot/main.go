package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/danielholmes839/nyutai-log-bot/internal/bot"
	"github.com/danielholmes839/nyutai-log-bot/internal/config"
	"github.com/danielholmes839/nyutai-log-bot/internal/metrics"
	"github.com/danielholmes839/nyutai-log-bot/internal/nyutai"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
)

func launch() error {
	godotenv.Load()

	cfg, err := config.Load(afero.NewOsFs(), os.Getenv)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// setup metrics
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, registry); err != nil {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
	}

	// setup client
	client := nyutai.NewClient(cfg.NyutaiBaseURL, cfg.NyutaiToken, cfg.HTTPTimeout)
	client.Observe = m.ObserveRequest

	// setup the discord bot
	b := &bot.Bot{
		Client:        client,
		ApplicationID: cfg.ApplicationID,
		GuildID:       cfg.GuildID,
		Messages:      cfg.Messages,
		Location:      cfg.Location,
		LookbackDays:  cfg.LookbackDays,
		Selectors:     bot.NewSelectorRegistry(cfg.SelectTimeout),
		Metrics:       m,
	}

	logger.Info("starting bot",
		"base_url", cfg.NyutaiBaseURL,
		"locale", cfg.Locale.String(),
		"timezone", cfg.Location.String(),
		"lookback_days", cfg.LookbackDays,
	)

	return b.Run(ctx, cfg.DiscordToken)
}

func main() {
	err := launch()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

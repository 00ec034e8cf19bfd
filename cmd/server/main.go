package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/karolisr/disputedesk/internal/adapters/memory"
	"github.com/karolisr/disputedesk/internal/app/ports"
	"github.com/karolisr/disputedesk/internal/config"
	"github.com/karolisr/disputedesk/internal/db"
	"github.com/karolisr/disputedesk/internal/disputes"
	"github.com/karolisr/disputedesk/internal/draft"
	"github.com/karolisr/disputedesk/internal/metrics"
	"github.com/karolisr/disputedesk/internal/server"
	"github.com/karolisr/disputedesk/internal/server/routes"
	"github.com/karolisr/disputedesk/internal/stripeapi"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		return
	}

	var accounts ports.AccountStore
	var cases ports.CaseStore
	if cfg.Database.Path == "memory" {
		store := memory.NewStore()
		accounts, cases = store, store
		slog.Warn("Using in-memory stores, records are lost on restart")
	} else {
		database, err := db.New(cfg.Database.Path)
		if err != nil {
			slog.Error("Failed to open database", "error", err)
			return
		}
		defer func() {
			if err := database.Close(); err != nil {
				slog.Error("Failed to close database", "error", err)
			}
		}()
		accounts, cases = database, database
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	stripeClient := stripeapi.New(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
	generator := draft.NewGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, collector)
	if cfg.OpenAI.APIKey == "" {
		slog.Warn("OPENAI_API_KEY not set, drafts use the fallback template")
	}
	intake := disputes.NewIntake(stripeClient, cases, generator, log)

	routes.ConfigureConnect(routes.ConnectConfig{
		SessionSecret: cfg.Auth.SessionSecret,
		ClientID:      cfg.Stripe.ClientID,
		SecretKey:     cfg.Stripe.SecretKey,
		RedirectURL:   cfg.Stripe.RedirectURL,
		SecureCookies: cfg.Auth.SecureCookie,
	})

	srv := server.New(log)
	srv.RegisterRouter(routes.NewHealthRoutes())
	srv.RegisterRouter(routes.NewMetricsRoutes(registry))
	srv.RegisterRouter(routes.NewConnectRoutes(accounts, cfg.Stripe.ClientID))
	srv.RegisterRouter(routes.NewWebhookRoutes(stripeClient, intake, collector, log))
	srv.RegisterRouter(routes.NewCaseRoutes(cases, stripeClient, collector, log, cfg.RateLimit.PerSecond, cfg.RateLimit.Burst))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("Starting server", "port", cfg.Server.Port)
	slog.Error("Closing server", "error", srv.Start(addr))
}

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"customer-analytics-buddy/internal/config"
	"customer-analytics-buddy/internal/controller"
	httpserver "customer-analytics-buddy/internal/http"
	"customer-analytics-buddy/internal/logger"
	"customer-analytics-buddy/internal/mailchimp"
	"customer-analytics-buddy/internal/service"
	"customer-analytics-buddy/internal/shopify"
	"customer-analytics-buddy/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLog, err := logger.New(cfg.AppMode)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer appLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	docs, err := store.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, appLog)
	if err != nil {
		log.Fatalf("connect store: %v", err)
	}

	usageWorker := service.NewUsageWorker(docs, cfg.WorkerBufferSize, cfg.WorkerBatchSize, cfg.WorkerFlushEvery, appLog)
	metrics := service.NewMetricsService(cfg.ShopifyPageSize, cfg.ShopifyMaxRecords, appLog)
	connector := mailchimp.NewConnector(cfg.MailchimpClientID, cfg.MailchimpSecret, cfg.MailchimpRedirect, appLog)

	newFetcher := func(session shopify.Session) shopify.OrderFetcher {
		return shopify.NewOrderFetcher(shopify.NewClient(session, cfg.ShopifyAPIVersion, appLog), appLog)
	}

	dashboard := controller.NewDashboardController(metrics, docs, usageWorker, connector, newFetcher)
	server := httpserver.NewServer(cfg, dashboard)

	go func() {
		<-ctx.Done()
		appLog.Infow("shutting down")
		usageWorker.Shutdown()
		if err := server.Shutdown(); err != nil {
			appLog.Errorw("server shutdown failed", "error", err)
		}
	}()

	appLog.Infow("starting server", "addr", cfg.HTTPPort)
	if err := server.Listen(cfg.HTTPPort); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

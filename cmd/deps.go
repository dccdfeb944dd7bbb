package cmd

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/legacy"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/repository"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/service"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/splynx"
	"github.com/vibast-solutions/ms-go-billing-gateway/config"
)

type gatewayDeps struct {
	cfg          *config.Config
	store        *repository.RecordStore
	gateway      *service.Gateway
	connectivity *service.ConnectivityService
	renderer     *legacy.Renderer
}

func mustCreateGateway() (*gatewayDeps, func()) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	cleanup := func() {}
	store := repository.NewRecordStore(nil, cfg.MySQL.CustomerLookup)
	if cfg.MySQL.Enabled() {
		db, err := sql.Open("mysql", cfg.MySQL.DSN)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to open database")
		}

		db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

		// The store is optional; an unreachable server degrades to the API channel.
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.PingContext(pingCtx); err != nil {
			logrus.WithError(err).Warn("Database not reachable at startup")
		}
		cancel()

		store = repository.NewRecordStore(db, cfg.MySQL.CustomerLookup)
		cleanup = func() {
			if err := db.Close(); err != nil {
				logrus.WithError(err).Warn("Failed to close database")
			}
		}
	} else {
		logrus.Info("MYSQL_DSN not set, store channel disabled")
	}

	client := splynx.NewClient(splynx.Config{
		BaseURL:        cfg.Splynx.BaseURL,
		APIKey:         cfg.Splynx.APIKey,
		APISecret:      cfg.Splynx.APISecret,
		Timeout:        cfg.Splynx.Timeout,
		RateLimitRPS:   cfg.Splynx.RateLimitRPS,
		RateLimitBurst: cfg.Splynx.RateLimitBurst,
	})

	api := service.NewAPIChannel(client)
	resolver := service.NewCustomerResolver(store, api.Strategies())
	invoices := service.NewInvoiceAggregator(store, api)
	poster := service.NewPaymentPoster(resolver, invoices, client, cfg.Payments)

	return &gatewayDeps{
		cfg:          cfg,
		store:        store,
		gateway:      service.NewGateway(resolver, invoices, poster),
		connectivity: service.NewConnectivityService(store, client, client),
		renderer: legacy.NewRenderer(legacy.Options{
			Escape:            cfg.Legacy.EscapeXML,
			PaymentReferences: cfg.Legacy.PaymentReferences,
		}),
	}, cleanup
}

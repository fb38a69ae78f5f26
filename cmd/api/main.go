package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/rileysalas/clientdesk-backend/api/routes"
	"github.com/rileysalas/clientdesk-backend/internal/customers"
	"github.com/rileysalas/clientdesk-backend/internal/dashboard"
	"github.com/rileysalas/clientdesk-backend/internal/obligations"
	"github.com/rileysalas/clientdesk-backend/internal/orders"
	"github.com/rileysalas/clientdesk-backend/internal/subscriptions"
	"github.com/rileysalas/clientdesk-backend/internal/templates"
	"github.com/rileysalas/clientdesk-backend/pkg/config"
	"github.com/rileysalas/clientdesk-backend/pkg/db"
	"github.com/rileysalas/clientdesk-backend/pkg/logger"
	"github.com/rileysalas/clientdesk-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	customerRepo := customers.NewRepository(dbClient.DB())

	customerService, err := customers.NewService(customers.ServiceParams{Repo: customerRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}

	orderRepo := orders.NewRepository(dbClient.DB())
	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:      orderRepo,
		Customers: customerRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	subscriptionService, err := subscriptions.NewService(subscriptions.ServiceParams{
		Repo:      subscriptions.NewRepository(dbClient.DB()),
		Customers: customerRepo,
		Tx:        dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create subscriptions service", err)
		os.Exit(1)
	}

	obligationService, err := obligations.NewService(obligations.ServiceParams{
		Repo:   obligations.NewRepository(dbClient.DB()),
		Orders: orderRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create obligations service", err)
		os.Exit(1)
	}

	dashboardService, err := dashboard.NewService(dashboard.ServiceParams{
		Repo: dashboard.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	templateService, err := templates.NewService(templates.ServiceParams{
		Repo: templates.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create templates service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:        cfg,
			Logger:        logg,
			DBPing:        dbClient.Ping,
			Customers:     customerService,
			Orders:        orderService,
			Subscriptions: subscriptionService,
			Obligations:   obligationService,
			Dashboard:     dashboardService,
			Templates:     templateService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/auth"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/common/httpx"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/common/logger"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/config"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/connections/database"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/connections/rabbitmq"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/events"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/ingest/sheets"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/ingest/shopify"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/kvstore"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/notify"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/orders"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/riders"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/server"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Delivery dispatch backend",
	Long:  `dispatch runs the delivery-dispatch API: order lifecycle, rider directory, daily summaries and Shopify/Google Sheets ingestion.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the background sheet sync",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Run the notification subscriber",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNotify()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.AddCommand(serveCmd, notifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe() error {
	lg := logger.New("bootstrap")
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var kv kvstore.Store
	if cfg.Database.Enabled {
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer pool.Close()
		pg := kvstore.NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
		kv = pg
		lg.Info("postgres_connected", map[string]any{"host": cfg.Database.Host, "database": cfg.Database.Database})
	} else {
		kv = kvstore.NewMemory()
		lg.Warn("using_memory_store", map[string]any{"hint": "data is lost on restart; enable database for persistence"})
	}

	var pub events.Publisher = events.Noop{}
	if cfg.RabbitMQ.Enabled {
		rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
		if err != nil {
			return fmt.Errorf("rabbitmq connect: %w", err)
		}
		defer rmq.Close()
		if err := rmq.DeclareTopology(); err != nil {
			return fmt.Errorf("rabbitmq declare: %w", err)
		}
		pub = events.NewAMQP(rmq)
		lg.Info("rabbitmq_connected", map[string]any{"host": cfg.RabbitMQ.Host})
	}

	authSvc := auth.NewService(kv, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	orderStore := orders.NewStore(kv)
	orderSvc := orders.NewService(orderStore, authSvc, pub, cfg.Orders.StrictStatuses)
	locations := riders.NewLocations(kv, authSvc)
	shopifySvc := shopify.NewService(kv, orderStore)
	sheetsSvc := sheets.NewService(kv, orderStore)

	if cfg.SheetsSync.Enabled {
		poller := sheets.NewPoller(sheetsSvc, cfg.SheetsSync.Interval)
		go poller.Run(ctx)
		lg.Info("sheets_poller_started", map[string]any{"interval": cfg.SheetsSync.Interval.String()})
	}

	handler := server.NewHandler(authSvc, orderSvc, locations, shopifySvc, sheetsSvc)
	srv := httpx.New(fmt.Sprintf(":%d", cfg.Server.Port), server.Router(handler))
	lg.Info("service_started", map[string]any{"service": "dispatch-api", "port": cfg.Server.Port})
	return srv.Run(ctx)
}

func runNotify() error {
	lg := logger.New("bootstrap")
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
	if err != nil {
		return fmt.Errorf("rabbitmq connect: %w", err)
	}
	defer rmq.Close()

	lg.Info("service_started", map[string]any{"service": "notification-subscriber"})
	return notify.Run(ctx, rmq)
}

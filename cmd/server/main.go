package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/text/currency"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/es"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/logging"
	loggingmw "github.com/Skotchmaster/storefront/internal/middleware/logging"
	"github.com/Skotchmaster/storefront/internal/mykafka"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/service"
)

func main() {
	cfg := config.MustLoad(".env")
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	unit, err := currency.ParseISO(cfg.Currency)
	if err != nil {
		log.Fatalf("CURRENCY: %v", err)
	}

	initCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	gdb, err := db.Open(initCtx, cfg.DBDriver, cfg.DatabaseURL)
	if err == nil {
		err = db.Migrate(initCtx, gdb)
	}
	if err != nil {
		cancel()
		log.Fatalf("database init: %v", err)
	}

	events, closeEvents := publisher(cfg, logger)
	index := productIndex(initCtx, cfg, logger)

	r := repo.New(gdb)
	authSvc := &service.AuthService{Repo: r, JWTSecret: cfg.JWTSecret, AccessTTL: cfg.AccessTTL}
	if cfg.StaffEmail != "" {
		if err := authSvc.EnsureStaff(initCtx, cfg.StaffEmail, cfg.StaffPassword, ""); err != nil {
			cancel()
			log.Fatalf("staff account: %v", err)
		}
	}
	cancel()

	catalog := &service.CatalogService{Repo: r, Events: events}
	if index != nil {
		catalog.Index = index
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(middleware.CORS())

	httpserver.Register(e, &httpserver.Deps{
		Auth: &httpserver.AuthHTTP{Svc: authSvc, CookieSecure: cfg.CookieSecure},
		Cart: &httpserver.CartHTTP{Svc: &service.CartService{Repo: r}, Currency: unit},
		Order: &httpserver.OrderHTTP{
			Svc: &service.OrderService{
				Repo:      r,
				Events:    events,
				Pricing:   service.DefaultPricing(unit),
				TxTimeout: cfg.TxTimeout,
			},
			Currency: unit,
		},
		Address:      &httpserver.AddressHTTP{Svc: &service.AddressService{Repo: r}},
		Card:         &httpserver.CardHTTP{Svc: &service.CardService{Repo: r}},
		Product:      &httpserver.ProductHTTP{Svc: catalog},
		Inventory:    &httpserver.InventoryHTTP{Svc: &service.InventoryService{Repo: r, Events: events}},
		JWTSecret:    cfg.JWTSecret,
		CookieSecure: cfg.CookieSecure,
		CSRF:         cfg.CSRFEnabled,
		Ready:        func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	})

	go func() {
		logger.Info("server_starting", "port", cfg.ServerPort, "db_driver", cfg.DBDriver)
		if err := e.Start(fmt.Sprintf(":%d", cfg.ServerPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("echo start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := closeEvents(); err != nil {
		logger.Error("kafka close error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db close error", "error", err)
	}

	logger.Info("server stopped")
}

// publisher falls back to dropping events when Kafka is not configured or unreachable.
func publisher(cfg config.Config, l *slog.Logger) (service.Publisher, func() error) {
	if len(cfg.KafkaBrokers) == 0 {
		l.Warn("kafka_disabled", "reason", "KAFKA_BROKERS empty")
		return mykafka.Nop{}, func() error { return nil }
	}

	prod, err := mykafka.NewProducer(cfg.KafkaBrokers, []string{service.TopicOrders, service.TopicProducts, service.TopicStock})
	if err != nil {
		l.Error("kafka_disabled", "error", err)
		return mykafka.Nop{}, func() error { return nil }
	}
	return prod, prod.Close
}

func productIndex(ctx context.Context, cfg config.Config, l *slog.Logger) *search.ProductIndex {
	if cfg.ESURL == "" {
		l.Warn("search_index_disabled", "reason", "ES_URL empty")
		return nil
	}

	client, err := es.NewClient(ctx, es.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword}, l)
	if err != nil {
		l.Error("search_index_disabled", "error", err)
		return nil
	}

	idx := &search.ProductIndex{Client: client, Name: cfg.ESIndex}
	if err := idx.EnsureIndex(ctx); err != nil {
		l.Error("search_index_disabled", "error", err)
		return nil
	}
	return idx
}

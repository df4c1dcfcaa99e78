package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/todo_app/internal/config"
	"github.com/Skotchmaster/todo_app/internal/db"
	"github.com/Skotchmaster/todo_app/internal/events"
	"github.com/Skotchmaster/todo_app/internal/httpserver"
	"github.com/Skotchmaster/todo_app/internal/logging"
	authmw "github.com/Skotchmaster/todo_app/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/todo_app/internal/middleware/logging"
	"github.com/Skotchmaster/todo_app/internal/repo"
	"github.com/Skotchmaster/todo_app/internal/search"
	"github.com/Skotchmaster/todo_app/internal/service"
	"github.com/Skotchmaster/todo_app/internal/tokens"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	ts, err := tokens.NewService(cfg.JWTSecret, cfg.JWTAlgorithm)
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	pub := events.NewPublisher(cfg.KafkaBrokers)
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("kafka disabled", "reason", "KAFKA_BROKERS is empty")
	}

	index := newSearchIndex(cfg, logger)

	r := repo.New(gdb)
	authSvc := &service.AuthService{Repo: r, Tokens: ts, TokenTTL: cfg.AccessTokenTTL, Events: pub}
	todoSvc := &service.TodoService{Repo: r, Events: pub}
	if index != nil {
		todoSvc.Index = index
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:   &httpserver.AuthHTTP{Svc: authSvc, SecureCookies: cfg.SecureCookies},
		TodoHandler:   &httpserver.TodoHTTP{Svc: todoSvc},
		AdminHandler:  &httpserver.AdminHTTP{Svc: todoSvc},
		UserHandler:   &httpserver.UserHTTP{Svc: authSvc},
		HealthHandler: &httpserver.HealthHTTP{Ready: func(ctx context.Context) error { return db.Ping(ctx, gdb) }},
		Auth:          authmw.New(ts, cfg.LoginPath, cfg.SecureCookies),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	if err := pub.Close(); err != nil {
		logger.Error("kafka close", "error", err)
	}
	closeDB(gdb, logger)
	logger.Info("server stopped")
}

// newSearchIndex returns nil when ES_URL is unset or the cluster is unreachable.
func newSearchIndex(cfg *config.Config, logger *slog.Logger) *search.ESIndex {
	if cfg.ESURL == "" {
		logger.Warn("elasticsearch disabled", "reason", "ES_URL is empty")
		return nil
	}
	client, err := search.NewClient(search.Config{
		URL:      cfg.ESURL,
		User:     cfg.ESUser,
		Password: cfg.ESPassword,
		Index:    cfg.ESIndex,
	})
	if err != nil {
		logger.Error("elasticsearch disabled", "error", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := search.Ping(ctx, client); err != nil {
		logger.Error("elasticsearch disabled", "error", err)
		return nil
	}
	return search.NewESIndex(client, cfg.ESIndex)
}

func closeDB(gdb *gorm.DB, logger *slog.Logger) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("db close", "error", err)
	}
}

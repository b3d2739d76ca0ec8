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
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/catalog/internal/config"
	"github.com/Skotchmaster/catalog/internal/db"
	"github.com/Skotchmaster/catalog/internal/events"
	"github.com/Skotchmaster/catalog/internal/hash"
	"github.com/Skotchmaster/catalog/internal/httpserver"
	"github.com/Skotchmaster/catalog/internal/logging"
	middleware "github.com/Skotchmaster/catalog/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/catalog/internal/middleware/logging"
	"github.com/Skotchmaster/catalog/internal/repo"
	"github.com/Skotchmaster/catalog/internal/revocation"
	"github.com/Skotchmaster/catalog/internal/seed"
	"github.com/Skotchmaster/catalog/internal/service"
	"github.com/Skotchmaster/catalog/internal/tokens"
)

func main() {
	config.LoadEnvFile(".env")
	cfg := config.MustLoad()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL, db.Options{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		SlowQuery:       cfg.DB.SlowQuery,
	})
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	var (
		revoked revocation.Store
		rdb     *redis.Client
	)
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			log.Fatalf("redis ping: %v", err)
		}
		revoked = revocation.NewRedisStore(rdb, cfg.RevocationPrefix)
		logger.Info("revocation store", "backend", "redis", "addr", cfg.RedisAddr)
	} else {
		revoked = revocation.NewMemoryStore()
		logger.Info("revocation store", "backend", "memory")
	}

	var (
		publisher events.Publisher = events.NopPublisher{}
		producer  *events.Producer
	)
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		publisher = producer
	}

	r := repo.NewGormRepo(gdb)
	tokenSvc := tokens.NewService(cfg.JWTSecret, cfg.AccessTokenTTL, revoked)
	authSvc := &service.AuthService{
		Repo:   r,
		Hasher: hash.NewHasher(cfg.BcryptCost),
		Tokens: tokenSvc,
		Events: publisher,
	}
	catalogSvc := &service.CatalogService{Repo: r, Events: publisher}

	if cfg.SeedSampleData {
		seedCtx := logging.IntoContext(context.Background(), logger)
		if _, err := seed.SampleData(seedCtx, r, authSvc, catalogSvc); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalogSvc},
		AuthMW:         middleware.NewAuthMiddleware(tokenSvc),
		Ready: func(ctx context.Context) error {
			if err := db.Ping(ctx, gdb); err != nil {
				return err
			}
			if rdb != nil {
				return rdb.Ping(ctx).Err()
			}
			return nil
		},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("catalog listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	if err := db.Close(gdb); err != nil {
		logger.Error("db close error", "error", err)
	}

	logger.Info("catalog stopped")
}

package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/catalog/internal/config"
	"github.com/Skotchmaster/catalog/internal/db/migrations"
	"github.com/Skotchmaster/catalog/internal/models"
)

// Options tunes the postgres pool and the gorm logger.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	SlowQuery       time.Duration
}

func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    20,
		MaxIdleConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		SlowQuery:       200 * time.Millisecond,
	}
}

// withDefaults fills zero fields so a partially set Options stays usable.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MaxOpenConns <= 0 {
		o.MaxOpenConns = def.MaxOpenConns
	}
	if o.MaxIdleConns <= 0 || o.MaxIdleConns > o.MaxOpenConns {
		o.MaxIdleConns = min(def.MaxIdleConns, o.MaxOpenConns)
	}
	if o.ConnMaxLifetime <= 0 {
		o.ConnMaxLifetime = def.ConnMaxLifetime
	}
	if o.ConnMaxIdleTime <= 0 {
		o.ConnMaxIdleTime = def.ConnMaxIdleTime
	}
	if o.SlowQuery <= 0 {
		o.SlowQuery = def.SlowQuery
	}
	return o
}

// slogWriter sends gorm's slow query and error lines to the process logger.
type slogWriter struct{}

func (slogWriter) Printf(format string, args ...any) {
	slog.Default().Warn("gorm", "detail", fmt.Sprintf(format, args...))
}

func gormConfig(opts Options) *gorm.Config {
	return &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger: logger.New(slogWriter{}, logger.Config{
			SlowThreshold:             opts.SlowQuery,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

// Open connects using the configured driver and applies the schema.
func Open(ctx context.Context, driver, dsn string, opts Options) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	switch driver {
	case config.DriverPostgres:
		return OpenPostgres(ctx, dsn, opts)
	case config.DriverSQLite:
		return OpenSQLite(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

func OpenPostgres(ctx context.Context, dsn string, opts Options) (*gorm.DB, error) {
	opts = opts.withDefaults()
	db, err := gorm.Open(postgres.Open(dsn), gormConfig(opts))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(opts.ConnMaxIdleTime)

	if err := ping(ctx, sqlDB); err != nil {
		return nil, err
	}

	if err := Migrate(ctx, sqlDB); err != nil {
		return nil, err
	}

	return db, nil
}

// OpenSQLite is meant for local runs and tests. A single connection keeps
// ":memory:" databases alive and serializes writers.
func OpenSQLite(ctx context.Context, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(DefaultOptions()))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := ping(ctx, sqlDB); err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).AutoMigrate(&models.User{}, &models.Product{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return db, nil
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, sqlDB *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func ping(ctx context.Context, sqlDB *sql.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return ping(ctx, sqlDB)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DBDriver    string
	DatabaseURL string
	DB          DBPool

	JWTSecret      []byte
	AccessTokenTTL time.Duration
	BcryptCost     int

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RevocationPrefix string

	KafkaBrokers []string

	SeedSampleData bool
}

// DBPool is copied into db.Options by the entrypoint.
type DBPool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowQuery       time.Duration
}

// LoadEnvFile loads variables from a .env file. A missing file is not an error:
// the process environment is used as is.
func LoadEnvFile(path string) {
	if err := godotenv.Load(path); err != nil {
		log.Printf("notice: %s not loaded (%v), using system environment variables", path, err)
	}
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "catalog"),
		ServerPort:  EnvInt("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DBDriver:    strings.ToLower(EnvDefault("DB_DRIVER", DriverPostgres)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DB: DBPool{
			MaxOpenConns:    EnvInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    EnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: EnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			SlowQuery:       EnvDuration("DB_SLOW_QUERY", 200*time.Millisecond),
		},

		JWTSecret:      []byte(os.Getenv("JWT_SECRET_KEY")),
		AccessTokenTTL: EnvDuration("JWT_ACCESS_TOKEN_EXPIRES", time.Hour),
		BcryptCost:     EnvInt("BCRYPT_COST", bcrypt.DefaultCost),

		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          EnvInt("REDIS_DB", 0),
		RevocationPrefix: EnvDefault("REVOCATION_PREFIX", "catalog:revoked"),

		KafkaBrokers: List(os.Getenv("KAFKA_BROKERS")),

		SeedSampleData: EnvBool("SEED_SAMPLE_DATA", false),
	}
}

// Validate reports every missing or out-of-range setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if len(c.JWTSecret) == 0 {
		errs = append(errs, errors.New("JWT_SECRET_KEY is required"))
	}
	if c.DBDriver != DriverPostgres && c.DBDriver != DriverSQLite {
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not one of %s, %s", c.DBDriver, DriverPostgres, DriverSQLite))
	}
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT %d is out of range", c.ServerPort))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST %d is outside %d..%d", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("JWT_ACCESS_TOKEN_EXPIRES must be positive"))
	}
	return errors.Join(errs...)
}

// MustLoad loads the configuration and stops the process when it is unusable.
func MustLoad() Config {
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// List splits a comma separated value, dropping blanks and repeats.
func List(v string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, p := range strings.Split(v, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func EnvInt(key string, def int) int {
	v := EnvDefault(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("notice: %s=%q is not an integer, using %d", key, v, def)
		return def
	}
	return n
}

// EnvDuration accepts Go durations ("90s") and plain seconds ("90").
func EnvDuration(key string, def time.Duration) time.Duration {
	v := EnvDefault(key, "")
	if v == "" {
		return def
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("notice: %s=%q is not a duration, using %s", key, v, def)
		return def
	}
	return d
}

func EnvBool(key string, def bool) bool {
	v := EnvDefault(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("notice: %s=%q is not a boolean, using %t", key, v, def)
		return def
	}
	return b
}

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "STELLARMARKET"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv     = "STELLARMARKET_APP_ENV"
	EnvPort       = "STELLARMARKET_APP_PORT"
	EnvDBDSN      = "STELLARMARKET_DB_DSN"
	EnvDBHost     = "STELLARMARKET_DB_HOST"
	EnvDBUser     = "STELLARMARKET_DB_USER"
	EnvDBName     = "STELLARMARKET_DB_NAME"
	EnvRedisURL   = "STELLARMARKET_REDIS_URL"
	EnvJWTSecret  = "STELLARMARKET_JWT_SECRET"
	EnvJWTIssuer  = "STELLARMARKET_JWT_ISSUER"
	EnvJWTExpMins = "STELLARMARKET_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	PromoLimit   PromoRateLimitConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STELLARMARKET_APP_ENV" required:"true"`
	Port         string `envconfig:"STELLARMARKET_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STELLARMARKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STELLARMARKET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STELLARMARKET_DB_DSN"`
	Driver string `envconfig:"STELLARMARKET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STELLARMARKET_DB_HOST"`
	LegacyPort     int    `envconfig:"STELLARMARKET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STELLARMARKET_DB_USER"`
	LegacyPassword string `envconfig:"STELLARMARKET_DB_PASSWORD"`
	LegacyName     string `envconfig:"STELLARMARKET_DB_NAME"`
	LegacySSLMode  string `envconfig:"STELLARMARKET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STELLARMARKET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STELLARMARKET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STELLARMARKET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STELLARMARKET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STELLARMARKET_REDIS_URL"`
	Address      string        `envconfig:"STELLARMARKET_REDIS_ADDR"`
	Password     string        `envconfig:"STELLARMARKET_REDIS_PASSWORD"`
	DB           int           `envconfig:"STELLARMARKET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STELLARMARKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STELLARMARKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STELLARMARKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STELLARMARKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STELLARMARKET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"STELLARMARKET_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"STELLARMARKET_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"STELLARMARKET_JWT_EXPIRATION_MINUTES" required:"true"`
}

// PromoRateLimitConfig throttles promo-code guesses per user.
type PromoRateLimitConfig struct {
	Window time.Duration `envconfig:"STELLARMARKET_PROMO_RATE_LIMIT_WINDOW" default:"1m"`
	Limit  int           `envconfig:"STELLARMARKET_PROMO_RATE_LIMIT_ATTEMPTS" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STELLARMARKET_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"STELLARMARKET_GCP_PROJECT_ID"`
}

// PubSubConfig names the topic order lifecycle events are published to.
// Publishing is disabled when the topic is empty.
type PubSubConfig struct {
	OrderEventsTopic string `envconfig:"STELLARMARKET_PUBSUB_ORDER_EVENTS_TOPIC"`
}

func (p PubSubConfig) Enabled() bool {
	return strings.TrimSpace(p.OrderEventsTopic) != ""
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Shipping     ShippingConfig
	Seed         SeedConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"PRINTHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"PRINTHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PRINTHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PRINTHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PRINTHUB_DB_DSN"`
	Driver string `envconfig:"PRINTHUB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PRINTHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"PRINTHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PRINTHUB_DB_USER"`
	LegacyPassword string `envconfig:"PRINTHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"PRINTHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"PRINTHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PRINTHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PRINTHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PRINTHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PRINTHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PRINTHUB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PRINTHUB_REDIS_ADDR"`
	Password     string        `envconfig:"PRINTHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"PRINTHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PRINTHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRINTHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRINTHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRINTHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PRINTHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret             string `envconfig:"PRINTHUB_JWT_SECRET" required:"true"`
	Issuer             string `envconfig:"PRINTHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes  int    `envconfig:"PRINTHUB_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes  int    `envconfig:"PRINTHUB_SESSION_TTL_MINUTES" default:"720"`
	RememberTTLMinutes int    `envconfig:"PRINTHUB_SESSION_REMEMBER_TTL_MINUTES" default:"43200"`
}

// SessionTTL is the refresh session lifetime for a regular login.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

// RememberTTL is the extended session lifetime used when the customer asked to
// stay signed in.
func (j JWTConfig) RememberTTL() time.Duration {
	if j.RememberTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RememberTTLMinutes) * time.Minute
}

type ShippingConfig struct {
	CourierFee            int64 `envconfig:"PRINTHUB_SHIPPING_COURIER_FEE" default:"300"`
	FreeShippingThreshold int64 `envconfig:"PRINTHUB_SHIPPING_FREE_THRESHOLD" default:"5000"`
}

type SeedConfig struct {
	Enabled bool `envconfig:"PRINTHUB_SEED_DEMO_USERS" default:"true"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PRINTHUB_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PRINTHUB_AUTO_MIGRATE" default:"false"`
}

const (
	EnvPrefix = "PRINTHUB"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv     = "PRINTHUB_APP_ENV"
	EnvPort       = "PRINTHUB_APP_PORT"
	EnvDBDSN      = "PRINTHUB_DB_DSN"
	EnvDBHost     = "PRINTHUB_DB_HOST"
	EnvDBUser     = "PRINTHUB_DB_USER"
	EnvDBName     = "PRINTHUB_DB_NAME"
	EnvRedisURL   = "PRINTHUB_REDIS_URL"
	EnvJWTSecret  = "PRINTHUB_JWT_SECRET"
	EnvJWTIssuer  = "PRINTHUB_JWT_ISSUER"
	EnvJWTExpMins = "PRINTHUB_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

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

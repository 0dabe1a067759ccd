package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is passed to envconfig; individual fields carry full names so the
// prefix stays empty and the variables remain grep-able.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Zibal        ZibalConfig
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
	Env          string `envconfig:"VLONE_APP_ENV" required:"true"`
	Port         string `envconfig:"VLONE_APP_PORT" default:"8080"`
	BaseURL      string `envconfig:"VLONE_APP_BASE_URL" required:"true"`
	LogLevel     string `envconfig:"VLONE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VLONE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"VLONE_DB_DSN"`

	Host     string `envconfig:"VLONE_DB_HOST"`
	Port     int    `envconfig:"VLONE_DB_PORT" default:"5432"`
	User     string `envconfig:"VLONE_DB_USER"`
	Password string `envconfig:"VLONE_DB_PASSWORD"`
	Name     string `envconfig:"VLONE_DB_NAME"`
	SSLMode  string `envconfig:"VLONE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VLONE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VLONE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VLONE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VLONE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VLONE_REDIS_URL"`
	Address      string        `envconfig:"VLONE_REDIS_ADDR"`
	Password     string        `envconfig:"VLONE_REDIS_PASSWORD"`
	DB           int           `envconfig:"VLONE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VLONE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VLONE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VLONE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VLONE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VLONE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig describes how identity-provider access tokens are verified.
// Tokens are issued by the external auth service; this API only parses them.
type JWTConfig struct {
	Secret string `envconfig:"VLONE_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"VLONE_JWT_ISSUER" default:"vlonefarsi-auth"`
}

type ZibalConfig struct {
	Merchant       string        `envconfig:"VLONE_ZIBAL_MERCHANT" default:"zibal"`
	BaseURL        string        `envconfig:"VLONE_ZIBAL_BASE_URL" default:"https://gateway.zibal.ir"`
	RequestTimeout time.Duration `envconfig:"VLONE_ZIBAL_REQUEST_TIMEOUT" default:"10s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VLONE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for name, value := range map[string]string{
		"VLONE_DB_HOST": db.Host,
		"VLONE_DB_USER": db.User,
		"VLONE_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either VLONE_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

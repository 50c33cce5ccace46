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
	HTTP         HTTPConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CARTSVC_APP_ENV" required:"true"`
	Port         string `envconfig:"CARTSVC_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CARTSVC_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARTSVC_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `envconfig:"CARTSVC_HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"CARTSVC_HTTP_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"CARTSVC_HTTP_SHUTDOWN_TIMEOUT" default:"20s"`
	CORSOrigins     []string      `envconfig:"CARTSVC_CORS_ORIGINS" default:"http://localhost:5173"`

	RateLimitWindow  time.Duration `envconfig:"CARTSVC_RATE_LIMIT_WINDOW" default:"1m"`
	RateLimitPerIP   int           `envconfig:"CARTSVC_RATE_LIMIT_PER_IP" default:"120"`
	RateLimitPerCart int           `envconfig:"CARTSVC_RATE_LIMIT_PER_CART" default:"60"`
}

type DBConfig struct {
	DSN    string `envconfig:"CARTSVC_DB_DSN"`
	Driver string `envconfig:"CARTSVC_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"CARTSVC_DB_HOST"`
	Port     int    `envconfig:"CARTSVC_DB_PORT" default:"5432"`
	User     string `envconfig:"CARTSVC_DB_USER"`
	Password string `envconfig:"CARTSVC_DB_PASSWORD"`
	Name     string `envconfig:"CARTSVC_DB_NAME"`
	SSLMode  string `envconfig:"CARTSVC_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CARTSVC_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CARTSVC_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CARTSVC_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CARTSVC_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is SQLite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"CARTSVC_REDIS_URL"`
	Address      string        `envconfig:"CARTSVC_REDIS_ADDR"`
	Password     string        `envconfig:"CARTSVC_REDIS_PASSWORD"`
	DB           int           `envconfig:"CARTSVC_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CARTSVC_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CARTSVC_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CARTSVC_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CARTSVC_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CARTSVC_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CARTSVC_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CARTSVC_AUTO_MIGRATE" default:"false"`
	Idempotency bool `envconfig:"CARTSVC_FEATURE_IDEMPOTENCY" default:"true"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required when using sqlite", EnvDBDSN)
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbPartEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
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

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Garage        GarageConfig
	Cron          CronConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AEROPARK_APP_ENV" required:"true"`
	Port         string `envconfig:"AEROPARK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AEROPARK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AEROPARK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"AEROPARK_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"AEROPARK_DB_DSN"`
	Driver string `envconfig:"AEROPARK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AEROPARK_DB_HOST"`
	LegacyPort     int    `envconfig:"AEROPARK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AEROPARK_DB_USER"`
	LegacyPassword string `envconfig:"AEROPARK_DB_PASSWORD"`
	LegacyName     string `envconfig:"AEROPARK_DB_NAME"`
	LegacySSLMode  string `envconfig:"AEROPARK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AEROPARK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AEROPARK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AEROPARK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AEROPARK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AEROPARK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AEROPARK_REDIS_ADDR"`
	Password     string        `envconfig:"AEROPARK_REDIS_PASSWORD"`
	DB           int           `envconfig:"AEROPARK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AEROPARK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AEROPARK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AEROPARK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AEROPARK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AEROPARK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"AEROPARK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"AEROPARK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"AEROPARK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"AEROPARK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AEROPARK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AEROPARK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AEROPARK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AEROPARK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AEROPARK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"AEROPARK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"AEROPARK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"AEROPARK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"AEROPARK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"AEROPARK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"AEROPARK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type GarageConfig struct {
	Timezone          string `envconfig:"AEROPARK_GARAGE_TIMEZONE" default:"UTC"`
	PendingTTLMinutes int    `envconfig:"AEROPARK_BOOKING_PENDING_TTL_MINUTES" default:"30"`
}

// PendingTTL returns how long a booking may sit unconfirmed before the
// cron worker cancels it.
func (g GarageConfig) PendingTTL() time.Duration {
	if g.PendingTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(g.PendingTTLMinutes) * time.Minute
}

type CronConfig struct {
	Interval     time.Duration `envconfig:"AEROPARK_CRON_INTERVAL" default:"1m"`
	LockTTL      time.Duration `envconfig:"AEROPARK_CRON_LOCK_TTL" default:"5m"`
	MetricsPort  string        `envconfig:"AEROPARK_CRON_METRICS_PORT" default:"9091"`
	TTLBatchSize int           `envconfig:"AEROPARK_CRON_TTL_BATCH_SIZE" default:"100"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"AEROPARK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"AEROPARK_AUTO_MIGRATE" default:"false"`
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

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
	Password     PasswordConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
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
	Env          string `envconfig:"QRSEC_APP_ENV" required:"true"`
	Port         string `envconfig:"QRSEC_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"QRSEC_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"QRSEC_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"QRSEC_DB_DSN"`
	Driver string `envconfig:"QRSEC_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"QRSEC_DB_HOST"`
	LegacyPort     int    `envconfig:"QRSEC_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"QRSEC_DB_USER"`
	LegacyPassword string `envconfig:"QRSEC_DB_PASSWORD"`
	LegacyName     string `envconfig:"QRSEC_DB_NAME"`
	LegacySSLMode  string `envconfig:"QRSEC_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"QRSEC_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"QRSEC_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"QRSEC_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"QRSEC_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"QRSEC_REDIS_URL"`
	Address      string        `envconfig:"QRSEC_REDIS_ADDR"`
	Password     string        `envconfig:"QRSEC_REDIS_PASSWORD"`
	DB           int           `envconfig:"QRSEC_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"QRSEC_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"QRSEC_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"QRSEC_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"QRSEC_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"QRSEC_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"QRSEC_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"QRSEC_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"QRSEC_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"QRSEC_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"QRSEC_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"QRSEC_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"QRSEC_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"QRSEC_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"QRSEC_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"QRSEC_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"QRSEC_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	ScanWindow      time.Duration `envconfig:"QRSEC_RATE_LIMIT_SCAN_WINDOW" default:"1m"`
	ScanIPLimit     int           `envconfig:"QRSEC_RATE_LIMIT_SCAN_IP_LIMIT" default:"60"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"QRSEC_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"QRSEC_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"QRSEC_CORS_ALLOWED_ORIGINS" default:"*"`
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

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
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
	GeoIP         GeoIPConfig
	Sweep         SweepConfig
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
	Env          string `envconfig:"SOUK_APP_ENV" required:"true"`
	Port         string `envconfig:"SOUK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SOUK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SOUK_LOG_WARN_STACK" default:"false"`

	// Extra CORS origins beyond the built-in defaults, comma separated.
	CORSOrigins []string `envconfig:"SOUK_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SOUK_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SOUK_DB_DSN"`
	Driver string `envconfig:"SOUK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SOUK_DB_HOST"`
	LegacyPort     int    `envconfig:"SOUK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SOUK_DB_USER"`
	LegacyPassword string `envconfig:"SOUK_DB_PASSWORD"`
	LegacyName     string `envconfig:"SOUK_DB_NAME"`
	LegacySSLMode  string `envconfig:"SOUK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SOUK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SOUK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SOUK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SOUK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SOUK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SOUK_REDIS_ADDR"`
	Password     string        `envconfig:"SOUK_REDIS_PASSWORD"`
	DB           int           `envconfig:"SOUK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SOUK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SOUK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SOUK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SOUK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SOUK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SOUK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SOUK_JWT_ISSUER" default:"souk"`
	ExpirationMinutes int    `envconfig:"SOUK_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// Expiration returns the access token lifetime. Values outside the
// 24h to 30d window are clamped so a misconfigured deployment cannot
// mint near-immortal or instantly-dead tokens.
func (j JWTConfig) Expiration() time.Duration {
	d := time.Duration(j.ExpirationMinutes) * time.Minute
	const (
		min = 24 * time.Hour
		max = 30 * 24 * time.Hour
	)
	if d < min {
		return min
	}
	if d > max {
		return max
	}
	return d
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SOUK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SOUK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SOUK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SOUK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SOUK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SOUK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SOUK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SOUK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SOUK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SOUK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SOUK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SOUK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SOUK_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"SOUK_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"SOUK_GCP_CREDENTIALS_JSON"`
}

type GCSConfig struct {
	BucketName string `envconfig:"SOUK_GCS_BUCKET_NAME"`
	PublicHost string `envconfig:"SOUK_GCS_PUBLIC_HOST" default:"https://storage.googleapis.com"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"SOUK_MAX_UPLOAD_MB" default:"10"`
}

type GeoIPConfig struct {
	Timeout time.Duration `envconfig:"SOUK_GEOIP_TIMEOUT" default:"5s"`
}

type SweepConfig struct {
	Interval time.Duration `envconfig:"SOUK_SWEEP_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"SOUK_SWEEP_LOCK_TTL" default:"10m"`
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

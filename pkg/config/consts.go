package config

// Environment variable names used by Load. Kept as constants so tests and
// operational tooling never drift from the envconfig tags.
const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv       = "SOUK_APP_ENV"
	EnvPort         = "SOUK_APP_PORT"
	EnvLogLevel     = "SOUK_LOG_LEVEL"
	EnvLogWarnStack = "SOUK_LOG_WARN_STACK"
	EnvCORSOrigins  = "SOUK_CORS_ORIGINS"

	EnvDBDSN     = "SOUK_DB_DSN"
	EnvDBDriver  = "SOUK_DB_DRIVER"
	EnvDBHost    = "SOUK_DB_HOST"
	EnvDBPort    = "SOUK_DB_PORT"
	EnvDBUser    = "SOUK_DB_USER"
	EnvDBPass    = "SOUK_DB_PASSWORD"
	EnvDBName    = "SOUK_DB_NAME"
	EnvDBSSLMode = "SOUK_DB_SSLMODE"

	EnvRedisURL = "SOUK_REDIS_URL"

	EnvJWTSecret  = "SOUK_JWT_SECRET"
	EnvJWTIssuer  = "SOUK_JWT_ISSUER"
	EnvJWTExpMins = "SOUK_JWT_EXPIRATION_MINUTES"

	EnvGCSBucket       = "SOUK_GCS_BUCKET_NAME"
	EnvGCSPublicHost   = "SOUK_GCS_PUBLIC_HOST"
	EnvGCPProjectID    = "SOUK_GCP_PROJECT_ID"
	EnvGCPCredentials  = "SOUK_GCP_CREDENTIALS_JSON"
	EnvSweepInterval   = "SOUK_SWEEP_INTERVAL"
	EnvSweepLockTTL    = "SOUK_SWEEP_LOCK_TTL"
	EnvGeoIPTimeout    = "SOUK_GEOIP_TIMEOUT"
	EnvUseSQLite       = "SOUK_USE_SQLITE"
	EnvAutoMigrate     = "SOUK_AUTO_MIGRATE"
	EnvMaxUploadMB     = "SOUK_MAX_UPLOAD_MB"
	EnvArgonMemoryKB   = "SOUK_ARGON_MEMORY_KB"
	EnvArgonTime       = "SOUK_ARGON_TIME"
	EnvArgonParallel   = "SOUK_ARGON_PARALLELISM"
	EnvLoginWindow     = "SOUK_AUTH_RATE_LIMIT_LOGIN_WINDOW"
	EnvLoginEmailLimit = "SOUK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT"
)

// legacyDBEnvVars are the discrete connection variables accepted when
// SOUK_DB_DSN is unset.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

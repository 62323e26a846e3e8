package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names.
const EnvPrefix = "KANAK"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "KANAK_APP_ENV"
	EnvPort       = "KANAK_APP_PORT"
	EnvDBDSN      = "KANAK_DB_DSN"
	EnvDBHost     = "KANAK_DB_HOST"
	EnvDBUser     = "KANAK_DB_USER"
	EnvDBName     = "KANAK_DB_NAME"
	EnvRedisURL   = "KANAK_REDIS_URL"
	EnvJWTSecret  = "KANAK_JWT_SECRET"
	EnvJWTIssuer  = "KANAK_JWT_ISSUER"
	EnvJWTExpMins = "KANAK_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

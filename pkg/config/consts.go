package config

// EnvPrefix is empty because every envconfig tag carries the full QRSEC_ name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "QRSEC_APP_ENV"
	EnvPort       = "QRSEC_APP_PORT"
	EnvDBDSN      = "QRSEC_DB_DSN"
	EnvDBHost     = "QRSEC_DB_HOST"
	EnvDBUser     = "QRSEC_DB_USER"
	EnvDBName     = "QRSEC_DB_NAME"
	EnvRedisURL   = "QRSEC_REDIS_URL"
	EnvJWTSecret  = "QRSEC_JWT_SECRET"
	EnvJWTIssuer  = "QRSEC_JWT_ISSUER"
	EnvJWTExpMins = "QRSEC_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

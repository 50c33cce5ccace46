package config

// EnvPrefix is handed to envconfig; every field carries an explicit name so it is informational only.
const EnvPrefix = "CARTSVC"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv    = "CARTSVC_APP_ENV"
	EnvPort      = "CARTSVC_APP_PORT"
	EnvLogLevel  = "CARTSVC_LOG_LEVEL"
	EnvDBDSN     = "CARTSVC_DB_DSN"
	EnvDBDriver  = "CARTSVC_DB_DRIVER"
	EnvDBHost    = "CARTSVC_DB_HOST"
	EnvDBUser    = "CARTSVC_DB_USER"
	EnvDBName    = "CARTSVC_DB_NAME"
	EnvRedisURL  = "CARTSVC_REDIS_URL"
	EnvUseSQLite = "CARTSVC_USE_SQLITE"
)

var dbPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

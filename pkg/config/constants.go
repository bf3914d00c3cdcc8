package config

const (
	EnvPrefix = "AEROPARK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv                 = "AEROPARK_APP_ENV"
	EnvPort                   = "AEROPARK_APP_PORT"
	EnvDBDSN                  = "AEROPARK_DB_DSN"
	EnvDBHost                 = "AEROPARK_DB_HOST"
	EnvDBUser                 = "AEROPARK_DB_USER"
	EnvDBName                 = "AEROPARK_DB_NAME"
	EnvRedisURL               = "AEROPARK_REDIS_URL"
	EnvJWTSecret              = "AEROPARK_JWT_SECRET"
	EnvJWTIssuer              = "AEROPARK_JWT_ISSUER"
	EnvJWTExpMins             = "AEROPARK_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "AEROPARK_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

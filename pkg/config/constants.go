package config

const (
	EnvPrefix = "clientdesk"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "CLIENTDESK_DB_DSN"
	EnvDBHost = "CLIENTDESK_DB_HOST"
	EnvDBUser = "CLIENTDESK_DB_USER"
	EnvDBName = "CLIENTDESK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

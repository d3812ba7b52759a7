package config

// EnvPrefix is the envconfig prefix shared by every variable.
const EnvPrefix = "KATZE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "KATZE_DB_DSN"
	EnvDBHost = "KATZE_DB_HOST"
	EnvDBUser = "KATZE_DB_USER"
	EnvDBName = "KATZE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

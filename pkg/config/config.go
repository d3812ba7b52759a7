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
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
	Cron          CronConfig
	Notifications NotificationsConfig
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
	Env          string `envconfig:"KATZE_APP_ENV" required:"true"`
	Port         string `envconfig:"KATZE_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"KATZE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KATZE_LOG_WARN_STACK" default:"false"`
	FrontendURL  string `envconfig:"KATZE_FRONTEND_URL"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KATZE_DB_DSN"`
	Driver string `envconfig:"KATZE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KATZE_DB_HOST"`
	LegacyPort     int    `envconfig:"KATZE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KATZE_DB_USER"`
	LegacyPassword string `envconfig:"KATZE_DB_PASSWORD"`
	LegacyName     string `envconfig:"KATZE_DB_NAME"`
	LegacySSLMode  string `envconfig:"KATZE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KATZE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KATZE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KATZE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KATZE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KATZE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KATZE_REDIS_ADDR"`
	Password     string        `envconfig:"KATZE_REDIS_PASSWORD"`
	DB           int           `envconfig:"KATZE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KATZE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KATZE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KATZE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KATZE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KATZE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"KATZE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KATZE_JWT_ISSUER" default:"katze"`
	ExpirationMinutes int    `envconfig:"KATZE_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"KATZE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"KATZE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"KATZE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"KATZE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"KATZE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"KATZE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"KATZE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"KATZE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"KATZE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"KATZE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"KATZE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KATZE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	CredentialsJSON        string `envconfig:"KATZE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"KATZE_GCS_BUCKET_NAME"`
	UploadURLExpiry   time.Duration `envconfig:"KATZE_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry time.Duration `envconfig:"KATZE_GCS_DOWNLOAD_URL_EXPIRY" default:"1h"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"KATZE_MAX_UPLOAD_MB" default:"10"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"KATZE_CRON_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"KATZE_CRON_LOCK_TTL" default:"25h"`
}

type NotificationsConfig struct {
	RetentionDays    int    `envconfig:"KATZE_NOTIFICATION_RETENTION_DAYS" default:"30"`
	BroadcastChannel string `envconfig:"KATZE_NOTIFICATION_BROADCAST_CHANNEL" default:"katze:notificaciones"`
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

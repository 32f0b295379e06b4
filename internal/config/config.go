package config

import (
	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/benitema/card-orders-api/pkg/logger"
)

const ConfigTagName = "env"
const ConfigDefaultTagName = "default"

var config *Config

// Config holds every env-sourced value the service uses. Only this
// struct must be used to hold configuration; no direct env reads from
// other packages.
type Config struct {
	AppEnv     string `env:"APP_ENV" default:"dev"`
	AppName    string `env:"APP_NAME" default:"card_orders_api"`
	AppDebug   bool   `env:"APP_DEBUG" default:"1"`
	AppBaseUrl string `env:"APP_BASE_URL"`

	HttpListenAddr            string `env:"HTTP_LISTEN_ADDR" validation:"mustExists"`
	HttpServerReadTimeout     int    `env:"HTTP_SERVER_READ_TIMEOUT"`
	HttpServerWriteTimeout    int    `env:"HTTP_SERVER_WRITE_TIMEOUT"`
	HttpServerReadBufferSize  int    `env:"HTTP_SERVER_READ_BUFFER_SIZE"`
	HttpServerWriteBufferSize int    `env:"HTTP_SERVER_WRITE_BUFFER_SIZE"`

	// DatastoreDriver selects the document-store backend: redis | postgres
	DatastoreDriver string `env:"DATASTORE_DRIVER" default:"redis"`

	PostgresHost     string `env:"POSTGRES_HOST"`
	PostgresPort     string `env:"POSTGRES_PORT"`
	PostgresUser     string `env:"POSTGRES_USER"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDatabase string `env:"POSTGRES_DBNAME"`

	MigrationsDir string `env:"MIGRATIONS_DIR" default:"migrations"`

	RedisAddr      string `env:"REDIS_ADDR"`
	RedisUsername  string `env:"REDIS_USER"`
	RedisPassword  string `env:"REDIS_PASS"`
	RedisDatabase  int    `env:"REDIS_DATABASE"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX"`

	PromNamespace string `env:"PROM_NAMESPACE"`

	// AuthDomain is the identity provider host serving
	// /.well-known/jwks.json; issuer and audience are pinned to it.
	AuthDomain   string `env:"AUTH_DOMAIN"`
	AuthAudience string `env:"AUTH_AUDIENCE"`

	LogLevel []string `env:"LOG_LEVEL"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	var err error
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		err = godotenv.Load(path)
		if err != nil {
			return errors.New("failed to load configuration file " + path + " error: " + err.Error())
		}
	}

	_, err = env.UnmarshalFromEnviron(c)

	if err != nil {
		return errors.New("failed to map env variables to Configuration object " + " error: " + err.Error())
	}

	config = c
	return nil
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}

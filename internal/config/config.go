package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full process configuration.
type Config struct {
	Port        string
	ServiceName string
	LogLevel    string
	LogFormat   string
	SwaggerHost string

	Database DBConfig
	Redis    RedisConfig

	IdempotencyTTL time.Duration
	RequestTimeout time.Duration
}

// WriteTimeout keeps the server's write deadline past the request timeout so
// a timed out request still gets its 504 written.
func (c *Config) WriteTimeout() time.Duration {
	return c.RequestTimeout + 5*time.Second
}

// DBConfig holds database configuration
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port for the redis client.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

var envBindings = map[string]string{
	"port":                       "PORT",
	"service_name":               "SERVICE_NAME",
	"log.level":                  "LOG_LEVEL",
	"log.format":                 "LOG_FORMAT",
	"swagger.host":               "SWAGGER_HOST",
	"database.host":              "DATABASE_HOST",
	"database.port":              "DATABASE_PORT",
	"database.user":              "DATABASE_USER",
	"database.password":          "DATABASE_PASSWORD",
	"database.name":              "DATABASE_NAME",
	"database.ssl_mode":          "DATABASE_SSL_MODE",
	"database.max_open_conns":    "DATABASE_MAX_OPEN_CONNS",
	"database.max_idle_conns":    "DATABASE_MAX_IDLE_CONNS",
	"database.conn_max_lifetime": "DATABASE_CONN_MAX_LIFETIME",
	"redis.host":                 "REDIS_HOST",
	"redis.port":                 "REDIS_PORT",
	"redis.password":             "REDIS_PASSWORD",
	"redis.db":                   "REDIS_DB",
	"idempotency.ttl":            "IDEMPOTENCY_TTL",
	"request_timeout":            "REQUEST_TIMEOUT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "3000")
	v.SetDefault("service_name", "fuelcard-ledger")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("swagger.host", "localhost:3000")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.name", "fuel_cards")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("idempotency.ttl", 24*time.Hour)
	v.SetDefault("request_timeout", 10*time.Second)
}

// Load reads configuration from the environment, with an optional .env file
// underneath. Environment variables always win.
func Load() *Config {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path.
func LoadFile(path string) *Config {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using environment and defaults: %v", err)
	}
	return FromViper(v)
}

// FromViper builds a Config from an already prepared viper instance.
// Precedence is environment, then dotenv file, then defaults.
func FromViper(v *viper.Viper) *Config {
	setDefaults(v)
	for key, env := range envBindings {
		// The dotenv reader keys entries by their lowercased variable name,
		// so DATABASE_HOST lands under database_host rather than database.host.
		if fileKey := strings.ToLower(env); fileKey != key && v.InConfig(fileKey) {
			v.SetDefault(key, v.Get(fileKey))
		}
		_ = v.BindEnv(key, env)
	}

	return &Config{
		Port:        v.GetString("port"),
		ServiceName: v.GetString("service_name"),
		LogLevel:    v.GetString("log.level"),
		LogFormat:   v.GetString("log.format"),
		SwaggerHost: v.GetString("swagger.host"),
		Database: DBConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetString("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			Name:            v.GetString("database.name"),
			SSLMode:         v.GetString("database.ssl_mode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetString("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		IdempotencyTTL: v.GetDuration("idempotency.ttl"),
		RequestTimeout: v.GetDuration("request_timeout"),
	}
}

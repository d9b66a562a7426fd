package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "ATHENA"

type Config struct {
	Env      string         // Env is the current environment: local, development, production.
	API      APIConfig      // API holds the employee API connection settings.
	Server   ServerConfig   // Server holds the dashboard and monitoring listeners.
	Postgres PostgresConfig // Postgres holds the audit log database, an empty host disables it.
}

// APIConfig struct holds the configuration details for connecting to the employee API.
type APIConfig struct {
	BaseURL   string        `validate:"required,url"` // BaseURL is the API root in format `http://localhost:8000`.
	Token     string        // Token is the bearer token sent with every request.
	TokenFile string        // TokenFile is read when Token is empty.
	Timeout   time.Duration `validate:"gt=0"`         // Timeout bounds every API request.
}

// ServerConfig struct holds the configuration of the HTTP listeners.
type ServerConfig struct {
	Address           string        `validate:"required"` // Address is the dashboard listen address.
	MonitoringAddress string        `validate:"required"` // MonitoringAddress serves /metrics and /healthz.
	CSRFKey           string        `validate:"len=32"`   // CSRFKey authenticates CSRF tokens, 32 bytes.
	SecureCookies     bool          // SecureCookies marks session and CSRF cookies as HTTPS only.
	SessionTTL        time.Duration `validate:"gt=0"`     // SessionTTL is how long an idle dashboard session is kept.
	MaxSessions       int           `validate:"gt=0"`     // MaxSessions caps live dashboard sessions.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Dbname   string // Dbname is the name of the database.
}

// Enabled reports whether an audit database is configured.
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

// MustLoad loads the configuration and panics on any error.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic("config error: " + err.Error())
	}

	return cfg
}

// Load reads the optional YAML file at configPath, applies ATHENA_* environment
// overrides and defaults, and validates the result.
func Load(configPath string) (*Config, error) {
	vpr := viper.New()
	setDefaults(vpr)

	vpr.SetEnvPrefix(envPrefix)
	vpr.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vpr.AutomaticEnv()

	if configPath != "" {
		// check if file exists
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configPath)
		}

		vpr.SetConfigFile(configPath)
		vpr.SetConfigType("yaml")
		if err := vpr.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Env: vpr.GetString("env"),
		API: APIConfig{
			BaseURL:   strings.TrimRight(vpr.GetString("api.base_url"), "/"),
			Token:     vpr.GetString("api.token"),
			TokenFile: vpr.GetString("api.token_file"),
			Timeout:   vpr.GetDuration("api.timeout"),
		},
		Server: ServerConfig{
			Address:           vpr.GetString("server.address"),
			MonitoringAddress: vpr.GetString("server.monitoring_address"),
			CSRFKey:           vpr.GetString("server.csrf_key"),
			SecureCookies:     vpr.GetBool("server.secure_cookies"),
			SessionTTL:        vpr.GetDuration("server.session_ttl"),
			MaxSessions:       vpr.GetInt("server.max_sessions"),
		},
		Postgres: PostgresConfig{
			Host:     vpr.GetString("postgres.host"),
			Port:     vpr.GetString("postgres.port"),
			User:     vpr.GetString("postgres.user"),
			Password: vpr.GetString("postgres.password"),
			Dbname:   vpr.GetString("postgres.db_name"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(vpr *viper.Viper) {
	defTimeout := 10
	defSessionTTL := 30
	defMaxSessions := 1000

	vpr.SetDefault("env", "local")
	vpr.SetDefault("api.base_url", "http://localhost:8000")
	vpr.SetDefault("api.token", "")
	vpr.SetDefault("api.token_file", "")
	vpr.SetDefault("api.timeout", time.Duration(defTimeout)*time.Second)
	vpr.SetDefault("server.address", ":3000")
	vpr.SetDefault("server.monitoring_address", ":8080")
	vpr.SetDefault("server.csrf_key", "")
	vpr.SetDefault("server.secure_cookies", false)
	vpr.SetDefault("server.session_ttl", time.Duration(defSessionTTL)*time.Minute)
	vpr.SetDefault("server.max_sessions", defMaxSessions)
	vpr.SetDefault("postgres.host", "")
	vpr.SetDefault("postgres.port", "5432")
	vpr.SetDefault("postgres.user", "")
	vpr.SetDefault("postgres.password", "")
	vpr.SetDefault("postgres.db_name", "")
}

var ErrInvalidConfig = errors.New("invalid configuration")

func validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if cfg.API.Token == "" && cfg.API.TokenFile == "" {
		return fmt.Errorf("%w: one of api.token or api.token_file is required", ErrInvalidConfig)
	}

	return nil
}

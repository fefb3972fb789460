package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	defaultPort            = "8000"
	defaultAllowedOrigin   = "http://localhost:3000"
	defaultUpdatePolicy    = "overwrite"
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultRequestTimeout  = 10 * time.Second
	defaultShutdownTimeout = 15 * time.Second
)

// Config agrupa la configuración necesaria para correr la aplicación.
type Config struct {
	Port            string        `yaml:"port" env:"PORT" env-default:"8000"`
	DatabaseURL     string        `yaml:"database_url" env:"DATABASE_URL"`
	Database        Database      `yaml:"database"`
	AllowedOrigin   string        `yaml:"allowed_origin" env:"CORS_ALLOWED_ORIGIN" env-default:"http://localhost:3000"`
	UpdatePolicy    string        `yaml:"update_policy" env:"ITEMS_UPDATE_POLICY" env-default:"overwrite"`
	LogLevel        string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat       string        `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"15s"`
}

// Database describe la conexión por partes, alternativa a DATABASE_URL.
type Database struct {
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env:"DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
}

// URL arma un connection string de Postgres a partir de las partes.
// Las credenciales se escapan para soportar caracteres especiales.
func (database Database) URL() string {
	port := strings.TrimSpace(database.Port)
	if port == "" {
		port = "5432"
	}

	connection := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(strings.TrimSpace(database.Host), port),
		Path:   "/" + strings.TrimSpace(database.Name),
	}
	if database.User != "" {
		connection.User = url.UserPassword(database.User, database.Password)
	}
	if sslMode := strings.TrimSpace(database.SSLMode); sslMode != "" {
		connection.RawQuery = url.Values{"sslmode": []string{sslMode}}.Encode()
	}
	return connection.String()
}

// Load lee variables de entorno (y opcionalmente un YAML en CONFIG_PATH)
// y valida lo mínimo indispensable.
func Load() (Config, error) {
	var cfg Config

	var err error
	if path := strings.TrimSpace(os.Getenv("CONFIG_PATH")); path != "" {
		// ReadConfig también aplica overrides de entorno sobre el archivo.
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	// Una variable definida pero vacía pisa el default de cleanenv; normalizamos.
	cfg.Port = strings.TrimPrefix(fallback(cfg.Port, defaultPort), ":")
	cfg.AllowedOrigin = fallback(cfg.AllowedOrigin, defaultAllowedOrigin)
	cfg.UpdatePolicy = strings.ToLower(fallback(cfg.UpdatePolicy, defaultUpdatePolicy))
	cfg.LogLevel = strings.ToLower(fallback(cfg.LogLevel, defaultLogLevel))
	cfg.LogFormat = strings.ToLower(fallback(cfg.LogFormat, defaultLogFormat))
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	if cfg.DatabaseURL == "" {
		if strings.TrimSpace(cfg.Database.Host) == "" || strings.TrimSpace(cfg.Database.Name) == "" {
			return Config{}, fmt.Errorf("missing required env var: DATABASE_URL (or DB_HOST and DB_NAME)")
		}
		cfg.DatabaseURL = cfg.Database.URL()
	}

	switch cfg.UpdatePolicy {
	case "overwrite", "merge":
	default:
		return Config{}, fmt.Errorf("invalid ITEMS_UPDATE_POLICY %q: expected overwrite or merge", cfg.UpdatePolicy)
	}

	return cfg, nil
}

func fallback(value, defaultValue string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultValue
	}
	return value
}

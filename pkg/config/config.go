package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for connecta-server.
// Configuration can come from a YAML file (config.yaml) or environment
// variables. Environment variables always override YAML values. Secrets
// (passwords, session key) must only come from environment variables.
type Config struct {
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// SessionSecret signs session cookies and socket tickets.
	// Server refuses to start without it.
	SessionSecret string `yaml:"-" env:"SESSION_SECRET"`

	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Mail     MailConfig     `yaml:"mail"`
	Uploads  UploadsConfig  `yaml:"uploads"`

	// MigrationsPath is the directory containing SQL migrations.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"connecta"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"connecta"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
}

// RedisConfig holds Redis configuration for the outbound mail queue.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// MailConfig holds SMTP relay configuration. If Server is empty, mail
// delivery is disabled and enqueued messages are dropped with a log line.
type MailConfig struct {
	Server        string `yaml:"server" env:"MAIL_SERVER" env-default:""`
	Port          int    `yaml:"port" env:"MAIL_PORT" env-default:"587"`
	Username      string `yaml:"username" env:"MAIL_USERNAME" env-default:""`
	Password      string `yaml:"-" env:"MAIL_PASSWORD"` // Secret - not in YAML
	UseTLS        bool   `yaml:"use_tls" env:"MAIL_USE_TLS" env-default:"true"`
	DefaultSender string `yaml:"default_sender" env:"MAIL_DEFAULT_SENDER" env-default:"Connecta B2B <no-reply@connecta.example>"`
}

// UploadsConfig holds directories where uploaded files are recorded.
// Actual file storage is handled outside this service; only filenames
// are persisted alongside products, quotes and chat messages.
type UploadsConfig struct {
	ProductDir        string `yaml:"product_dir" env:"UPLOAD_FOLDER" env-default:"static/uploads"`
	AttachmentDir     string `yaml:"attachment_dir" env:"ATTACHMENT_FOLDER" env-default:"static/attachments"`
	ChatAttachmentDir string `yaml:"chat_attachment_dir" env:"CHAT_ATTACHMENT_FOLDER" env-default:"static/chat_attachments"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		// A missing config.yaml is fine; environment variables are enough.
		if err2 := cleanenv.ReadEnv(cfg); err2 != nil {
			return nil, fmt.Errorf("failed to read configuration: %w", err2)
		}
	}

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET must be set")
	}

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Addr returns the host:port address of the Redis server.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Enabled reports whether a mail relay is configured.
func (c *MailConfig) Enabled() bool {
	return c.Server != ""
}

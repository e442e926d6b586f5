package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" json:"server" jsonschema:"description=Server configuration"`
	Database DatabaseConfig `yaml:"database" json:"database" jsonschema:"description=Database configuration"`
	Digest   DigestConfig   `yaml:"digest" json:"digest" jsonschema:"description=Feed digest maintenance"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Listen         string        `yaml:"listen" json:"listen" jsonschema:"default=127.0.0.1:8080,description=HTTP server listen address"`
	Timeout        time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	AdminDir       string        `yaml:"admin_dir" json:"admin_dir" jsonschema:"description=Directory with static admin UI files served at /admin/ (optional)"`
	AdminTokenHash string        `yaml:"admin_token_hash" json:"admin_token_hash" jsonschema:"description=Bcrypt hash of the bearer token required by the admin API; pass it as ${ENV} reference (optional)"`
}

// DatabaseConfig holds storage settings
type DatabaseConfig struct {
	DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:listfeed.db?mode=rwc,description=SQLite file or postgres:// connection string"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=5,minimum=1,description=Maximum number of open connections"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
}

// DigestConfig holds settings of the memoized feed digest
type DigestConfig struct {
	SweepInterval  time.Duration `yaml:"sweep_interval" json:"sweep_interval" jsonschema:"default=1m,description=How often digests of feeds with expired entries are cleared"`
	PersistTimeout time.Duration `yaml:"persist_timeout" json:"persist_timeout" jsonschema:"default=5s,description=Timeout of the background digest write"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds configuration from YAML content, environment variables in it are expanded
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// schema validation is supplementary
		lgr.Printf("[WARN] schema validation failed: %v", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	// set defaults for server
	if c.Server.Listen == "" {
		c.Server.Listen = "127.0.0.1:8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}

	// set defaults for database
	if c.Database.DSN == "" {
		c.Database.DSN = "file:listfeed.db?mode=rwc"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 5
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = c.Database.MaxOpenConns
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	// set defaults for digest
	if c.Digest.SweepInterval == 0 {
		c.Digest.SweepInterval = time.Minute
	}
	if c.Digest.PersistTimeout == 0 {
		c.Digest.PersistTimeout = 5 * time.Second
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	if strings.HasSuffix(cfg.Server.Listen, ":") {
		return fmt.Errorf("server.listen %q has no port", cfg.Server.Listen)
	}
	if h := cfg.Server.AdminTokenHash; h != "" && !strings.HasPrefix(h, "$2") {
		return fmt.Errorf("server.admin_token_hash must be a bcrypt hash")
	}
	if cfg.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}
	if cfg.Database.MaxIdleConns < 0 || cfg.Database.ConnMaxLifetime < 0 {
		return fmt.Errorf("database pool settings must be non-negative")
	}
	if cfg.Digest.SweepInterval < time.Second {
		return fmt.Errorf("digest.sweep_interval must be at least 1 second")
	}
	if cfg.Digest.PersistTimeout <= 0 {
		return fmt.Errorf("digest.persist_timeout must be positive")
	}
	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetAdminConfig returns static admin UI directory and admin token hash, both optional
func (c *Config) GetAdminConfig() (dir, tokenHash string) {
	return c.Server.AdminDir, c.Server.AdminTokenHash
}

// ConnMaxLifetime returns the connection lifetime as a duration
func (c *Config) ConnMaxLifetime() time.Duration {
	return time.Duration(c.Database.ConnMaxLifetime) * time.Second
}

// Secrets returns configured values that must never show up in logs: the admin token hash
// and the database password
func (c *Config) Secrets() []string {
	var res []string
	if c.Server.AdminTokenHash != "" {
		res = append(res, c.Server.AdminTokenHash)
	}
	if pass := dsnPassword(c.Database.DSN); pass != "" {
		res = append(res, pass)
	}
	return res
}

// dsnPassword extracts the password from a URL DSN or a key=value connection string
func dsnPassword(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.User != nil {
		if pass, ok := u.User.Password(); ok {
			return pass
		}
	}
	for _, field := range strings.Fields(dsn) {
		if pass, ok := strings.CutPrefix(field, "password="); ok {
			return strings.Trim(pass, "'")
		}
	}
	return ""
}

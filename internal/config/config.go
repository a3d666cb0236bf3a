package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Log      LogConfig      `yaml:"log"`
	APIs     []APIConfig    `yaml:"apis" validate:"dive"`
}

type ServerConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port" validate:"min=1,max=65535"`
}

func (s ServerConfig) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

type DatabaseConfig struct {
	URL              string        `yaml:"url"`
	MaxConns         int32         `yaml:"max_conns" validate:"min=0"`
	LockTimeout      time.Duration `yaml:"lock_timeout" validate:"min=0"`
	StatementTimeout time.Duration `yaml:"statement_timeout" validate:"min=0"`
	Seed             bool          `yaml:"seed"`
}

type LedgerConfig struct {
	Retries      int `yaml:"retries" validate:"min=0,max=1"`
	HistoryLimit int `yaml:"history_limit" validate:"min=1"`
}

type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// APIConfig describes an external REST API whose endpoints are exposed as
// proxy tools.
type APIConfig struct {
	Name      string            `yaml:"name" validate:"required"`
	BaseURL   string            `yaml:"base_url" validate:"required,url"`
	Headers   map[string]string `yaml:"headers"`
	Endpoints []EndpointConfig  `yaml:"endpoints" validate:"required,dive"`
}

type EndpointConfig struct {
	Name        string            `yaml:"name"`
	Path        string            `yaml:"path"`
	Method      string            `yaml:"method" validate:"required,oneof=GET POST get post"`
	Description string            `yaml:"description"`
	ToolName    string            `yaml:"tool_name" validate:"required"`
	Headers     map[string]string `yaml:"headers"`
	Parameters  []ParameterConfig `yaml:"parameters" validate:"dive"`
}

type ParameterConfig struct {
	Name        string `yaml:"name" validate:"required"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
	Default     string `yaml:"default"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name:    "banking-server",
			Version: "1.0.0",
			Host:    "0.0.0.0",
			Port:    8001,
		},
		Database: DatabaseConfig{
			MaxConns:         10,
			LockTimeout:      5 * time.Second,
			StatementTimeout: 10 * time.Second,
			Seed:             true,
		},
		Ledger: LedgerConfig{
			Retries:      1,
			HistoryLimit: 10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads .env, then the YAML file at path on top of the defaults, then
// the environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal([]byte(ExpandEnv(string(raw))), cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

var placeholder = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnv replaces ${NAME} with the value of the environment variable
// NAME. Placeholders naming unset variables are kept verbatim.
func ExpandEnv(s string) string {
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return m
	})
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	return nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	seen := map[string]bool{}
	for _, api := range c.APIs {
		for _, ep := range api.Endpoints {
			if seen[ep.ToolName] {
				return fmt.Errorf("invalid config: duplicate tool name %q", ep.ToolName)
			}
			seen[ep.ToolName] = true
		}
	}
	return nil
}

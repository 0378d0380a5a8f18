package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Auth modes supported by the serve command. Exactly one is active per
// deployment.
const (
	ModePasscode = "passcode"
	ModeProvider = "provider"
	ModeSession  = "session"
)

type (
	Config struct {
		Server   Server   `yaml:"server"`
		Database Database `yaml:"database"`
		Auth     Auth     `yaml:"auth"`
	}

	Server struct {
		Bind string `yaml:"bind"`
	}

	Database struct {
		Path string `yaml:"path"`
	}

	Auth struct {
		// Mode selects the validator: passcode, provider or session.
		Mode string `yaml:"mode"`
		// ProviderURL is the base URL of the identity provider used in
		// provider mode, e.g. https://ory.example.com
		ProviderURL string `yaml:"provider_url"`
		// KeyEnvVar names the environment variable holding the
		// base64-encoded signing key used in passcode mode. The key
		// itself never appears in the config file.
		KeyEnvVar string `yaml:"key_envvar"`
		// CacheTTL enables caching of positive provider introspection
		// results when greater than zero.
		CacheTTL Duration `yaml:"cache_ttl"`
	}

	// Duration parses time.ParseDuration strings from YAML.
	Duration time.Duration
)

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("unable to read duration, cause %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("unable to parse duration %q, cause %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func defaults() Config {
	return Config{
		Server:   Server{Bind: "localhost:7030"},
		Database: Database{Path: "pregame.db"},
		Auth:     Auth{Mode: ModeSession},
	}
}

// Load reads a YAML config file. Environment variables in the form
// ${VAR_NAME} are expanded before parsing.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open config file %v, cause %w", path, err)
	}
	defer file.Close()
	return LoadFromReader(file)
}

// LoadFromReader parses YAML config from r, expanding ${VAR_NAME}
// references against the process environment.
func LoadFromReader(r io.Reader) (*Config, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read config, cause %w", err)
	}
	expanded := os.ExpandEnv(string(content))
	cfg := defaults()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config, cause %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Auth.Mode {
	case ModePasscode:
		if c.Auth.KeyEnvVar == "" {
			return fmt.Errorf("auth mode %v requires key_envvar", c.Auth.Mode)
		}
	case ModeProvider:
		if c.Auth.ProviderURL == "" {
			return fmt.Errorf("auth mode %v requires provider_url", c.Auth.Mode)
		}
	case ModeSession:
	default:
		return fmt.Errorf("unknown auth mode %v", c.Auth.Mode)
	}
	return nil
}

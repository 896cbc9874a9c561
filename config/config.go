// Package config loads the client and logging configuration from a file and the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Uffe-Code/go-odata-http/logging"
	"github.com/Uffe-Code/go-odata-http/odataClient"
	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// ErrUnknownFormat is returned for configuration files whose extension is not json, yaml, yml or toml.
var ErrUnknownFormat = errors.New("config: unknown file format")

// Config holds all configuration of the odata-get tool.
type Config struct {
	Client  odataClient.Config `json:"client" yaml:"client" toml:"client"`
	Logging logging.Config     `json:"logging" yaml:"logging" toml:"logging"`
}

// Default returns default configuration. The endpoint has no default.
func Default() *Config {
	return &Config{
		Client: odataClient.Config{
			Headers: map[string]string{},
		},
		Logging: logging.DefaultConfig(),
	}
}

// LoadFile reads path over the defaults, picking the decoder by file extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	switch extension := strings.ToLower(filepath.Ext(path)); extension {
	case ".json":
		err = json.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, extension)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv overlays environment variables such as ODATA_ENDPOINT_URL and LOG_LEVEL onto cfg.
// Variables that are not set leave the field alone.
func FromEnv(cfg *Config) error {
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// Load reads the file at path, when path is not empty, applies the environment and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := FromEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that an endpoint is configured and the log level is known.
func (cfg *Config) Validate() error {
	endpoint := strings.TrimSpace(cfg.Client.EndpointUrl)
	if endpoint == "" {
		return odataClient.ErrMissingEndpoint
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return fmt.Errorf("config: endpoint %q is not an http(s) url", endpoint)
	}
	if cfg.Client.Timeout < 0 {
		return fmt.Errorf("config: negative timeout %s", cfg.Client.Timeout)
	}
	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("config: invalid log level %q: %w", cfg.Logging.Level, err)
	}
	return nil
}

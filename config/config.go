// Package config loads and saves the koria-core server and proxy
// configurations, in either JSON or YAML form.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures a direct (non-proxying) koria-core server.
type ServerConfig struct {
	Listen          string `json:"listen" yaml:"listen"`
	ProtocolVersion int32  `json:"protocol_version" yaml:"protocol_version"`
	MOTD            string `json:"motd" yaml:"motd"`
	MaxPlayers      int    `json:"max_players" yaml:"max_players"`
	LogLevel        string `json:"log_level" yaml:"log_level"`
}

// DefaultServerConfig returns the configuration a freshly-scaffolded server
// starts from.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Listen:          "0.0.0.0:25565",
		ProtocolVersion: 773,
		MOTD:            "A koria-core server",
		MaxPlayers:      20,
		LogLevel:        "info",
	}
}

func (c *ServerConfig) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen is required")
	}
	if c.ProtocolVersion <= 0 {
		return fmt.Errorf("protocol_version must be positive")
	}
	if c.MaxPlayers < 0 {
		return fmt.Errorf("max_players must be non-negative")
	}
	return nil
}

// ProxyConfig configures the MITM proxy variant: it listens for clients and
// dials a single fixed upstream server per accepted connection.
type ProxyConfig struct {
	Listen          string        `json:"listen" yaml:"listen"`
	Upstream        string        `json:"upstream" yaml:"upstream"`
	ProtocolVersion int32         `json:"protocol_version" yaml:"protocol_version"`
	DialTimeout     time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
	LogLevel        string        `json:"log_level" yaml:"log_level"`
}

// DefaultProxyConfig returns the configuration a freshly-scaffolded proxy
// starts from.
func DefaultProxyConfig() *ProxyConfig {
	return &ProxyConfig{
		Listen:          "0.0.0.0:25566",
		Upstream:        "127.0.0.1:25565",
		ProtocolVersion: 773,
		DialTimeout:     10 * time.Second,
		LogLevel:        "info",
	}
}

func (c *ProxyConfig) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen is required")
	}
	if c.Upstream == "" {
		return fmt.Errorf("upstream is required")
	}
	if c.DialTimeout <= 0 {
		return fmt.Errorf("dial_timeout must be positive")
	}
	return nil
}

// LoadServerConfig reads a ServerConfig from filename, choosing JSON or YAML
// decoding by file extension (.yaml/.yml vs anything else).
func LoadServerConfig(filename string) (*ServerConfig, error) {
	cfg := DefaultServerConfig()
	if err := load(filename, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}
	return cfg, nil
}

// LoadProxyConfig reads a ProxyConfig from filename, choosing JSON or YAML
// decoding by file extension.
func LoadProxyConfig(filename string) (*ProxyConfig, error) {
	cfg := DefaultProxyConfig()
	if err := load(filename, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid proxy config: %w", err)
	}
	return cfg, nil
}

// SaveServerConfig writes cfg to filename as YAML for a .yaml/.yml path and
// as indented JSON otherwise.
func SaveServerConfig(filename string, cfg *ServerConfig) error {
	return save(filename, cfg)
}

// SaveProxyConfig writes cfg to filename as YAML for a .yaml/.yml path and
// as indented JSON otherwise.
func SaveProxyConfig(filename string, cfg *ProxyConfig) error {
	return save(filename, cfg)
}

func load(filename string, out interface{}) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if isYAMLPath(filename) {
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse yaml config: %w", err)
		}
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse json config: %w", err)
	}
	return nil
}

func save(filename string, in interface{}) error {
	var data []byte
	var err error
	if isYAMLPath(filename) {
		data, err = yaml.Marshal(in)
	} else {
		data, err = json.MarshalIndent(in, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func isYAMLPath(filename string) bool {
	n := len(filename)
	return n >= 5 && filename[n-5:] == ".yaml" || n >= 4 && filename[n-4:] == ".yml"
}

// Package config loads switchboard configuration from YAML files: the
// graph definition (entry handler, participants, edges) plus ambient
// settings for the server binaries.
package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/routing"
)

// HandlerSpec declares one participant of the graph. Options carries the
// handler-specific configuration block, decoded on demand with
// DecodeOptions into the handler's own config struct.
type HandlerSpec struct {
	Name    string         `yaml:"name" json:"name"`
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty"`
}

// GraphConfig is the YAML shape of a routing graph definition.
type GraphConfig struct {
	Name     string         `yaml:"name" json:"name"`
	Entry    string         `yaml:"entry" json:"entry"`
	MaxTurns int            `yaml:"max_turns,omitempty" json:"max_turns,omitempty"`
	Handlers []HandlerSpec  `yaml:"handlers" json:"handlers"`
	Edges    []routing.Edge `yaml:"edges,omitempty" json:"edges,omitempty"`
}

// ServerConfig holds settings for the HTTP server binary.
type ServerConfig struct {
	Listen   string `yaml:"listen,omitempty" json:"listen,omitempty"`
	LogLevel string `yaml:"log_level,omitempty" json:"log_level,omitempty"`
}

// RedisConfig enables the Redis-backed store when Addr is set.
type RedisConfig struct {
	Addr       string `yaml:"addr,omitempty" json:"addr,omitempty"`
	Password   string `yaml:"password,omitempty" json:"password,omitempty"`
	DB         int    `yaml:"db,omitempty" json:"db,omitempty"`
	TTLSeconds int    `yaml:"ttl_seconds,omitempty" json:"ttl_seconds,omitempty"`
}

// SecurityConfig configures the persistence middleware chain.
type SecurityConfig struct {
	// EncryptionKey is the active AES-256 key, base64 or raw 32 bytes.
	EncryptionKey string   `yaml:"encryption_key,omitempty" json:"encryption_key,omitempty"`
	PIIPatterns   []string `yaml:"pii_patterns,omitempty" json:"pii_patterns,omitempty"`
}

// Config is the root of a switchboard configuration file.
type Config struct {
	Graph    GraphConfig    `yaml:"graph" json:"graph"`
	Server   ServerConfig   `yaml:"server,omitempty" json:"server,omitempty"`
	Redis    RedisConfig    `yaml:"redis,omitempty" json:"redis,omitempty"`
	Security SecurityConfig `yaml:"security,omitempty" json:"security,omitempty"`
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration bytes and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	if cfg.Graph.MaxTurns == 0 {
		cfg.Graph.MaxTurns = domain.DefaultMaxTurns
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}

	if err := cfg.Graph.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the structural rules a graph definition must satisfy
// before it is handed to the builder. Handler existence in the registry
// is the builder's job; this catches file-level mistakes early.
func (g *GraphConfig) Validate() error {
	if g.Entry == "" {
		return fmt.Errorf("graph %q: entry handler is required", g.Name)
	}
	if len(g.Handlers) == 0 {
		return fmt.Errorf("graph %q: at least one handler is required", g.Name)
	}

	seen := make(map[string]bool, len(g.Handlers))
	for _, h := range g.Handlers {
		if h.Name == "" {
			return fmt.Errorf("graph %q: handler with empty name", g.Name)
		}
		if seen[h.Name] {
			return fmt.Errorf("graph %q: handler %q declared twice", g.Name, h.Name)
		}
		seen[h.Name] = true
	}

	for _, e := range g.Edges {
		if e.FromToken == "" || e.To == "" {
			return fmt.Errorf("graph %q: edge must set both from_token and to", g.Name)
		}
	}
	return nil
}

// ParticipantNames returns the declared handler names in file order.
func (g *GraphConfig) ParticipantNames() []string {
	names := make([]string, len(g.Handlers))
	for i, h := range g.Handlers {
		names[i] = h.Name
	}
	return names
}

// DecodeOptions decodes the options block of the named handler into out,
// which should be a pointer to the handler's config struct with
// mapstructure tags. A handler without an options block leaves out at
// its zero value.
func (g *GraphConfig) DecodeOptions(handlerName string, out any) error {
	for _, h := range g.Handlers {
		if h.Name != handlerName {
			continue
		}
		if h.Options == nil {
			return nil
		}
		if err := mapstructure.Decode(h.Options, out); err != nil {
			return fmt.Errorf("handler %q: failed to decode options: %w", handlerName, err)
		}
		return nil
	}
	return fmt.Errorf("handler %q is not declared in graph %q", handlerName, g.Name)
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/claude/repcounter/internal/counter"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Counter   CounterConfig   `yaml:"counter"`
	Session   SessionConfig   `yaml:"session"`
	MCP       MCPConfig       `yaml:"mcp"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type CounterConfig struct {
	Curl          counter.Thresholds `yaml:"curl"`
	Squat         counter.Thresholds `yaml:"squat"`
	MinVisibility float64            `yaml:"min_visibility"`
}

// Settings returns the thresholds in the form the counters take.
func (c CounterConfig) Settings() counter.Settings {
	return counter.Settings{Curl: c.Curl, Squat: c.Squat}
}

type SessionConfig struct {
	DefaultWeightKg float64 `yaml:"default_weight_kg"`
	MinWeightKg     float64 `yaml:"min_weight_kg"`
	MaxWeightKg     float64 `yaml:"max_weight_kg"`
}

type MCPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the configuration used for every key a file omits.
func Default() *Config {
	s := counter.DefaultSettings()
	return &Config{
		Server:    ServerConfig{Host: "0.0.0.0", Port: 8080},
		Tailscale: TailscaleConfig{Hostname: "repcounter"},
		Counter: CounterConfig{
			Curl:          s.Curl,
			Squat:         s.Squat,
			MinVisibility: 0.5,
		},
		Session: SessionConfig{
			DefaultWeightKg: 70,
			MinWeightKg:     30,
			MaxWeightKg:     200,
		},
		MCP: MCPConfig{Enabled: true, Path: "/mcp"},
	}
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. Env vars use the prefix REPCOUNTER_ and
// underscore-separated paths:
//
//	REPCOUNTER_SERVER_HOST, REPCOUNTER_SERVER_PORT,
//	REPCOUNTER_TAILSCALE_ENABLED, REPCOUNTER_TAILSCALE_HOSTNAME,
//	REPCOUNTER_TAILSCALE_STATE_DIR,
//	REPCOUNTER_COUNTER_MIN_VISIBILITY,
//	REPCOUNTER_SESSION_DEFAULT_WEIGHT_KG,
//	REPCOUNTER_MCP_ENABLED, REPCOUNTER_MCP_PATH
//
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REPCOUNTER_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("REPCOUNTER_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("REPCOUNTER_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	if v := os.Getenv("REPCOUNTER_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("REPCOUNTER_TAILSCALE_STATE_DIR"); v != "" {
		cfg.Tailscale.StateDir = v
	}
	if v := os.Getenv("REPCOUNTER_COUNTER_MIN_VISIBILITY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Counter.MinVisibility = f
		}
	}
	if v := os.Getenv("REPCOUNTER_SESSION_DEFAULT_WEIGHT_KG"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Session.DefaultWeightKg = f
		}
	}
	if v := os.Getenv("REPCOUNTER_MCP_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.MCP.Enabled = b
		}
	}
	if v := os.Getenv("REPCOUNTER_MCP_PATH"); v != "" {
		cfg.MCP.Path = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if err := c.Counter.Curl.Validate(); err != nil {
		return fmt.Errorf("counter.curl: %w", err)
	}
	if err := c.Counter.Squat.Validate(); err != nil {
		return fmt.Errorf("counter.squat: %w", err)
	}
	if c.Counter.MinVisibility < 0 || c.Counter.MinVisibility > 1 {
		return fmt.Errorf("counter.min_visibility must be in [0, 1]")
	}
	s := c.Session
	if s.MinWeightKg <= 0 || s.MaxWeightKg <= 0 {
		return fmt.Errorf("session weight bounds must be positive")
	}
	if s.MinWeightKg > s.MaxWeightKg {
		return fmt.Errorf("session.min_weight_kg exceeds max_weight_kg")
	}
	if s.DefaultWeightKg < s.MinWeightKg || s.DefaultWeightKg > s.MaxWeightKg {
		return fmt.Errorf("session.default_weight_kg must lie within the weight bounds")
	}
	if c.MCP.Enabled && (c.MCP.Path == "" || c.MCP.Path[0] != '/') {
		return fmt.Errorf("mcp.path must start with /")
	}
	return nil
}

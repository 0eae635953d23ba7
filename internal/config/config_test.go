package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
tailscale:
  enabled: true
  hostname: "gym"
  state_dir: "/tmp/ts"
counter:
  curl:
    extended_deg: 150
    contracted_deg: 40
  min_visibility: 0.7
session:
  default_weight_kg: 80
mcp:
  path: "/tools"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if !cfg.Tailscale.Enabled || cfg.Tailscale.Hostname != "gym" {
		t.Errorf("tailscale = %+v", cfg.Tailscale)
	}
	if cfg.Counter.Curl.Extended != 150 || cfg.Counter.Curl.Contracted != 40 {
		t.Errorf("counter.curl = %+v, want 150/40", cfg.Counter.Curl)
	}
	if cfg.Counter.MinVisibility != 0.7 {
		t.Errorf("counter.min_visibility = %v, want 0.7", cfg.Counter.MinVisibility)
	}
	if cfg.Session.DefaultWeightKg != 80 {
		t.Errorf("session.default_weight_kg = %v, want 80", cfg.Session.DefaultWeightKg)
	}
	if cfg.MCP.Path != "/tools" {
		t.Errorf("mcp.path = %q, want /tools", cfg.MCP.Path)
	}
}

// TestLoadDefaults verifies omitted keys keep their defaults, including
// siblings of keys the file does set.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Counter.Squat.Extended != 160 || cfg.Counter.Squat.Contracted != 100 {
		t.Errorf("counter.squat = %+v, want 160/100", cfg.Counter.Squat)
	}
	if cfg.Session.MinWeightKg != 30 || cfg.Session.MaxWeightKg != 200 {
		t.Errorf("weight bounds = %v/%v, want 30/200", cfg.Session.MinWeightKg, cfg.Session.MaxWeightKg)
	}
	if !cfg.MCP.Enabled {
		t.Error("mcp.enabled should default to true")
	}
}

// TestLoadNoFile verifies an empty path yields the defaults.
func TestLoadNoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	s := cfg.Counter.Settings()
	if s.Curl.Extended != 160 || s.Curl.Contracted != 30 {
		t.Errorf("curl settings = %+v", s.Curl)
	}
}

// TestEnvOverride verifies that REPCOUNTER_ env vars take precedence over YAML values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("REPCOUNTER_SERVER_PORT", "7000")
	t.Setenv("REPCOUNTER_TAILSCALE_ENABLED", "false")
	t.Setenv("REPCOUNTER_COUNTER_MIN_VISIBILITY", "0.25")
	t.Setenv("REPCOUNTER_MCP_PATH", "/agent")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("server.port = %d, want 7000", cfg.Server.Port)
	}
	if cfg.Tailscale.Enabled {
		t.Error("tailscale.enabled should be overridden to false")
	}
	if cfg.Counter.MinVisibility != 0.25 {
		t.Errorf("counter.min_visibility = %v, want 0.25", cfg.Counter.MinVisibility)
	}
	if cfg.MCP.Path != "/agent" {
		t.Errorf("mcp.path = %q, want /agent", cfg.MCP.Path)
	}
	// Unchanged fields should keep YAML values
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
}

// TestValidationErrors verifies bad values are rejected at load time.
func TestValidationErrors(t *testing.T) {
	cases := map[string]string{
		"zero port":         "server:\n  port: 0\n",
		"inverted curl":     "counter:\n  curl:\n    extended_deg: 30\n    contracted_deg: 160\n",
		"squat above 180":   "counter:\n  squat:\n    extended_deg: 190\n",
		"visibility":        "counter:\n  min_visibility: 1.5\n",
		"inverted weights":  "session:\n  min_weight_kg: 150\n  max_weight_kg: 100\n",
		"negative weight":   "session:\n  min_weight_kg: -1\n",
		"default too heavy": "session:\n  default_weight_kg: 250\n",
		"ts no hostname":    "tailscale:\n  enabled: true\n  hostname: \"\"\n",
		"mcp relative path": "mcp:\n  path: \"mcp\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeTemp(t, body)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

// TestLoadMissingFile verifies that a missing config file returns a clear error.
func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

// TestLoadBadYAML verifies parse errors are reported.
func TestLoadBadYAML(t *testing.T) {
	if _, err := Load(writeTemp(t, "server: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

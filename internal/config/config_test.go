package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultConfigMatchesEmbedded(t *testing.T) {
	// The embedded YAML and the hardcoded fallback must agree, or the
	// effective defaults depend on which path the loader took.
	cfg := DefaultConfig()

	loaded := DefaultConfig()
	if err := yaml.Unmarshal(defaultYAML, &loaded); err != nil {
		t.Fatalf("embedded default does not parse: %v", err)
	}
	if loaded != cfg {
		t.Errorf("embedded default differs from DefaultConfig():\n%+v\n%+v", loaded, cfg)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("game:\n  tick_rate_hz: 60\nserver:\n  ssh_addr: \":2222\"\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Game.TickRateHz != 60 {
		t.Errorf("Expected tick rate 60, got %d", cfg.Game.TickRateHz)
	}
	if cfg.Server.SSHAddr != ":2222" {
		t.Errorf("Expected ssh addr :2222, got %q", cfg.Server.SSHAddr)
	}

	// Keys the file does not name keep their defaults.
	if cfg.Game.Animations.MoveMs != 280 {
		t.Errorf("Expected default move_ms 280, got %d", cfg.Game.Animations.MoveMs)
	}
	if cfg.Channel.CapacityCells != 16384 {
		t.Errorf("Expected default capacity, got %d", cfg.Channel.CapacityCells)
	}
}

func TestLoadMissingCustomPathFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing custom config path")
	}
}

func TestLoadRejectsBrokenCustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("game: ["), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected parse error for broken custom config")
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.xml")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 8089 {
		t.Errorf("port = %d, want 8089", cfg.Server.Port)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if !strings.Contains(string(data), "<BusLogVisualizer>") {
		t.Error("written config missing root element")
	}
}

func TestLoadConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.xml")

	cfg := DefaultConfig()
	cfg.Server.Port = 9090
	cfg.Storage.WatchDirectory = "./incoming"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", loaded.Server.Port)
	}
	if loaded.Storage.WatchDirectory != filepath.Join(dir, "incoming") {
		t.Errorf("watch dir not resolved: %q", loaded.Storage.WatchDirectory)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("WATCH_DIR", "/var/capture/incoming")

	path := filepath.Join(t.TempDir(), "config.xml")
	if err := DefaultConfig().Save(path); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Storage.WatchDirectory != "/var/capture/incoming" {
		t.Errorf("watch dir = %q", cfg.Storage.WatchDirectory)
	}
}

func TestLoadChannelRules(t *testing.T) {
	content := `
default_color: "#cccccc"
channels:
  - bus: can
    channel: 1
    name: Powertrain
  - bus: lin
    channel: 2
    name: Door Module
rules:
  - bus: can
    frame_id: 256
    color: "#ff0000"
    priority: 1
  - type: CANErrorFrame
    color: "#ffaa00"
    priority: 5
`
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadChannelRules(path)
	if err != nil {
		t.Fatalf("LoadChannelRules: %v", err)
	}

	if got := rules.NameFor("can", 1); got != "Powertrain" {
		t.Errorf("NameFor(can, 1) = %q", got)
	}
	if got := rules.NameFor("can", 3); got != "" {
		t.Errorf("NameFor(can, 3) = %q, want empty", got)
	}

	if len(rules.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules.Rules))
	}
	if rules.Rules[0].Priority != 5 {
		t.Errorf("rules not sorted by priority: first has %d", rules.Rules[0].Priority)
	}
}

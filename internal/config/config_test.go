package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.API.Delay != 3*time.Second || cfg.Auth.LoginDelay != 500*time.Millisecond || cfg.Storage.Driver != "sqlite" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestFromYAMLKeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := FromYAML([]byte("storage:\n  driver: file\napi:\n  delay: 10ms\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Storage.Driver != "file" || cfg.API.Delay != 10*time.Millisecond {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" || cfg.Log.Level != "info" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"driver":       "storage:\n  driver: mongo\n",
		"failure rate": "api:\n  failure_rate: 1.5\n",
		"delay":        "api:\n  delay: -1s\n",
		"log level":    "log:\n  level: loud\n",
		"keyring":      "auth:\n  keyring: vault\n",
		"yaml":         "storage: [",
	}
	for name, raw := range cases {
		if _, err := FromYAML([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadOptional(t *testing.T) {
	ws := t.TempDir()
	cfg, err := LoadOptional(ws)
	if err != nil || cfg == nil || cfg.Storage.Driver != "sqlite" {
		t.Fatalf("expected defaults for missing file, got %+v %v", cfg, err)
	}
	if _, err := Load(ws); err == nil || !strings.Contains(err.Error(), "kanban init") {
		t.Fatalf("expected not-found hint, got %v", err)
	}
	if err := os.WriteFile(Path(ws), []byte(GenerateDefault()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(ws); err != nil {
		t.Fatalf("load generated config: %v", err)
	}
}

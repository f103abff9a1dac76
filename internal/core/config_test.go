package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadGlobalConfigDefaults(t *testing.T) {
	cm := NewConfigurationManager(t.TempDir())

	cfg, err := cm.LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig failed: %v", err)
	}
	if cfg.DefaultFramework != "design-thinking" {
		t.Errorf("expected design-thinking default, got %s", cfg.DefaultFramework)
	}
	if cfg.DefaultMethod != "zero-shot" {
		t.Errorf("expected zero-shot default, got %s", cfg.DefaultMethod)
	}
	if cfg.Processing.MaxEntries != 10 || cfg.Processing.RelevanceThreshold != 0.3 {
		t.Errorf("unexpected processing defaults: %+v", cfg.Processing)
	}
	if cfg.SessionIDPrefix != "S" || cfg.TransitionIDPrefix != "T" {
		t.Errorf("unexpected id prefixes: %s / %s", cfg.SessionIDPrefix, cfg.TransitionIDPrefix)
	}
}

func TestLoadGlobalConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `defaults:
  framework: lean-ux
  method: few-shot
accessibility_mode: true
processing:
  max_entries: 5
  relevance_threshold: 0.5
ids:
  session_prefix: WS
`
	if err := os.WriteFile(filepath.Join(dir, ".praxisrc.yaml"), []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cm := NewConfigurationManager(dir)
	cfg, err := cm.LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig failed: %v", err)
	}
	if cfg.DefaultFramework != "lean-ux" {
		t.Errorf("expected lean-ux, got %s", cfg.DefaultFramework)
	}
	if cfg.DefaultMethod != "few-shot" {
		t.Errorf("expected few-shot, got %s", cfg.DefaultMethod)
	}
	if !cfg.AccessibilityMode {
		t.Error("expected accessibility mode on")
	}
	if cfg.Processing.MaxEntries != 5 || cfg.Processing.RelevanceThreshold != 0.5 {
		t.Errorf("unexpected processing values: %+v", cfg.Processing)
	}
	if cfg.SessionIDPrefix != "WS" {
		t.Errorf("expected WS prefix, got %s", cfg.SessionIDPrefix)
	}
	// Keys not in the file keep their defaults.
	if cfg.TransitionIDPrefix != "T" {
		t.Errorf("expected default transition prefix, got %s", cfg.TransitionIDPrefix)
	}
}

func TestValidateConfig(t *testing.T) {
	cm := NewConfigurationManager(t.TempDir())
	cfg, _ := cm.LoadGlobalConfig()

	if err := cm.ValidateConfig(cfg); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	cfg.DefaultMethod = "no-such-method"
	if err := cm.ValidateConfig(cfg); err == nil {
		t.Error("expected error for unknown default method")
	}
	cfg.DefaultMethod = "zero-shot"

	cfg.Processing.RelevanceThreshold = 1.5
	if err := cm.ValidateConfig(cfg); err == nil {
		t.Error("expected error for out-of-range threshold")
	}
	cfg.Processing.RelevanceThreshold = 0.3

	cfg.SessionIDPrefix = "lowercase"
	if err := cm.ValidateConfig(cfg); err == nil {
		t.Error("expected error for lowercase prefix")
	}

	if err := cm.ValidateConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

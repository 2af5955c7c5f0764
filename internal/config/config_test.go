package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, info, err := LoadConfigWithInfo(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfigWithInfo failed: %v", err)
	}
	if info.FromFile {
		t.Fatalf("expected defaults, not file")
	}
	if cfg.Quorum.Threshold != 50 {
		t.Fatalf("threshold=%d, want 50", cfg.Quorum.Threshold)
	}
	if cfg.Roster.ManualEntryMinLength != 7 {
		t.Fatalf("manual min length=%d, want 7", cfg.Roster.ManualEntryMinLength)
	}
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `
[server]
port = 9000

[quorum]
threshold = 120

[export]
time_layout = "2006-01-02"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ROLLCALL_PORT", "9100")

	cfg, info, err := LoadConfigWithInfo(path)
	if err != nil {
		t.Fatalf("LoadConfigWithInfo failed: %v", err)
	}
	if !info.FromFile {
		t.Fatalf("expected config from file")
	}
	if cfg.Server.Port != 9100 {
		t.Fatalf("env should override port, got %d", cfg.Server.Port)
	}
	if cfg.Quorum.Threshold != 120 {
		t.Fatalf("threshold=%d, want 120", cfg.Quorum.Threshold)
	}
	if cfg.Export.TimeLayout != "2006-01-02" {
		t.Fatalf("time layout=%q", cfg.Export.TimeLayout)
	}
	if !cfg.Server.OpenBrowser {
		t.Fatalf("unset keys should keep defaults")
	}
}

func TestLoadConfig_RejectsNonPositiveThreshold(t *testing.T) {
	t.Setenv("ROLLCALL_QUORUM_THRESHOLD", "0")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil || !strings.Contains(err.Error(), "quorum.threshold") {
		t.Fatalf("expected quorum.threshold error, got %v", err)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := DefaultConfig()
	cfg.Quorum.Threshold = 75

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Quorum.Threshold != 75 {
		t.Fatalf("threshold=%d, want 75", loaded.Quorum.Threshold)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*AppConfig){
		"port":   func(c *AppConfig) { c.Server.Port = 0 },
		"format": func(c *AppConfig) { c.Export.DefaultFormat = "pdf" },
		"log":    func(c *AppConfig) { c.Log.Format = "xml" },
		"layout": func(c *AppConfig) { c.Export.TimeLayout = " " },
		"upload": func(c *AppConfig) { c.Roster.MaxUploadBytes = 0 },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

package store

import (
	"os"
	"path/filepath"
	"testing"
	_ "time/tzdata"
)

func TestLoadConfig_MissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	cfg, err := s.LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	yml := "server: https://todo.example.com/\nlocale: en\n"
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte(yml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Store{Dir: dir}.LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server != "https://todo.example.com" {
		t.Fatalf("server should be trimmed, got %q", cfg.Server)
	}
	if cfg.Locale != "en" || cfg.Timezone != "Asia/Shanghai" || cfg.RateBurst != 10 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte("server: [unterminated"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := (Store{Dir: dir}).LoadConfig(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Parallel()

	s := Store{Dir: filepath.Join(t.TempDir(), "nested")}
	cfg := DefaultConfig()
	if err := cfg.Set("server", "https://todo.example.com"); err != nil {
		t.Fatalf("set server: %v", err)
	}
	if err := cfg.Set("timezone", "UTC"); err != nil {
		t.Fatalf("set timezone: %v", err)
	}
	if err := cfg.Set("format", "table"); err != nil {
		t.Fatalf("set format: %v", err)
	}
	if err := s.SaveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != cfg {
		t.Fatalf("round trip mismatch:\n got: %+v\nwant: %+v", got, cfg)
	}
}

func TestConfigSet_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key, value string
	}{
		{"server", "ftp://x"},
		{"locale", "xx-??"},
		{"timezone", "Mars/Olympus"},
		{"retries", "-1"},
		{"timeout_seconds", "0"},
		{"rate_burst", "0"},
		{"timeout_seconds", "-5"},
		{"rate_per_second", "0"},
		{"format", "edn"},
		{"colour", "blue"},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		if err := cfg.Set(tt.key, tt.value); err == nil {
			t.Fatalf("Set(%q, %q): expected error", tt.key, tt.value)
		}
	}
}

func TestConfigSet_ZeroRetriesSurvivesSave(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	cfg := DefaultConfig()
	for k, v := range map[string]string{"retries": "0", "timeout_seconds": "1", "rate_burst": "1"} {
		if err := cfg.Set(k, v); err != nil {
			t.Fatalf("Set(%q, %q): %v", k, v, err)
		}
	}
	if err := s.SaveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Retries != 0 || got.TimeoutSeconds != 1 || got.RateBurst != 1 {
		t.Fatalf("values not kept as set: %+v", got)
	}
}

func TestConfig_Location(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Timezone = "UTC"
	loc, err := cfg.Location()
	if err != nil || loc.String() != "UTC" {
		t.Fatalf("got %v err=%v", loc, err)
	}
}

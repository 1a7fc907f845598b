package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != DefaultSeed || cfg.MaxVisible != DefaultMaxVisible || cfg.DefaultView != DefaultView {
		t.Fatalf("unexpected defaults %+v", cfg)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("perm = %o, want 600", perm)
	}
}

func TestLoadNormalizesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("seed: /data/holidays.ics\nmax_visible: 0\ndefault_view: agenda\n"), 0o600)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != "/data/holidays.ics" {
		t.Fatalf("seed = %q", cfg.Seed)
	}
	if cfg.MaxVisible != DefaultMaxVisible {
		t.Fatalf("max_visible = %d", cfg.MaxVisible)
	}
	if cfg.DefaultView != DefaultView {
		t.Fatalf("default_view = %q", cfg.DefaultView)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Fatalf("log_level = %q", cfg.LogLevel)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("max_visible: [oops"), 0o600)
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	in := &Config{
		DBPath:      "/tmp/agenda.db",
		Seed:        "https://example.com/seed.json",
		SeedRefresh: "*/30 * * * *",
		MaxVisible:  5,
		DefaultView: "list",
		LogFile:     "/tmp/agenda.log",
		LogLevel:    "debug",
	}
	if err := Save(path, in); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "seed_refresh:") {
		t.Fatalf("unexpected yaml:\n%s", data)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *out != *in {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", out, in)
	}
}

func TestSaveRejectsEmpty(t *testing.T) {
	if err := Save("", Default()); err == nil {
		t.Fatal("expected error for empty path")
	}
	if err := Save(filepath.Join(t.TempDir(), "c.yaml"), nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestDefaultPath(t *testing.T) {
	p, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(p, filepath.Join("agenda", "config.yaml")) {
		t.Fatalf("unexpected path %q", p)
	}
}

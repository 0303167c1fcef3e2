package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iwvelando/loan-schedule/pkg/constants"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address == "" {
		t.Fatalf("expected default address, got empty")
	}
	if cfg.UploadSizeBytes() <= 0 {
		t.Fatalf("expected positive default max upload size, got %d", cfg.UploadSizeBytes())
	}
	if cfg.Logging.Level != "" || cfg.Logging.Format != "" || cfg.Logging.OutputFile != "" {
		t.Fatalf("expected empty logging defaults, got %+v", cfg.Logging)
	}
	if cfg.Cache.Address != "" || cfg.Database.SQLitePath != "" {
		t.Fatalf("expected cache and database disabled by default, got %+v", cfg)
	}
	if cfg.SnapshotEnabled() {
		t.Fatal("expected snapshot disabled by default")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server-config.yaml")

	contents := []byte(`address: 127.0.0.1:9000
maxUploadSize: 2M
logging:
  level: debug
  format: console
  outputFile: /tmp/server.log
cache:
  address: 127.0.0.1:6379
  ttl: 90s
database:
  sqlitePath: /tmp/runs.db
snapshot:
  cron: "0 0 3 * * *"
  configPath: /tmp/watched.yaml
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Fatalf("expected address override, got %s", cfg.Address)
	}
	if cfg.UploadSizeBytes() != 2*1024*1024 {
		t.Fatalf("expected max upload override, got %d", cfg.UploadSizeBytes())
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Cache.Address != "127.0.0.1:6379" {
		t.Fatalf("expected cache address override, got %s", cfg.Cache.Address)
	}
	if cfg.CacheTTL() != 90*time.Second {
		t.Fatalf("expected cache ttl 90s, got %s", cfg.CacheTTL())
	}
	if cfg.Database.SQLitePath != "/tmp/runs.db" {
		t.Fatalf("expected sqlite path override, got %s", cfg.Database.SQLitePath)
	}
	if !cfg.SnapshotEnabled() {
		t.Fatal("expected snapshot enabled with cron and configPath set")
	}
	if cfg.Snapshot.Cron != "0 0 3 * * *" {
		t.Fatalf("expected snapshot cron override, got %s", cfg.Snapshot.Cron)
	}
}

func TestLoadConfigDefaultCacheTTL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server-config.yaml")

	contents := []byte(`cache:
  address: 127.0.0.1:6379
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.CacheTTL() != defaultCacheTTL {
		t.Fatalf("expected default cache ttl %s, got %s", defaultCacheTTL, cfg.CacheTTL())
	}
}

func TestLoadConfigInvalidCacheTTL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server-config.yaml")

	contents := []byte(`cache:
  address: 127.0.0.1:6379
  ttl: soon
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid cache ttl but got nil")
	}
}

func TestLoadConfigInvalidYaml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")

	if err := os.WriteFile(path, []byte("maxUploadSize: invalid"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid YAML but got nil")
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":          constants.DefaultMaxUploadSizeBytes,
		"1024":      1024,
		"512b":      512,
		"256K":      256 * 1024,
		"1m":        1024 * 1024,
		"3MB":       3 * 1024 * 1024,
		"2G":        2 * 1024 * 1024 * 1024,
		"  4096   ": 4096,
	}

	for input, expected := range tests {
		got, err := ParseSize(input)
		if err != nil {
			t.Fatalf("ParseSize(%q) returned error: %v", input, err)
		}
		if got != expected {
			t.Fatalf("ParseSize(%q) = %d, expected %d", input, got, expected)
		}
	}

	if _, err := ParseSize("1TB"); err == nil {
		t.Fatal("expected error for unsupported unit")
	}
	if _, err := ParseSize("abc"); err == nil {
		t.Fatal("expected error for invalid number")
	}
}

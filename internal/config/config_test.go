package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewConfigDefaultsWhenSettingsMissing(t *testing.T) {
	anchor := t.TempDir()
	cfg, err := NewConfig(anchor)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if cfg.Settings.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", cfg.Settings.Version)
	}
	if got := cfg.Extensions(); len(got) != len(DefaultExtensions) || got[0] != ".go" {
		t.Fatalf("unexpected default extensions: %v", got)
	}
	if !cfg.StdlibEnabled() {
		t.Fatalf("stdlib should be enabled by default")
	}
	want := filepath.Join(anchor, ".sqeezz", "logs", "resolve.log")
	if cfg.LogPath() != want {
		t.Fatalf("log path = %s, want %s", cfg.LogPath(), want)
	}
}

func TestNewConfigParsesYaml(t *testing.T) {
	anchor := t.TempDir()
	settings := strings.TrimSpace(`
version: 1
extensions:
  - yaml
  - .GO
  - .yaml
stdlib: false
log: /var/tmp/sqeezz.log
`)
	if err := os.WriteFile(filepath.Join(anchor, SettingsFile), []byte(settings), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := NewConfig(anchor)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	exts := cfg.Extensions()
	if len(exts) != 2 || exts[0] != ".yaml" || exts[1] != ".go" {
		t.Fatalf("extensions not normalized: %v", exts)
	}
	if cfg.StdlibEnabled() {
		t.Fatalf("stdlib should be disabled")
	}
	if cfg.LogPath() != "/var/tmp/sqeezz.log" {
		t.Fatalf("unexpected log path %s", cfg.LogPath())
	}
}

func TestNewConfigRejectsBadVersion(t *testing.T) {
	anchor := t.TempDir()
	if err := os.WriteFile(filepath.Join(anchor, SettingsFile), []byte("version: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewConfig(anchor); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestDetectAnchorHonoursEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(AnchorEnv, dir)
	got, err := DetectAnchor()
	if err != nil {
		t.Fatalf("DetectAnchor: %v", err)
	}
	if got != dir {
		t.Fatalf("anchor = %s, want %s", got, dir)
	}
}

func TestDetectAnchorFallsBackToExecutable(t *testing.T) {
	t.Setenv(AnchorEnv, "")
	got, err := DetectAnchor()
	if err != nil {
		t.Fatalf("DetectAnchor: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Fatalf("anchor %s is not absolute", got)
	}
}

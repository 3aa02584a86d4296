// internal/config/config.go
//
// This package works out the Program Anchor (the directory the running
// binary lives in) and reads the optional sqeezz.yaml placed next to it.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// AnchorEnv overrides anchor detection when set.
	AnchorEnv = "SQEEZZ_ANCHOR"

	// SettingsFile is looked up directly under the anchor.
	SettingsFile = "sqeezz.yaml"

	defaultLogPath = ".sqeezz/logs/resolve.log"
)

// DefaultExtensions is the order unit files are searched in under the anchor.
var DefaultExtensions = []string{".go", ".yaml", ".yml", ".toml", ".cue", ".hcl", ".wasm"}

// Settings models sqeezz.yaml.
type Settings struct {
	Version    int      `yaml:"version"`
	Extensions []string `yaml:"extensions,omitempty"`
	// Stdlib exposes the Go standard library through the registry. Defaults to true.
	Stdlib *bool  `yaml:"stdlib,omitempty"`
	Log    string `yaml:"log,omitempty"`
}

// Config holds the runtime configuration for a resolver.
type Config struct {
	// Anchor is the absolute directory fallback units are loaded from
	Anchor string

	Settings Settings
}

// DetectAnchor returns the directory of the running executable, or the value
// of SQEEZZ_ANCHOR when that is set.
func DetectAnchor() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(AnchorEnv)); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("config: resolve %s: %w", AnchorEnv, err)
		}
		return abs, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("config: locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	abs, err := filepath.Abs(exe)
	if err != nil {
		return "", fmt.Errorf("config: resolve executable path: %w", err)
	}
	return filepath.Dir(abs), nil
}

// NewConfig builds a Config rooted at anchor. An empty anchor is detected.
func NewConfig(anchor string) (*Config, error) {
	anchor = strings.TrimSpace(anchor)
	if anchor == "" {
		detected, err := DetectAnchor()
		if err != nil {
			return nil, err
		}
		anchor = detected
	}
	abs, err := filepath.Abs(anchor)
	if err != nil {
		return nil, fmt.Errorf("config: resolve anchor %s: %w", anchor, err)
	}
	cfg := &Config{Anchor: abs, Settings: defaultSettings()}
	if err := cfg.loadSettings(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SettingsPath returns the on-disk location of sqeezz.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Anchor, SettingsFile)
}

// LogPath returns the path of the resolution journal.
func (c *Config) LogPath() string {
	if filepath.IsAbs(c.Settings.Log) {
		return c.Settings.Log
	}
	return filepath.Join(c.Anchor, filepath.FromSlash(c.Settings.Log))
}

// Extensions returns the configured search order.
func (c *Config) Extensions() []string {
	return append([]string{}, c.Settings.Extensions...)
}

// StdlibEnabled reports whether the standard library should be registered.
func (c *Config) StdlibEnabled() bool {
	return c.Settings.Stdlib == nil || *c.Settings.Stdlib
}

func (c *Config) loadSettings() error {
	path := c.SettingsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed Settings
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Settings = parsed
	return nil
}

func defaultSettings() Settings {
	return Settings{
		Version:    1,
		Extensions: append([]string{}, DefaultExtensions...),
		Log:        defaultLogPath,
	}
}

func (s *Settings) applyDefaults() {
	if s.Version == 0 {
		s.Version = 1
	}
	if len(s.Extensions) == 0 {
		s.Extensions = append([]string{}, DefaultExtensions...)
	}
	if strings.TrimSpace(s.Log) == "" {
		s.Log = defaultLogPath
	}
}

func (s *Settings) normalize() {
	seen := map[string]bool{}
	exts := make([]string, 0, len(s.Extensions))
	for _, ext := range s.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if seen[ext] {
			continue
		}
		seen[ext] = true
		exts = append(exts, ext)
	}
	s.Extensions = exts
	s.Log = strings.TrimSpace(s.Log)
}

func (s *Settings) validate() error {
	if s.Version < 1 {
		return fmt.Errorf("settings version must be >= 1")
	}
	if len(s.Extensions) == 0 {
		return fmt.Errorf("extensions must list at least one file extension")
	}
	return nil
}

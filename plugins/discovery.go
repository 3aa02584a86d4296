package plugins

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kingrea/sqeezz/internal/config"
)

// UnitBase translates a dotted name into a path under anchor, without an
// extension: "a.b.c" becomes <anchor>/a/b/c.
func UnitBase(anchor, name string) (string, error) {
	segments := strings.Split(name, ".")
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, anchor)
	for _, segment := range segments {
		if !validSegment(segment) {
			return "", fmt.Errorf("plugin: invalid module name %q", name)
		}
		parts = append(parts, segment)
	}
	return filepath.Join(parts...), nil
}

// Candidates lists the files name may live in, in search order.
func Candidates(anchor, name string, exts []string) ([]string, error) {
	base, err := UnitBase(anchor, name)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(exts))
	for _, ext := range exts {
		paths = append(paths, base+ext)
	}
	return paths, nil
}

// Discover walks anchor and returns the dotted names of every unit file with
// one of exts. Hidden directories, Go test files and the settings file are
// skipped, as are files whose path cannot be expressed as a dotted name.
func Discover(anchor string, exts []string) ([]string, error) {
	trimmed := strings.TrimSpace(anchor)
	if trimmed == "" {
		return nil, nil
	}
	wanted := map[string]bool{}
	for _, ext := range exts {
		wanted[strings.ToLower(ext)] = true
	}
	seen := map[string]bool{}
	err := filepath.WalkDir(trimmed, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == trimmed {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if path != trimmed && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !wanted[ext] || strings.HasSuffix(name, "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(trimmed, path)
		if err != nil || rel == config.SettingsFile {
			return nil
		}
		stem := strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel))
		segments := strings.Split(stem, "/")
		for _, segment := range segments {
			if !validSegment(segment) || strings.Contains(segment, ".") {
				return nil
			}
		}
		seen[strings.Join(segments, ".")] = true
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("plugin: scan %s: %w", trimmed, err)
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func validSegment(segment string) bool {
	if segment == "" || segment == "." || segment == ".." {
		return false
	}
	return !strings.ContainsAny(segment, `/\:`)
}

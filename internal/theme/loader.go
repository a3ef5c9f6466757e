package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader finds themes by name or path.
type Loader struct {
	ConfigDir string
	SystemDir string
	// Custom holds themes defined in the config file.
	Custom map[string]*Theme
}

// NewLoader creates a Loader with the standard search directories.
func NewLoader(custom map[string]*Theme) *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "circlemark", "themes"),
		SystemDir: "/usr/share/circlemark/themes",
		Custom:    custom,
	}
}

// Load resolves name in order: an existing file path, a theme from the
// config file, a built-in, then <name>.theme in ConfigDir and SystemDir.
// An empty name is the default theme.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if _, err := os.Stat(name); err == nil {
		return parseFile(name)
	}
	if t, ok := l.Custom[name]; ok && t != nil {
		return t.Clone(), nil
	}
	if t, ok := Builtin(name); ok {
		return t, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return parseFile(path)
		}
	}
	return nil, fmt.Errorf("theme '%s' not found", name)
}

func parseFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

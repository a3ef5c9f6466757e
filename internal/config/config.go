package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/circlemark/internal/theme"
)

// DefaultOutput is the save target when none is configured.
const DefaultOutput = "annotated.png"

// Notify holds desktop notification switches.
type Notify struct {
	Save     bool
	Copy     bool
	Capacity bool
}

// Dialog holds native dialog settings.
type Dialog struct {
	// Modal shows the capacity notice as a blocking dialog.
	Modal bool
}

// Config holds the application configuration.
type Config struct {
	Output        string
	SaveDir       string
	Theme         string
	RemovalPolicy string
	Seed          int64
	Notify        Notify
	Dialog        Dialog
	Themes        map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Output:        DefaultOutput,
		Theme:         "", // empty lets the environment and default apply
		RemovalPolicy: "coexist",
		Dialog:        Dialog{Modal: true},
		Themes:        make(map[string]*theme.Theme),
	}
}

// OutputPath joins Output onto SaveDir unless Output is already absolute.
func (c *Config) OutputPath() string {
	out := c.Output
	if out == "" {
		out = DefaultOutput
	}
	if c.SaveDir == "" || filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(c.SaveDir, out)
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "output = %s\n", c.Output)
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	fmt.Fprintf(&sb, "removal_policy = %s\n", c.RemovalPolicy)
	if c.Seed != 0 {
		fmt.Fprintf(&sb, "seed = %d\n", c.Seed)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "capacity = %v\n", c.Notify.Capacity)
	sb.WriteString("\n")

	sb.WriteString("[dialog]\n")
	fmt.Fprintf(&sb, "modal = %v\n", c.Dialog.Modal)
	sb.WriteString("\n")

	// sorted for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range t.Fields() {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, theme.FormatColor(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

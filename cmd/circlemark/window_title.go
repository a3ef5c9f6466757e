package main

import (
	"fmt"
	"path/filepath"
	"strings"
)

type titleOptions struct {
	File   string
	Output string
}

// windowTitle builds the OS window title: program, source and save target.
func windowTitle(opts titleOptions) string {
	parts := []string{"circlemark"}

	if file := strings.TrimSpace(opts.File); file != "" {
		parts = append(parts, filepath.Base(file))
	}
	if out := strings.TrimSpace(opts.Output); out != "" {
		parts = append(parts, fmt.Sprintf("saves to %s", filepath.Base(out)))
	}
	if v := strings.TrimSpace(version); v != "" && v != "dev" {
		parts = append(parts, "v"+v)
	}
	return strings.Join(parts, " - ")
}

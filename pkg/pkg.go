//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// version is the semantic version of the plume module embedded at build time.
// It is printed by the CLI when users invoke the version subcommand.
//
//go:embed VERSION
var version string

const (
	// Name is the canonical command and module identifier used across the
	// project. For example, it appears in help text and default config paths.
	Name = "plume"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "Interpreter for the plume expression language"
	// PathEnv names the environment variable listing directories searched
	// for scripts.
	PathEnv = "PLUME_PATH"
	// Ext is the conventional file extension of plume scripts.
	Ext = ".plume"
)

// Version returns the module version without surrounding whitespace.
func Version() string { return strings.TrimSpace(version) }

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}

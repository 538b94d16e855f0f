//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// Version is the semantic version of the bsn module, read at build time from
// the embedded VERSION file with surrounding whitespace trimmed.
var Version = strings.TrimSpace(version)

//go:embed VERSION
var version string

const (
	// Name is the canonical command and module identifier used across the
	// project. For example, it appears in help text and default config paths.
	Name = "bsn"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "Declarative entity scene notation: parser, resolver, and spawner"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}

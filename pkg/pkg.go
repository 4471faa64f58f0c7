//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// Version is the semantic version of calc, embedded at build time.
//
//go:embed VERSION
var version string

// Version returns the embedded version with surrounding whitespace removed.
func Version() string {
	return strings.TrimSpace(version)
}

const (
	// Name is the command name shown in help output and used to locate the
	// configuration directory.
	Name = "calc"
	// Description is the one-line summary shown in help output.
	Description = "Evaluate arithmetic expressions"
)

// AuthorInfo identifies an author.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}

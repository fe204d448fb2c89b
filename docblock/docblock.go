// Package docblock declares the minimal interface the core needs from a
// file's parsed docblock. The parser that produces these is an external
// collaborator (spec §1); the core only ever queries them through this
// interface.
package docblock

// Docblock is opaque to the resolution core beyond these three queries.
type Docblock interface {
	// ProvidesModule returns the name declared by an `@providesModule`-style
	// pragma, if any.
	ProvidesModule() (name string, ok bool)
	// IsFlow reports whether the docblock declares the language's type
	// pragma (used by file introduction to decide InfoHeap.Checked, §4.9).
	IsFlow() bool
	// IsDeclarationFile reports whether the docblock marks this file as
	// declarations-only (also feeds InfoHeap.Checked for unparsed files).
	IsDeclarationFile() bool
}

// None is a Docblock with no declarations, useful as a zero value for
// files with no parsed docblock (e.g. resource files).
var None Docblock = none{}

type none struct{}

func (none) ProvidesModule() (string, bool) { return "", false }
func (none) IsFlow() bool                   { return false }
func (none) IsDeclarationFile() bool        { return false }

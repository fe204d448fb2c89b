// Package filekey defines the identifiers the rest of the module-resolution
// core use to name files and the modules they provide.
package filekey

import "fmt"

// Kind tags the flavor of a FileKey.
type Kind uint8

const (
	// Builtins is the synthetic file holding the language's built-in
	// declarations. It has no path.
	Builtins Kind = iota
	// SourceFile is an ordinary checked source file.
	SourceFile
	// LibFile is a declaration-only library file, never itself checked
	// against the inferred types of its contents.
	LibFile
	// JSONFile is a JSON resource that can be `require`d for its parsed
	// value.
	JSONFile
	// ResourceFile is any other asset file reachable by reference (e.g.
	// images, stylesheets) that resolves but is never parsed.
	ResourceFile
)

func (k Kind) String() string {
	switch k {
	case Builtins:
		return "Builtins"
	case SourceFile:
		return "SourceFile"
	case LibFile:
		return "LibFile"
	case JSONFile:
		return "JsonFile"
	case ResourceFile:
		return "ResourceFile"
	default:
		return "Unknown"
	}
}

// FileKey is a discriminated identifier for a file known to the checker.
// Equality is by (Kind, Path); the zero value is the Builtins key.
type FileKey struct {
	Kind Kind
	Path string
}

// Builtin returns the singleton Builtins key.
func Builtin() FileKey { return FileKey{Kind: Builtins} }

// Source constructs a SourceFile key.
func Source(path string) FileKey { return FileKey{Kind: SourceFile, Path: path} }

// Lib constructs a LibFile key.
func Lib(path string) FileKey { return FileKey{Kind: LibFile, Path: path} }

// JSON constructs a JSONFile key.
func JSON(path string) FileKey { return FileKey{Kind: JSONFile, Path: path} }

// Resource constructs a ResourceFile key.
func Resource(path string) FileKey { return FileKey{Kind: ResourceFile, Path: path} }

// String renders a stable representation for logging and map keys.
func (k FileKey) String() string {
	if k.Kind == Builtins {
		return "Builtins"
	}
	return fmt.Sprintf("%s(%s)", k.Kind, k.Path)
}

// IsDeclaration reports whether the file's path carries the configured
// declaration-file extension (e.g. ".js.flow"). Callers supply the
// extension because it is a configuration value (spec §6), not a core
// constant.
func (k FileKey) IsDeclaration(declExt string) bool {
	if declExt == "" {
		return false
	}
	return len(k.Path) >= len(declExt) && k.Path[len(k.Path)-len(declExt):] == declExt
}

// ModuleKind discriminates the two ModuleName flavors.
type ModuleKind uint8

const (
	// ByString names a module by flat namespace name (Haste-style).
	ByString ModuleKind = iota
	// ByFile names a module eponymously, by the file that defines it.
	ByFile
)

// ModuleName is a tagged variant identifying a module either by a flat
// string name or by the file that eponymously provides it.
type ModuleName struct {
	Kind ModuleKind
	Str  string
	File FileKey
}

// NewByString constructs a flat-namespace module name.
func NewByString(name string) ModuleName {
	return ModuleName{Kind: ByString, Str: name}
}

// NewByFile constructs an eponymous module name for the given file.
func NewByFile(fk FileKey) ModuleName {
	return ModuleName{Kind: ByFile, File: fk}
}

// String renders a stable string form, suitable for logging and use as a
// map key in contexts that need a comparable scalar.
func (m ModuleName) String() string {
	switch m.Kind {
	case ByString:
		return "ByString(" + m.Str + ")"
	case ByFile:
		return "ByFile(" + m.File.String() + ")"
	default:
		return "<invalid ModuleName>"
	}
}

// Equal reports structural equality between two module names.
func (m ModuleName) Equal(o ModuleName) bool {
	if m.Kind != o.Kind {
		return false
	}
	if m.Kind == ByString {
		return m.Str == o.Str
	}
	return m.File == o.File
}

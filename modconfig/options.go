// Package modconfig defines the engine-configuration values consumed by
// the module-resolution core (spec §6) and an optional TOML loader for
// them, in the teacher's tomlMapper/raw-struct-then-translate idiom
// (golang-dep/toml.go).
package modconfig

import "regexp"

// ModuleSystem selects which pluggable resolver/election policy is active.
type ModuleSystem uint8

const (
	// Path mimics Node-style filesystem-walking import resolution.
	Path ModuleSystem = iota
	// Flat is a Haste-style flat namespace keyed by providesModule/reducer
	// names, with mocks and an external-resolver hook.
	Flat
)

// Mapper is a single (regex, template) name-candidate rewrite rule.
type Mapper struct {
	Pattern  *regexp.Regexp
	Template string
}

// Options carries every configuration value enumerated in spec §6. Loading
// these from a file is the caller's concern (CLI/config parsing is an
// external collaborator per §1); this struct is the shape every resolver
// and mapper in the core is parameterized by.
type Options struct {
	ModuleSystem ModuleSystem

	// ModuleNameMappers rewrite raw references before resolution (§4.2).
	ModuleNameMappers []Mapper

	// ModuleResolver is an optional path to an external resolver binary
	// (§4.5). Empty means no external resolver is used.
	ModuleResolver string

	// HasteUseNameReducers enables the Flat resolver's regex-based name
	// derivation from file path (§4.6).
	HasteUseNameReducers bool
	HasteNameReducers    []Mapper
	HastePathsWhitelist  []*regexp.Regexp
	HastePathsBlacklist  []*regexp.Regexp

	// NodeResolverDirnames lists node_modules-equivalent directory names to
	// try, in order, during the Path resolver's ancestor walk (§4.4 step N).
	NodeResolverDirnames []string

	// ModuleFileExts are the extensions tried, in order, when a bare
	// reference doesn't already carry the source extension (§4.4 step R).
	ModuleFileExts []string

	// Root is the project root, substituted for the <<PROJECT_ROOT>> token
	// in mapper templates and path regexes (§6 Token expansion).
	Root string

	// SourceExt is the language's recognized source extension (e.g. ".js").
	SourceExt string
	// DeclExt is the declaration-file extension (e.g. ".js.flow"); files
	// whose path ends in DeclExt shadow same-basename implementations (§3 I3).
	DeclExt string

	// IsIgnored reports whether a path should never be treated as present,
	// even if it exists on disk.
	IsIgnored func(path string) bool
	// IsIncluded reports whether a manifest path outside Root should still
	// be treated as in-project for error classification (§4.4b).
	IsIncluded func(path string) bool
}

// ProjectRootToken is the sentinel substituted for Root in mapper templates
// and path-regex configuration (§6).
const ProjectRootToken = "<<PROJECT_ROOT>>"

// DefaultOptions returns an Options with the conventional Node-ish defaults
// the teacher's own examples assume (node_modules, .js/.json extensions).
func DefaultOptions(root string) Options {
	return Options{
		ModuleSystem:         Path,
		NodeResolverDirnames: []string{"node_modules"},
		ModuleFileExts:       []string{".js", ".json"},
		Root:                 root,
		SourceExt:            ".js",
		DeclExt:              ".js.flow",
		IsIgnored:            func(string) bool { return false },
		IsIncluded:           func(string) bool { return false },
	}
}

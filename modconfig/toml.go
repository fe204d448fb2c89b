package modconfig

import (
	"regexp"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// FileName is the conventional project-root config file name, mirroring
// golang-dep's Gopkg.toml.
const FileName = ".modresolve.toml"

// rawOptions is the TOML-decodable shape; it is translated into Options
// after load, mirroring golang-dep/toml.go's raw-struct-then-translate
// pattern (rawManifest -> Manifest).
type rawOptions struct {
	ModuleSystem         string   `toml:"module_system"`
	ModuleNameMappers    []string `toml:"module_name_mappers"` // "pattern -> template" pairs
	ModuleResolver       string   `toml:"module_resolver"`
	HasteUseNameReducers bool     `toml:"haste_use_name_reducers"`
	HasteNameReducers    []string `toml:"haste_name_reducers"`
	HastePathsWhitelist  []string `toml:"haste_paths_whitelist"`
	HastePathsBlacklist  []string `toml:"haste_paths_blacklist"`
	NodeResolverDirnames []string `toml:"node_resolver_dirnames"`
	ModuleFileExts       []string `toml:"module_file_exts"`
	SourceExt            string   `toml:"source_ext"`
	DeclExt              string   `toml:"decl_ext"`
}

// LoadFile reads and translates a config file at path into an Options,
// starting from DefaultOptions(root) and overlaying whatever the file sets.
// A missing file is not an error; the caller checks existence first,
// mirroring how golang-dep treats an absent Gopkg.toml as "use defaults".
func LoadFile(path, root string) (Options, error) {
	tree, err := toml.LoadFile(path)
	if err != nil {
		return Options{}, errors.Wrapf(err, "unable to load config file %s", path)
	}

	var raw rawOptions
	if err := tree.Unmarshal(&raw); err != nil {
		return Options{}, errors.Wrapf(err, "unable to decode config file %s", path)
	}

	opts := DefaultOptions(root)
	if raw.ModuleSystem == "haste" || raw.ModuleSystem == "flat" {
		opts.ModuleSystem = Flat
	}
	opts.ModuleResolver = raw.ModuleResolver
	opts.HasteUseNameReducers = raw.HasteUseNameReducers

	var translateErr error
	toMappers := func(pairs []string) []Mapper {
		ms := make([]Mapper, 0, len(pairs))
		for _, p := range pairs {
			m, err := parseMapperLine(p)
			if err != nil {
				translateErr = err
				continue
			}
			ms = append(ms, m)
		}
		return ms
	}
	opts.ModuleNameMappers = toMappers(raw.ModuleNameMappers)
	opts.HasteNameReducers = toMappers(raw.HasteNameReducers)
	if translateErr != nil {
		return Options{}, translateErr
	}

	opts.HastePathsWhitelist, err = compileAll(raw.HastePathsWhitelist, root)
	if err != nil {
		return Options{}, err
	}
	opts.HastePathsBlacklist, err = compileAll(raw.HastePathsBlacklist, root)
	if err != nil {
		return Options{}, err
	}

	if len(raw.NodeResolverDirnames) > 0 {
		opts.NodeResolverDirnames = raw.NodeResolverDirnames
	}
	if len(raw.ModuleFileExts) > 0 {
		opts.ModuleFileExts = raw.ModuleFileExts
	}
	if raw.SourceExt != "" {
		opts.SourceExt = raw.SourceExt
	}
	if raw.DeclExt != "" {
		opts.DeclExt = raw.DeclExt
	}

	return opts, nil
}

// parseMapperLine parses a "pattern -> template" config line into a Mapper,
// compiling the regex eagerly so configuration errors surface at load time
// rather than on first use.
func parseMapperLine(line string) (Mapper, error) {
	const sep = " -> "
	idx := indexOf(line, sep)
	if idx < 0 {
		return Mapper{}, errors.Errorf("malformed mapper line %q, want \"pattern -> template\"", line)
	}
	pattern, template := line[:idx], line[idx+len(sep):]
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Mapper{}, errors.Wrapf(err, "bad regex in mapper line %q", line)
	}
	return Mapper{Pattern: re, Template: template}, nil
}

func compileAll(patterns []string, root string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		expanded := ExpandProjectRoot(p, root)
		re, err := regexp.Compile(expanded)
		if err != nil {
			return nil, errors.Wrapf(err, "bad regex %q", p)
		}
		out = append(out, re)
	}
	return out, nil
}

// ExpandProjectRoot replaces every occurrence of ProjectRootToken in s with
// root via literal split-and-join, so backreference-like text inside root
// (e.g. "\1") is never re-interpreted as part of a regex or template (§6
// Token expansion).
func ExpandProjectRoot(s, root string) string {
	return joinLiteral(splitLiteral(s, ProjectRootToken), root)
}

func splitLiteral(s, sep string) []string {
	var parts []string
	for {
		i := indexOf(s, sep)
		if i < 0 {
			parts = append(parts, s)
			return parts
		}
		parts = append(parts, s[:i])
		s = s[i+len(sep):]
	}
}

func joinLiteral(parts []string, sep string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += sep + p
	}
	return out
}

func indexOf(s, substr string) int {
	n, m := len(s), len(substr)
	if m == 0 {
		return 0
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == substr {
			return i
		}
	}
	return -1
}

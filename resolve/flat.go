package resolve

import (
	"path/filepath"
	"strings"

	"github.com/kof/flow-modules/candidate"
	"github.com/kof/flow-modules/docblock"
	"github.com/kof/flow-modules/filekey"
	"github.com/kof/flow-modules/fsprobe"
	"github.com/kof/flow-modules/modconfig"
	"github.com/kof/flow-modules/pkgmanifest"
)

// mocksMarker is the directory component that demotes a file to a mock
// under Flat/Haste election (spec §4.6, §4.7).
const mocksMarker = "/__mocks__/"

// FlatResolver implements the Haste-style flat-namespace module system
// (spec §4.6). Grounded on golang-dep/deducers.go's per-host regex-driven
// name derivation and golang-dep/deduce.go's lazily-sequenced candidate
// trial (try external, then built-in, then a final synthetic fallback).
type FlatResolver struct {
	opts       modconfig.Options
	path       *PathResolver
	manifests  *pkgmanifest.Store
	candidates *candidate.Generator
	external   *ExternalResolver // nil if none configured
}

var _ System = (*FlatResolver)(nil)

// NewFlatResolver constructs a FlatResolver. external may be nil.
func NewFlatResolver(opts modconfig.Options, probe *fsprobe.Probe, manifests *pkgmanifest.Store, candidates *candidate.Generator, external *ExternalResolver) *FlatResolver {
	return &FlatResolver{
		opts:       opts,
		path:       NewPathResolver(opts, probe, manifests),
		manifests:  manifests,
		candidates: candidates,
		external:   external,
	}
}

// ExportedModule implements spec §4.6's exported-module precedence: mocks,
// then name reducers (if enabled and whitelisted/not blacklisted), then
// providesModule, then the eponymous fallback. Lib/resource/JSON files
// always get ByFile regardless of the above, per the spec.
func (f *FlatResolver) ExportedModule(fk filekey.FileKey, db docblock.Docblock) filekey.ModuleName {
	if fk.Kind == filekey.LibFile || fk.Kind == filekey.JSONFile || fk.Kind == filekey.ResourceFile {
		return filekey.NewByFile(fk)
	}

	normalized := filepath.ToSlash(fk.Path)
	if isMock(normalized) {
		return filekey.NewByString(mockShortName(normalized))
	}

	if f.opts.HasteUseNameReducers && f.matchesHasteLists(normalized) {
		if name, ok := f.reduceName(fk.Path); ok {
			return filekey.NewByString(name)
		}
	}

	if db != nil {
		if name, ok := db.ProvidesModule(); ok {
			return filekey.NewByString(name)
		}
	}

	return filekey.NewByFile(fk)
}

func isMock(normalizedPath string) bool {
	return strings.Contains("/"+normalizedPath+"/", mocksMarker) || strings.HasPrefix(normalizedPath, "__mocks__/")
}

func mockShortName(normalizedPath string) string {
	base := normalizedPath
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.Index(base, "."); idx >= 0 {
		base = base[:idx]
	}
	return base
}

func (f *FlatResolver) matchesHasteLists(normalizedPath string) bool {
	matched := len(f.opts.HastePathsWhitelist) == 0
	for _, re := range f.opts.HastePathsWhitelist {
		if re.MatchString(normalizedPath) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	for _, re := range f.opts.HastePathsBlacklist {
		if re.MatchString(normalizedPath) {
			return false
		}
	}
	return true
}

func (f *FlatResolver) reduceName(path string) (string, bool) {
	name := path
	for _, m := range f.opts.HasteNameReducers {
		if !m.Pattern.MatchString(name) {
			continue
		}
		rewritten := m.Pattern.ReplaceAllString(name, m.Template)
		if rewritten != name {
			name = rewritten
		}
	}
	if name == path {
		return "", false
	}
	return name, true
}

// Resolve implements spec §4.6's resolution order: it is NOT case
// insensitive like Path; it picks the first generated candidate (not the
// first that resolves) and tries, in order: the external resolver, the
// built-in Path resolution, and package-expansion. A reference that
// matches nothing still resolves, to a dangling ByString of the chosen
// candidate — Flat resolution never fails.
func (f *FlatResolver) Resolve(importer filekey.FileKey, reference string, acc *Accumulator) (filekey.ModuleName, bool) {
	candidates := f.candidates.Candidates(reference)
	chosen := candidates[0]

	if f.external != nil {
		if fk, ok, fatal := f.external.Ask(importer, chosen); fatal != nil {
			acc.RecordError(fatal)
			return filekey.ModuleName{}, false
		} else if ok {
			return filekey.NewByFile(fk), true
		}
	}

	if name, ok := f.path.Resolve(importer, chosen, acc); ok {
		return name, true
	}

	if fk, ok := f.resolvePackageExpansion(chosen, acc); ok {
		return filekey.NewByFile(fk), true
	}

	return filekey.NewByString(chosen), true
}

// resolvePackageExpansion implements spec §4.6's third fallback: if the
// reference splits as "pkg/rest", look up pkg's package directory in the
// manifest store and resolve "pkg-dir/rest" relatively via the Path
// resolver's step R.
func (f *FlatResolver) resolvePackageExpansion(reference string, acc *Accumulator) (filekey.FileKey, bool) {
	idx := strings.Index(reference, "/")
	if idx <= 0 {
		return filekey.FileKey{}, false
	}
	pkg, rest := reference[:idx], reference[idx+1:]
	dir, ok := f.manifests.GetPackageDirectory(pkg)
	if !ok {
		return filekey.FileKey{}, false
	}
	joined := filepath.Clean(filepath.Join(dir, rest))
	return f.path.resolveStepR(joined, acc)
}

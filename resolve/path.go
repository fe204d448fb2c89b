package resolve

import (
	"path/filepath"
	"strings"

	"github.com/kof/flow-modules/docblock"
	"github.com/kof/flow-modules/filekey"
	"github.com/kof/flow-modules/fsprobe"
	"github.com/kof/flow-modules/modconfig"
	"github.com/kof/flow-modules/pkgmanifest"
)

// PathResolver mimics Node-style filesystem-walking import resolution
// (spec §4.4). Grounded on golang-dep/deduce.go's relative/root-anchored
// path deduction and the manifest "main" lookup in golang-dep/manifest.go.
type PathResolver struct {
	opts      modconfig.Options
	probe     *fsprobe.Probe
	manifests *pkgmanifest.Store
}

var _ System = (*PathResolver)(nil)

// NewPathResolver constructs a PathResolver over the given probe and
// manifest store, parameterized by opts.
func NewPathResolver(opts modconfig.Options, probe *fsprobe.Probe, manifests *pkgmanifest.Store) *PathResolver {
	return &PathResolver{opts: opts, probe: probe, manifests: manifests}
}

// ExportedModule is trivial under Path policy: every file provides only
// its eponymous module. Claims beyond this (e.g. shadow-chopped names for
// declaration files) are computed by modcommit.Introduce, which knows
// about both resolvers' files uniformly.
func (p *PathResolver) ExportedModule(fk filekey.FileKey, _ docblock.Docblock) filekey.ModuleName {
	return filekey.NewByFile(fk)
}

// Resolve implements spec §4.4: relative/absolute references go through
// step R directly; bare references walk ancestor directories looking for
// a node-modules-equivalent container (step N).
func (p *PathResolver) Resolve(importer filekey.FileKey, reference string, acc *Accumulator) (filekey.ModuleName, bool) {
	if isRelativeOrAbsolute(reference) {
		joined := p.joinRelative(importer, reference)
		if fk, ok := p.resolveStepR(joined, acc); ok {
			return filekey.NewByFile(fk), true
		}
		return filekey.ModuleName{}, false
	}
	if fk, ok := p.resolveStepN(importer, reference, acc); ok {
		return filekey.NewByFile(fk), true
	}
	return filekey.ModuleName{}, false
}

func isRelativeOrAbsolute(reference string) bool {
	return filepath.IsAbs(reference) || strings.HasPrefix(reference, "./") || strings.HasPrefix(reference, "../")
}

func (p *PathResolver) joinRelative(importer filekey.FileKey, reference string) string {
	if filepath.IsAbs(reference) {
		return filepath.Clean(reference)
	}
	return filepath.Clean(filepath.Join(filepath.Dir(importer.Path), reference))
}

// resolveStepR implements spec §4.4 step R.
func (p *PathResolver) resolveStepR(joined string, acc *Accumulator) (filekey.FileKey, bool) {
	if strings.HasSuffix(joined, p.opts.SourceExt) {
		if p.pathPresent(joined, acc) {
			return filekey.Source(joined), true
		}
		return filekey.FileKey{}, false
	}

	for _, ext := range p.opts.ModuleFileExts {
		cand := joined + ext
		if p.pathPresent(cand, acc) {
			return filekey.Source(cand), true
		}
	}

	if fk, ok := p.resolveManifestMain(filepath.Join(joined, "package.json"), acc); ok {
		return fk, true
	}

	for _, ext := range p.opts.ModuleFileExts {
		cand := filepath.Join(joined, "index"+ext)
		if p.pathPresent(cand, acc) {
			return filekey.Source(cand), true
		}
	}

	return filekey.FileKey{}, false
}

// resolveStepN implements spec §4.4 step N: ascend from the importer's
// directory to the filesystem root, trying each configured node-modules
// dirname at each ancestor that contains one.
func (p *PathResolver) resolveStepN(importer filekey.FileKey, reference string, acc *Accumulator) (filekey.FileKey, bool) {
	dir := filepath.Dir(importer.Path)
	for {
		for _, dirname := range p.opts.NodeResolverDirnames {
			container := filepath.Join(dir, dirname)
			if !p.probe.DirExists(container) {
				continue
			}
			joined := filepath.Clean(filepath.Join(container, reference))
			if fk, ok := p.resolveStepR(joined, acc); ok {
				return fk, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return filekey.FileKey{}, false
		}
		dir = parent
	}
}

// pathPresent implements the shadow check of spec §4.4a: P is present if
// either P or P+DeclExt exists (non-ignored, not a directory). Every
// probed path that did not exist is recorded as a phantom dependent.
func (p *PathResolver) pathPresent(path string, acc *Accumulator) bool {
	okPlain := p.fileExists(path)
	if !okPlain {
		acc.RecordPath(path)
	}
	declPath := path + p.opts.DeclExt
	okDecl := p.fileExists(declPath)
	if !okDecl {
		acc.RecordPath(declPath)
	}
	return okPlain || okDecl
}

func (p *PathResolver) fileExists(path string) bool {
	if p.opts.IsIgnored != nil && p.opts.IsIgnored(path) {
		return false
	}
	return p.probe.IsRegularFile(path)
}

// resolveManifestMain implements spec §4.4b: resolve a package manifest's
// declared "main" entry, trying a bare filename, each extension, and each
// extension under an "index" basename, in that order.
func (p *PathResolver) resolveManifestMain(manifestPath string, acc *Accumulator) (filekey.FileKey, bool) {
	resolvedManifest, err := fsprobe.ResolveSymlinks(manifestPath)
	if err != nil {
		// Missing or broken symlink: give up silently, matching "If M is
		// missing or ignored, give up."
		return filekey.FileKey{}, false
	}
	if p.opts.IsIgnored != nil && p.opts.IsIgnored(resolvedManifest) {
		return filekey.FileKey{}, false
	}

	outcome, ok := p.manifests.Get(manifestPath)
	if !ok {
		rel := relativeToRoot(manifestPath, p.opts.Root)
		if strings.HasPrefix(manifestPath, p.opts.Root) || (p.opts.IsIncluded != nil && p.opts.IsIncluded(manifestPath)) {
			acc.RecordError(&PackageHeapNotFoundError{RelativePath: rel})
		} else {
			acc.RecordError(&ModuleOutsideRootError{RelativePath: rel})
		}
		return filekey.FileKey{}, false
	}
	if outcome.Err || outcome.Manifest.Main == "" {
		return filekey.FileKey{}, false
	}

	mainPath := filepath.Clean(filepath.Join(filepath.Dir(manifestPath), outcome.Manifest.Main))

	if p.pathPresent(mainPath, acc) {
		return filekey.Source(mainPath), true
	}
	for _, ext := range p.opts.ModuleFileExts {
		cand := mainPath + ext
		if p.pathPresent(cand, acc) {
			return filekey.Source(cand), true
		}
	}
	for _, ext := range p.opts.ModuleFileExts {
		cand := filepath.Join(mainPath, "index"+ext)
		if p.pathPresent(cand, acc) {
			return filekey.Source(cand), true
		}
	}
	return filekey.FileKey{}, false
}

func relativeToRoot(path, root string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

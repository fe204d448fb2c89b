package resolve

import (
	"github.com/kof/flow-modules/docblock"
	"github.com/kof/flow-modules/filekey"
)

// System is the pluggable module-system trait of spec §9 Design notes:
// exported_module, imported_module (here Resolve), and choose_provider
// (implemented by the election package per policy and wired in by
// modcommit). Two concrete values exist: PathResolver and FlatResolver.
type System interface {
	// Resolve turns a raw reference, as written in importer, into a
	// ModuleName, recording phantom paths and structured errors into acc.
	// The second return is false for an unresolved reference under Path
	// policy (Flat policy never fails: an unresolved reference becomes a
	// dangling ByString name, per §4.6).
	Resolve(importer filekey.FileKey, reference string, acc *Accumulator) (filekey.ModuleName, bool)

	// ExportedModule computes the module name a file itself provides,
	// given its docblock (spec §4.6, and trivially ByFile(file) for Path).
	ExportedModule(fk filekey.FileKey, db docblock.Docblock) filekey.ModuleName
}

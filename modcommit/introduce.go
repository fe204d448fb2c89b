package modcommit

import (
	"github.com/kof/flow-modules/docblock"
	"github.com/kof/flow-modules/filekey"
	"github.com/kof/flow-modules/modindex"
	"github.com/kof/flow-modules/resolve"
)

// FileDocblock pairs a file with its parsed docblock (or docblock.None for
// unparsed files) and whether it was successfully parsed at all, driving
// InfoHeap.Checked per spec §4.9.
type FileDocblock struct {
	File     filekey.FileKey
	Parsed   bool
	Docblock docblock.Docblock
}

// Introducer wires a module System's ExportedModule against the shared
// AllProviders/InfoHeap indices to implement spec §4.9.
type Introducer struct {
	system       resolve.System
	allProviders *modindex.AllProviders
	info         *modindex.InfoHeap
	names        *modindex.NameIndex
	forceCheck   bool
}

// NewIntroducer constructs an Introducer. forceCheck mirrors a global
// "check everything" configuration flag (spec §4.9's `checked` rule).
func NewIntroducer(system resolve.System, allProviders *modindex.AllProviders, info *modindex.InfoHeap, names *modindex.NameIndex, forceCheck bool) *Introducer {
	return &Introducer{system: system, allProviders: allProviders, info: info, names: names, forceCheck: forceCheck}
}

// Introduce implements spec §4.9: for each file, compute its exported
// module name, write its InfoHeap entry, register both its named claim and
// (when distinct) its eponymous claim in AllProviders, and return the
// flattened dirty-module list to feed the next Commit. Each file is safe
// to process from its own goroutine: AllProviders shards writes by key
// internally, and every other touched index is per-file.
func (in *Introducer) Introduce(fds []FileDocblock) []DirtyModule {
	var dirty []DirtyModule
	for _, fd := range fds {
		dirty = append(dirty, in.introduceOne(fd)...)
	}
	return dirty
}

func (in *Introducer) introduceOne(fd FileDocblock) []DirtyModule {
	moduleName := in.system.ExportedModule(fd.File, fd.Docblock)
	eponymous := filekey.NewByFile(fd.File)

	checked := in.forceCheck
	if !checked {
		if fd.Parsed {
			checked = fd.Docblock != nil && fd.Docblock.IsFlow()
		} else {
			checked = fd.File.Kind == filekey.LibFile || (fd.Docblock != nil && fd.Docblock.IsDeclarationFile())
		}
	}

	in.info.AddInfo(fd.File, modindex.Info{
		ModuleName: moduleName,
		Checked:    checked,
		Parsed:     fd.Parsed,
	})

	in.allProviders.AddProvider(fd.File, moduleName)

	dirty := []DirtyModule{in.dirtyFor(moduleName)}

	if !eponymous.Equal(moduleName) {
		in.allProviders.AddProvider(fd.File, eponymous)
		dirty = append(dirty, in.dirtyFor(eponymous))
	}

	return dirty
}

func (in *Introducer) dirtyFor(module filekey.ModuleName) DirtyModule {
	if fk, ok := in.names.Get(module); ok {
		return DirtyModule{Module: module, Prev: fk, HasPrev: true}
	}
	return DirtyModule{Module: module, HasPrev: false}
}

// Retire implements the symmetric half of spec §4.9: each file's claims
// are removed from AllProviders and its InfoHeap entry dropped, and the
// retired file's named/eponymous modules are returned as dirty input with
// Prev set only when the retired file was itself the previously-elected
// provider (a module whose provider was someone else is left untouched by
// this file's retirement).
func (in *Introducer) Retire(fds []FileDocblock) []DirtyModule {
	var dirty []DirtyModule
	for _, fd := range fds {
		dirty = append(dirty, in.retireOne(fd)...)
	}
	return dirty
}

func (in *Introducer) retireOne(fd FileDocblock) []DirtyModule {
	info, ok := in.info.GetInfo(fd.File)
	if !ok {
		return nil
	}
	moduleName := info.ModuleName
	eponymous := filekey.NewByFile(fd.File)

	in.allProviders.RemoveProvider(fd.File, moduleName)
	if !eponymous.Equal(moduleName) {
		in.allProviders.RemoveProvider(fd.File, eponymous)
	}
	in.info.RemoveInfo(fd.File)

	dirty := []DirtyModule{in.dirtyIfCurrentProvider(moduleName, fd.File)}
	if !eponymous.Equal(moduleName) {
		dirty = append(dirty, in.dirtyIfCurrentProvider(eponymous, fd.File))
	}
	return dirty
}

func (in *Introducer) dirtyIfCurrentProvider(module filekey.ModuleName, retired filekey.FileKey) DirtyModule {
	if fk, ok := in.names.Get(module); ok && fk == retired {
		return DirtyModule{Module: module, Prev: fk, HasPrev: true}
	}
	return in.dirtyFor(module)
}

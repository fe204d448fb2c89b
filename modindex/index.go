// Package modindex implements the three persistent maps of spec §3:
// AllProvidersIndex (module -> claimant files), NameIndex (module ->
// elected provider), and InfoHeap (file -> checked/parsed info). Grounded
// on golang-dep/source_cache.go's singleSourceCacheMemory map+mutex
// pattern, generalized from "one mutex per whole cache" to per-map
// granularity since the three maps here have independent write patterns
// (§5: AllProvidersIndex is written during introduction, NameIndex only
// during commit).
package modindex

import (
	"sync"

	"github.com/kof/flow-modules/filekey"
)

// AllProviders is the reverse index module -> set of files that claim it
// (spec §3's AllProvidersIndex). Writes are sharded by file during
// introduction/retirement so no two workers touch the same key
// concurrently (§5); the mutex here guards the shared map structure
// itself, not cross-key invariants.
type AllProviders struct {
	mu   sync.RWMutex
	byMod map[string]map[filekey.FileKey]filekey.ModuleName // keyed by ModuleName.String() to keep FileKey as the set element
}

// NewAllProviders returns an empty AllProviders index.
func NewAllProviders() *AllProviders {
	return &AllProviders{byMod: make(map[string]map[filekey.FileKey]filekey.ModuleName)}
}

// AddProvider registers file as a claimant of module.
func (a *AllProviders) AddProvider(file filekey.FileKey, module filekey.ModuleName) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := module.String()
	set, ok := a.byMod[key]
	if !ok {
		set = make(map[filekey.FileKey]filekey.ModuleName)
		a.byMod[key] = set
	}
	set[file] = module
}

// RemoveProvider un-registers file as a claimant of module.
func (a *AllProviders) RemoveProvider(file filekey.FileKey, module filekey.ModuleName) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := module.String()
	set, ok := a.byMod[key]
	if !ok {
		return
	}
	delete(set, file)
	if len(set) == 0 {
		delete(a.byMod, key)
	}
}

// FindInAllProviders returns the current claimant set for module.
func (a *AllProviders) FindInAllProviders(module filekey.ModuleName) []filekey.FileKey {
	a.mu.RLock()
	defer a.mu.RUnlock()
	set, ok := a.byMod[module.String()]
	if !ok {
		return nil
	}
	out := make([]filekey.FileKey, 0, len(set))
	for fk := range set {
		out = append(out, fk)
	}
	return out
}

// NameIndex is the persistent "currently elected provider" map of spec §3,
// mutated only by the commit step (§4.8).
type NameIndex struct {
	mu  sync.RWMutex
	idx map[string]filekey.FileKey
}

// NewNameIndex returns an empty NameIndex.
func NewNameIndex() *NameIndex {
	return &NameIndex{idx: make(map[string]filekey.FileKey)}
}

// Get returns the elected provider of module, if any.
func (n *NameIndex) Get(module filekey.ModuleName) (filekey.FileKey, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	fk, ok := n.idx[module.String()]
	return fk, ok
}

// Replacement is one (module, new-provider) pair for RemoveAndReplace.
type Replacement struct {
	Module   filekey.ModuleName
	Provider filekey.FileKey
}

// RemoveAndReplace transactionally removes toRemove then applies
// toReplace, matching spec §4.8 step 3's ordering (removals always apply
// before replacements, so a module present in both is left with its new
// provider, never erased).
func (n *NameIndex) RemoveAndReplace(toRemove []filekey.ModuleName, toReplace []Replacement) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, m := range toRemove {
		delete(n.idx, m.String())
	}
	for _, r := range toReplace {
		n.idx[r.Module.String()] = r.Provider
	}
}

// Info is the per-file record of spec §3's InfoHeap.
type Info struct {
	ModuleName filekey.ModuleName
	Checked    bool
	Parsed     bool
}

// InfoHeap maps files to their Info record (spec §3).
type InfoHeap struct {
	mu   sync.RWMutex
	info map[filekey.FileKey]Info
}

// NewInfoHeap returns an empty InfoHeap.
func NewInfoHeap() *InfoHeap {
	return &InfoHeap{info: make(map[filekey.FileKey]Info)}
}

// AddInfo writes (or replaces, on re-introduction) file's Info record.
func (h *InfoHeap) AddInfo(file filekey.FileKey, info Info) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.info[file] = info
}

// RemoveInfo deletes file's Info record, on retirement.
func (h *InfoHeap) RemoveInfo(file filekey.FileKey) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.info, file)
}

// GetInfo returns file's Info record, if any.
func (h *InfoHeap) GetInfo(file filekey.FileKey) (Info, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	info, ok := h.info[file]
	return info, ok
}

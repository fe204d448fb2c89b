// Package pkgmanifest implements the package-manifest store (spec §4.3): a
// read-through view of parsed package-manifest files (package.json-style),
// keyed by manifest path, with a reverse package-name -> directory index.
// Grounded on golang-dep/manifest.go's raw-struct decode and
// golang-dep/gps/registry.go's on-demand, once-per-path load.
package pkgmanifest

import (
	"encoding/json"
	"io"
	"path/filepath"
	"sync"

	radix "github.com/armon/go-radix"
)

// Manifest is the parsed declarative record this core cares about: just
// the declared main entry point. Equality is structural (comparable via
// ==), used for change detection.
type Manifest struct {
	Main string // empty means "no main declared"
}

// Outcome is the store's per-path result: either a parsed Manifest or a
// parse failure, mirroring the spec's Ok(manifest) | Err(()) variant.
type Outcome struct {
	Manifest Manifest
	Err      bool
}

// Equal reports whether two outcomes represent the same observable state.
func (o Outcome) Equal(other Outcome) bool {
	if o.Err != other.Err {
		return false
	}
	if o.Err {
		return true // both are failures; failures carry no comparable payload
	}
	return o.Manifest == other.Manifest
}

// Store is the read-through manifest cache of spec §4.3, plus the reverse
// package-name -> directory index used by the Flat resolver's
// package-expansion fallback (§4.6).
type Store struct {
	mu       sync.RWMutex
	byPath   map[string]Outcome
	byPkgDir *radix.Tree // package name -> directory containing its manifest
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		byPath:   make(map[string]Outcome),
		byPkgDir: radix.New(),
	}
}

// Get returns the stored outcome for manifestPath and whether one exists.
func (s *Store) Get(manifestPath string) (Outcome, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.byPath[manifestPath]
	return o, ok
}

// Add parses r as a package manifest and records the outcome under
// manifestPath. If the manifest declares a package "name" field, its
// directory is indexed for GetPackageDirectory. Returns the recorded
// Outcome.
func (s *Store) Add(manifestPath string, r io.Reader) Outcome {
	var raw struct {
		Name string `json:"name"`
		Main string `json:"main"`
	}
	o := Outcome{}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		o.Err = true
	} else {
		o.Manifest = Manifest{Main: raw.Main}
	}

	s.mu.Lock()
	s.byPath[manifestPath] = o
	if !o.Err && raw.Name != "" {
		s.byPkgDir.Insert(raw.Name, filepath.Dir(manifestPath))
	}
	s.mu.Unlock()
	return o
}

// GetPackageDirectory returns the directory of the manifest that declared
// package name, if any has been observed by the store.
func (s *Store) GetPackageDirectory(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.byPkgDir.Get(name)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Incompatible implements the change-detection truth table of spec §4.3:
// true means dependents of the manifest must be rechecked.
//
//	old \ new   Ok(b)     Err
//	none        true      false
//	Err         true      false
//	Ok(a)       a != b    true
func Incompatible(old *Outcome, new Outcome) bool {
	if old == nil {
		return !new.Err
	}
	if old.Err {
		return !new.Err
	}
	// old is Ok(a)
	if new.Err {
		return true
	}
	return old.Manifest != new.Manifest
}

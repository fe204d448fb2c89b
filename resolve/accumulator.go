// Package resolve implements the pluggable per-file import resolvers (spec
// §4.4-§4.6): the Path resolver (filesystem-walking) and the Flat resolver
// (mock-aware, Haste-style flat namespace), plus the external-resolver
// subprocess channel (§4.5). Grounded on golang-dep/deduce.go's pluggable
// pathDeducer dispatch and golang-dep/source.go/maybe_source.go's
// lazily-evaluated candidate sequencing.
package resolve

import "sync"

// Accumulator is the per-import-resolution mutable record of spec §3: the
// set of filesystem paths probed but not found (phantom dependents) and
// the structured errors produced while resolving one file's imports. It is
// owned by a single worker resolving one file and is never shared (§5).
type Accumulator struct {
	mu     sync.Mutex
	paths  map[string]struct{}
	errors []error
}

// NewAccumulator returns an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{paths: make(map[string]struct{})}
}

// RecordPath appends a probed-but-missing path. Safe to call even though
// accumulators are single-owner; the lock exists solely so an Accumulator
// can be safely drained by a supervisor goroutine (e.g. for test
// assertions or logging) concurrently with its owner still writing late
// errors.
func (a *Accumulator) RecordPath(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.paths[path] = struct{}{}
}

// RecordError appends a structured error to surface to the user.
func (a *Accumulator) RecordError(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errors = append(a.errors, err)
}

// Paths returns the set of phantom dependents recorded so far.
func (a *Accumulator) Paths() map[string]struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]struct{}, len(a.paths))
	for p := range a.paths {
		out[p] = struct{}{}
	}
	return out
}

// Errors returns the errors recorded so far.
func (a *Accumulator) Errors() []error {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]error, len(a.errors))
	copy(out, a.errors)
	return out
}

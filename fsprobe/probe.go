// Package fsprobe implements the core's filesystem probe (spec §4.1):
// case-correct existence checks, a process-wide directory-listing cache,
// and symlink normalization. Grounded on golang-dep/gps/filesystem.go's
// filesystem-walking and golang-dep/internal/fs/fs.go's case-sensitivity
// detection.
package fsprobe

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Probe is the process-wide filesystem probe described in spec §4.1. It is
// not a package-level global: callers construct one and pass it by
// reference, so tests can instantiate fresh state (spec §9 Design notes).
type Probe struct {
	mu             sync.RWMutex
	dirCache       map[string]map[string]struct{} // dir -> exact-case basenames
	caseSensitive  bool
	caseChecked    bool
	caseSensitiveE error
}

// New returns a Probe with an empty directory cache. Case-sensitivity is
// determined lazily on first use (the teacher does this once at startup;
// here it is once per Probe instance, which in practice means once per
// typecheck pass since a fresh Probe is constructed per pass).
func New() *Probe {
	return &Probe{dirCache: make(map[string]map[string]struct{})}
}

// Clear empties the directory cache. The core calls this at the top of
// each typecheck pass (spec §4.1); entries are otherwise append-only
// within a pass.
func (p *Probe) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dirCache = make(map[string]map[string]struct{})
}

// CaseSensitive reports whether the filesystem underlying the current
// working directory is case sensitive, determined once by checking
// whether the cwd still "exists" when its path is upper-cased.
func (p *Probe) CaseSensitive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.caseChecked {
		return p.caseSensitive
	}
	p.caseChecked = true

	cwd, err := os.Getwd()
	if err != nil {
		// Treat the probe as unusable; default to the safe (case-sensitive)
		// assumption so we never silently paper over a real collision.
		p.caseSensitive = true
		p.caseSensitiveE = err
		return true
	}

	upper := strings.ToUpper(cwd)
	if upper == cwd {
		// The cwd has no case to flip (e.g. all-numeric); assume sensitive.
		p.caseSensitive = true
		return true
	}

	if _, err := os.Stat(upper); err != nil {
		p.caseSensitive = true
		return true
	}
	// The upper-cased path also exists: case-insensitive unless it's a
	// genuinely distinct directory (extremely unlikely, but check SameFile
	// defensively the way internal/fs.isCaseSensitiveFilesystem does).
	origInfo, errA := os.Stat(cwd)
	altInfo, errB := os.Stat(upper)
	if errA != nil || errB != nil {
		p.caseSensitive = true
		return true
	}
	p.caseSensitive = !os.SameFile(origInfo, altInfo)
	return p.caseSensitive
}

// listDir returns the cached exact-case basenames of dir's entries,
// populating the cache on first request. Unreadable directories yield the
// empty set, per spec §4.1 failure semantics.
func (p *Probe) listDir(dir string) map[string]struct{} {
	p.mu.RLock()
	names, ok := p.dirCache[dir]
	p.mu.RUnlock()
	if ok {
		return names
	}

	entries, err := os.ReadDir(dir)
	names = make(map[string]struct{})
	if err == nil {
		for _, e := range entries {
			names[e.Name()] = struct{}{}
		}
	}

	p.mu.Lock()
	p.dirCache[dir] = names
	p.mu.Unlock()
	return names
}

// Exists reports whether path exists, honoring exact-case matching on
// case-insensitive filesystems: it lists the parent directory once
// (cached) and checks membership by exact-case basename rather than
// trusting a plain stat, which on such filesystems would succeed for any
// case variant of an existing name.
func (p *Probe) Exists(path string) bool {
	if p.CaseSensitive() {
		_, err := os.Lstat(path)
		return err == nil
	}

	dir, base := filepath.Split(path)
	dir = filepath.Clean(dir)
	names := p.listDir(dir)
	_, ok := names[base]
	return ok
}

// DirExists reports whether path is an existing directory whose basename
// appears with exact case in its parent's cached listing.
func (p *Probe) DirExists(path string) bool {
	if !p.Exists(path) {
		return false
	}
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.IsDir()
}

// IsRegularFile reports whether path exists and is a regular file (not a
// directory, not ignored by the caller's predicate, and not errored).
func (p *Probe) IsRegularFile(path string) bool {
	if !p.Exists(path) {
		return false
	}
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.Mode().IsRegular()
}

// ResolveSymlinks normalizes path through all symlinks and returns an
// absolute path. Any OS error is wrapped with context, following the
// teacher's pervasive use of github.com/pkg/errors at filesystem
// boundaries.
func ResolveSymlinks(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "resolving absolute path for %s", path)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.Wrapf(err, "resolving symlinks for %s", abs)
	}
	return resolved, nil
}

package resolve

import "fmt"

// PackageHeapNotFoundError is emitted when a package manifest path inside
// the project root (or on the included list) has no entry in the
// PackageManifestStore at resolution time (spec §4.4b, §6).
type PackageHeapNotFoundError struct {
	RelativePath string
}

func (e *PackageHeapNotFoundError) Error() string {
	return fmt.Sprintf("package manifest not found in heap: %s", e.RelativePath)
}

// ModuleOutsideRootError is the same condition as PackageHeapNotFoundError,
// but for a manifest path outside the project root and not included.
type ModuleOutsideRootError struct {
	RelativePath string
}

func (e *ModuleOutsideRootError) Error() string {
	return fmt.Sprintf("module resolved outside project root: %s", e.RelativePath)
}

// DuplicateProviderError is attached to each losing file's error list
// during provider election (spec §4.7). It never changes the election
// outcome; it is purely informational to the user.
type DuplicateProviderError struct {
	Module   string
	Provider string
	Conflict string
}

func (e *DuplicateProviderError) Error() string {
	return fmt.Sprintf("duplicate provider for module %q: %s conflicts with elected provider %s", e.Module, e.Conflict, e.Provider)
}

// FatalResolutionError wraps an I/O failure talking to the external
// resolver (spec §4.5, §7). It is fatal to the whole typecheck pass and
// must not be treated as a per-import error.
type FatalResolutionError struct {
	Cause error
}

func (e *FatalResolutionError) Error() string {
	return fmt.Sprintf("module resolver fatal: %v", e.Cause)
}

func (e *FatalResolutionError) Unwrap() error { return e.Cause }

// InvalidResolutionError is a fatal error for a malformed external-resolver
// response shape (spec §4.5, §7).
type InvalidResolutionError struct {
	Detail string
}

func (e *InvalidResolutionError) Error() string {
	return fmt.Sprintf("invalid resolution from external resolver: %s", e.Detail)
}

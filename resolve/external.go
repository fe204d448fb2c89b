package resolve

import (
	"bufio"
	"encoding/json"
	"io"
	"os/exec"
	"sync"

	"github.com/pkg/errors"

	"github.com/kof/flow-modules/filekey"
)

// ExternalResolver is the optional long-lived child-process channel of
// spec §4.5: at most one process, started lazily on first use and never
// restarted, addressed over a request/response line-delimited JSON
// protocol. Grounded on golang-dep/cmd.go's monitoredCmd subprocess
// wrapper, adapted here for a persistent line-protocol child rather than
// a one-shot command.
type ExternalResolver struct {
	binary string

	mu      sync.Mutex // serializes write+flush+readline as a single critical section (§5)
	started bool
	startErr error
	cmd     *exec.Cmd
	in      *bufio.Writer
	out     *bufio.Reader
	rawIn   io.WriteCloser
}

// NewExternalResolver returns a channel that will lazily spawn binary the
// first time Ask is called.
func NewExternalResolver(binary string) *ExternalResolver {
	return &ExternalResolver{binary: binary}
}

// Ask sends one request and reads one response. The three-way return
// mirrors spec §4.5's wire semantics: (fileKey, true, nil) on a resolved
// path; (FileKey{}, false, nil) on "no opinion" or an unresolved/ignored
// result (fall through to the built-in resolver); (FileKey{}, false, err)
// on a fatal I/O or shape failure that must abort the whole pass.
func (e *ExternalResolver) Ask(importer filekey.FileKey, reference string) (filekey.FileKey, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ensureStarted(); err != nil {
		return filekey.FileKey{}, false, &FatalResolutionError{Cause: err}
	}

	req, err := json.Marshal([2]string{reference, importer.String()})
	if err != nil {
		return filekey.FileKey{}, false, &FatalResolutionError{Cause: err}
	}
	req = append(req, '\n')

	if _, err := e.in.Write(req); err != nil {
		return filekey.FileKey{}, false, &FatalResolutionError{Cause: errors.Wrap(err, "writing to external resolver")}
	}
	if err := e.in.Flush(); err != nil {
		return filekey.FileKey{}, false, &FatalResolutionError{Cause: errors.Wrap(err, "flushing to external resolver")}
	}

	line, err := e.out.ReadString('\n')
	if err != nil && line == "" {
		return filekey.FileKey{}, false, &FatalResolutionError{Cause: errors.Wrap(err, "reading from external resolver")}
	}

	var raw json.RawMessage
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return filekey.FileKey{}, false, &InvalidResolutionError{Detail: "malformed JSON line: " + err.Error()}
	}

	if string(raw) == "null" {
		return filekey.FileKey{}, false, nil // no opinion
	}

	var pair [2]json.RawMessage
	if err := json.Unmarshal(raw, &pair); err != nil {
		return filekey.FileKey{}, false, &InvalidResolutionError{Detail: "expected a 2-element array: " + err.Error()}
	}

	if string(pair[0]) != "null" {
		// Error element set: result discarded, fall through to built-in.
		return filekey.FileKey{}, false, nil
	}

	if string(pair[1]) == "null" {
		return filekey.FileKey{}, false, nil // unresolved
	}

	var resolved string
	if err := json.Unmarshal(pair[1], &resolved); err != nil {
		return filekey.FileKey{}, false, &InvalidResolutionError{Detail: "resolution element is not a string: " + err.Error()}
	}

	return filekey.Source(resolved), true, nil
}

// ensureStarted lazily spawns the child process exactly once. Must be
// called with e.mu held.
func (e *ExternalResolver) ensureStarted() error {
	if e.started {
		return e.startErr
	}
	e.started = true

	cmd := exec.Command(e.binary)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		e.startErr = errors.Wrap(err, "creating external resolver stdin pipe")
		return e.startErr
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		e.startErr = errors.Wrap(err, "creating external resolver stdout pipe")
		return e.startErr
	}
	// Close-on-exec is the default for pipes created via os/exec in Go, so
	// no explicit fcntl call is needed here; this comment records the
	// invariant spec §4.5 calls out, so a future refactor away from
	// exec.Cmd's pipes doesn't silently drop it.

	if err := cmd.Start(); err != nil {
		e.startErr = errors.Wrap(err, "starting external resolver")
		return e.startErr
	}

	e.cmd = cmd
	e.rawIn = stdin
	e.in = bufio.NewWriter(stdin)
	e.out = bufio.NewReader(stdout)
	return nil
}

// Close terminates the child process, if one was started.
func (e *ExternalResolver) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cmd == nil || e.cmd.Process == nil {
		return nil
	}
	_ = e.rawIn.Close()
	return e.cmd.Wait()
}

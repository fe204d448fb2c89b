package modpool

import (
	"context"
	"testing"

	"github.com/kof/flow-modules/docblock"
	"github.com/kof/flow-modules/filekey"
	"github.com/kof/flow-modules/modcommit"
	"github.com/kof/flow-modules/modindex"
	"github.com/kof/flow-modules/resolve"
)

type fixedSystem struct{ prefix string }

func (f fixedSystem) Resolve(importer filekey.FileKey, reference string, acc *resolve.Accumulator) (filekey.ModuleName, bool) {
	return filekey.NewByString(f.prefix + reference), true
}
func (f fixedSystem) ExportedModule(fk filekey.FileKey, _ docblock.Docblock) filekey.ModuleName {
	return filekey.NewByFile(fk)
}

func TestPoolIntroduceFanOut(t *testing.T) {
	ap := modindex.NewAllProviders()
	info := modindex.NewInfoHeap()
	names := modindex.NewNameIndex()
	in := modcommit.NewIntroducer(fixedSystem{}, ap, info, names, false)

	var fds []modcommit.FileDocblock
	for i := 0; i < 20; i++ {
		fds = append(fds, modcommit.FileDocblock{
			File:     filekey.Source(filepathFor(i)),
			Parsed:   true,
			Docblock: docblock.None,
		})
	}

	pool := New(4)
	dirty, err := pool.Introduce(context.Background(), in, fds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dirty) != 20 {
		t.Fatalf("expected 20 dirty modules (one per file, all eponymous), got %d", len(dirty))
	}
	for _, fd := range fds {
		if got := ap.FindInAllProviders(filekey.NewByFile(fd.File)); len(got) != 1 {
			t.Errorf("expected file %v registered as its own eponymous provider, got %v", fd.File, got)
		}
	}
}

func filepathFor(i int) string {
	return "/r/File" + string(rune('A'+i)) + ".js"
}

type erroringSystem struct{}

func (erroringSystem) Resolve(importer filekey.FileKey, reference string, acc *resolve.Accumulator) (filekey.ModuleName, bool) {
	acc.RecordError(&resolve.FatalResolutionError{})
	return filekey.ModuleName{}, false
}
func (erroringSystem) ExportedModule(fk filekey.FileKey, _ docblock.Docblock) filekey.ModuleName {
	return filekey.NewByFile(fk)
}

func TestPoolResolveCancelsOnFatal(t *testing.T) {
	jobs := []ResolutionJob{
		{Importer: filekey.Source("/r/A.js"), References: []string{"x"}},
		{Importer: filekey.Source("/r/B.js"), References: []string{"y"}},
	}
	pool := New(2)
	_, err := pool.Resolve(context.Background(), erroringSystem{}, jobs)
	if err == nil {
		t.Fatal("expected a fatal resolution error from a worker to fail the pool")
	}
}

func TestPoolResolveSucceeds(t *testing.T) {
	jobs := []ResolutionJob{
		{Importer: filekey.Source("/r/A.js"), References: []string{"x", "y"}},
	}
	pool := New(2)
	results, err := pool.Resolve(context.Background(), fixedSystem{prefix: "P:"}, jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || len(results[0].Names) != 2 {
		t.Fatalf("unexpected results: %+v", results)
	}
	if !results[0].Resolved[0] || !results[0].Resolved[1] {
		t.Errorf("expected both references to resolve, got %+v", results[0].Resolved)
	}
	if results[0].Names[0].Str != "P:x" {
		t.Errorf("got %v", results[0].Names[0])
	}
}

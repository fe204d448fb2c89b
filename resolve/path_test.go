package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kof/flow-modules/filekey"
	"github.com/kof/flow-modules/fsprobe"
	"github.com/kof/flow-modules/modconfig"
	"github.com/kof/flow-modules/pkgmanifest"
)

func newPathResolver(t *testing.T, root string) (*PathResolver, *fsprobe.Probe) {
	t.Helper()
	opts := modconfig.DefaultOptions(root)
	probe := fsprobe.New()
	manifests := pkgmanifest.New()
	return NewPathResolver(opts, probe, manifests), probe
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("// x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPathResolveRelativeFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "Bar.js"))
	importer := filekey.Source(filepath.Join(root, "a", "Foo.js"))
	writeFile(t, importer.Path)

	r, _ := newPathResolver(t, root)
	acc := NewAccumulator()
	name, ok := r.Resolve(importer, "./Bar.js", acc)
	if !ok {
		t.Fatal("expected resolution to succeed")
	}
	want := filekey.NewByFile(filekey.Source(filepath.Join(root, "a", "Bar.js")))
	if !name.Equal(want) {
		t.Errorf("got %v, want %v", name, want)
	}
}

func TestPathResolveExtensionAppend(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "Bar.js"))
	importer := filekey.Source(filepath.Join(root, "a", "Foo.js"))
	writeFile(t, importer.Path)

	r, _ := newPathResolver(t, root)
	acc := NewAccumulator()
	name, ok := r.Resolve(importer, "./Bar", acc)
	if !ok {
		t.Fatal("expected extension-appended resolution to succeed")
	}
	want := filekey.NewByFile(filekey.Source(filepath.Join(root, "a", "Bar.js")))
	if !name.Equal(want) {
		t.Errorf("got %v, want %v", name, want)
	}
}

func TestPathResolveIndexFallback(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "lib", "index.js"))
	importer := filekey.Source(filepath.Join(root, "a", "Foo.js"))
	writeFile(t, importer.Path)

	r, _ := newPathResolver(t, root)
	acc := NewAccumulator()
	name, ok := r.Resolve(importer, "./lib", acc)
	if !ok {
		t.Fatal("expected index.js fallback to resolve")
	}
	want := filekey.NewByFile(filekey.Source(filepath.Join(root, "a", "lib", "index.js")))
	if !name.Equal(want) {
		t.Errorf("got %v, want %v", name, want)
	}
}

func TestPathResolveMissingRecordsPhantom(t *testing.T) {
	root := t.TempDir()
	importer := filekey.Source(filepath.Join(root, "a", "Foo.js"))
	writeFile(t, importer.Path)

	r, _ := newPathResolver(t, root)
	acc := NewAccumulator()
	_, ok := r.Resolve(importer, "./Missing.js", acc)
	if ok {
		t.Fatal("expected resolution to fail for a nonexistent file")
	}
	if len(acc.Paths()) == 0 {
		t.Error("expected at least one phantom path to be recorded")
	}
}

func TestPathResolveNodeModulesWalk(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "node_modules", "widgets", "index.js"))
	importer := filekey.Source(filepath.Join(root, "src", "deep", "Foo.js"))
	writeFile(t, importer.Path)

	r, _ := newPathResolver(t, root)
	acc := NewAccumulator()
	name, ok := r.Resolve(importer, "widgets", acc)
	if !ok {
		t.Fatal("expected bare reference to walk up to node_modules")
	}
	want := filekey.NewByFile(filekey.Source(filepath.Join(root, "node_modules", "widgets", "index.js")))
	if !name.Equal(want) {
		t.Errorf("got %v, want %v", name, want)
	}
}

func TestPathResolveManifestMain(t *testing.T) {
	root := t.TempDir()
	pkgDir := filepath.Join(root, "node_modules", "widgets")
	writeFile(t, filepath.Join(pkgDir, "lib", "entry.js"))
	manifestPath := filepath.Join(pkgDir, "package.json")
	if err := os.WriteFile(manifestPath, []byte(`{"name":"widgets","main":"lib/entry.js"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	importer := filekey.Source(filepath.Join(root, "src", "Foo.js"))
	writeFile(t, importer.Path)

	opts := modconfig.DefaultOptions(root)
	probe := fsprobe.New()
	manifests := pkgmanifest.New()
	f, err := os.Open(manifestPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	manifests.Add(manifestPath, f)

	r := NewPathResolver(opts, probe, manifests)
	acc := NewAccumulator()
	name, ok := r.Resolve(importer, "widgets", acc)
	if !ok {
		t.Fatal("expected manifest main resolution to succeed")
	}
	want := filekey.NewByFile(filekey.Source(filepath.Join(pkgDir, "lib", "entry.js")))
	if !name.Equal(want) {
		t.Errorf("got %v, want %v", name, want)
	}
}

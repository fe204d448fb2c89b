package election

import (
	"testing"

	"github.com/kof/flow-modules/filekey"
)

const declExt = ".js.flow"

func noMock(filekey.FileKey) bool { return false }

func TestChooseForPathSingleton(t *testing.T) {
	errs := ErrorMap{}
	f := filekey.Source("/r/Foo.js")
	got := ChooseForPath(filekey.NewByFile(f), []filekey.FileKey{f}, declExt, errs)
	if got != f {
		t.Errorf("got %v, want %v", got, f)
	}
	if len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestChooseForPathDeclarationShadows(t *testing.T) {
	impl := filekey.Source("/r/Foo.js")
	decl := filekey.Source("/r/Foo.js.flow")
	errs := ErrorMap{}
	got := ChooseForPath(filekey.NewByFile(impl), []filekey.FileKey{impl, decl}, declExt, errs)
	if got != decl {
		t.Errorf("got %v, want declaration file %v", got, decl)
	}
	if len(errs[impl]) != 0 {
		t.Errorf("shadowed implementation must not be warned about, got %v", errs[impl])
	}
}

func TestChooseForPathDuplicateImpls(t *testing.T) {
	a := filekey.Source("/r/a/Foo.js")
	b := filekey.Source("/r/b/Foo.js")
	errs := ErrorMap{}
	got := ChooseForPath(filekey.NewByFile(a), []filekey.FileKey{b, a}, declExt, errs)
	if got != a {
		t.Errorf("expected lexicographically-first candidate to win, got %v", got)
	}
	if len(errs[b]) != 1 {
		t.Errorf("expected exactly one duplicate-provider warning on the loser, got %v", errs[b])
	}
}

func TestChooseForPathEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected ChooseForPath to panic on an empty candidate set")
		}
	}()
	ChooseForPath(filekey.NewByString("Foo"), nil, declExt, ErrorMap{})
}

func TestChooseForFlatSingletonNoWarnings(t *testing.T) {
	f := filekey.Source("/r/Foo.js")
	errs := ErrorMap{}
	got := ChooseForFlat(filekey.NewByString("Foo"), []filekey.FileKey{f}, declExt, noMock, errs)
	if got != f {
		t.Errorf("got %v, want %v", got, f)
	}
	if len(errs) != 0 {
		t.Errorf("singleton election must produce no warnings, got %v", errs)
	}
}

func TestChooseForFlatMockFallbackNoWarning(t *testing.T) {
	mock := filekey.Source("/r/__mocks__/Foo.js")
	impl := filekey.Source("/r/impl/Foo.js")
	isMock := func(fk filekey.FileKey) bool { return fk == mock }
	errs := ErrorMap{}
	got := ChooseForFlat(filekey.NewByString("Foo"), []filekey.FileKey{mock, impl}, declExt, isMock, errs)
	if got != impl {
		t.Errorf("expected the non-mock to win, got %v", got)
	}
	if len(errs[mock]) != 0 {
		t.Errorf("losing mock must not be warned about when a non-mock wins, got %v", errs[mock])
	}
}

func TestChooseForFlatOnlyMocksFallsBack(t *testing.T) {
	m1 := filekey.Source("/r/__mocks__/a/Foo.js")
	m2 := filekey.Source("/r/__mocks__/b/Foo.js")
	isMock := func(filekey.FileKey) bool { return true }
	errs := ErrorMap{}
	got := ChooseForFlat(filekey.NewByString("Foo"), []filekey.FileKey{m2, m1}, declExt, isMock, errs)
	if got != m1 {
		t.Errorf("expected lexicographically-first mock as arbitrary fallback, got %v", got)
	}
}

func TestChooseForFlatEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected ChooseForFlat to panic on an empty candidate set")
		}
	}()
	ChooseForFlat(filekey.NewByString("Foo"), nil, declExt, noMock, ErrorMap{})
}

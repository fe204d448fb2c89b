// Package election implements provider election (spec §4.7): given a
// module name and the set of files that claim it, pick one winner
// deterministically and record duplicate-provider warnings for the rest.
// Grounded on golang-dep/selection.go's candidate-set bookkeeping and
// golang-dep/errors.go's structured-error-as-typed-struct idiom.
package election

import (
	"sort"

	"github.com/kof/flow-modules/filekey"
	"github.com/kof/flow-modules/resolve"
)

// ErrorMap accumulates per-file errors produced during election, keyed by
// the losing file. Callers pre-seed entries per spec §4.8 step 2c.
type ErrorMap map[filekey.FileKey][]error

func (m ErrorMap) append(fk filekey.FileKey, err error) {
	m[fk] = append(m[fk], err)
}

// sortedCopy returns candidates sorted lexicographically by file-key
// string, fixing iteration order before partitioning so election is
// reproducible across runs (spec §4.7 Determinism).
func sortedCopy(candidates []filekey.FileKey) []filekey.FileKey {
	out := make([]filekey.FileKey, len(candidates))
	copy(out, candidates)
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func partitionByDeclExt(candidates []filekey.FileKey, declExt string) (defs, impls []filekey.FileKey) {
	for _, fk := range candidates {
		if fk.IsDeclaration(declExt) {
			defs = append(defs, fk)
		} else {
			impls = append(impls, fk)
		}
	}
	return defs, impls
}

// chooseWithDuplicates implements the shared helper of spec §4.7: given
// the def/impl partition of S and a fallback for when both are empty,
// picks a winner and records DuplicateProviderError against every loser
// except the winning implementation when a definition shadows it.
func chooseWithDuplicates(module filekey.ModuleName, defs, impls []filekey.FileKey, fallback func() filekey.FileKey, errs ErrorMap) filekey.FileKey {
	switch {
	case len(defs) == 0 && len(impls) == 0:
		return fallback()

	case len(defs) == 0:
		winner := impls[0]
		for _, loser := range impls[1:] {
			errs.append(loser, &resolve.DuplicateProviderError{
				Module:   module.String(),
				Provider: winner.String(),
				Conflict: loser.String(),
			})
		}
		return winner

	case len(impls) == 0:
		winner := defs[0]
		for _, loser := range defs[1:] {
			errs.append(loser, &resolve.DuplicateProviderError{
				Module:   module.String(),
				Provider: winner.String(),
				Conflict: loser.String(),
			})
		}
		return winner

	default:
		winner := defs[0]
		shadowedImpl := impls[0] // legitimately shadowed by winner; not a duplicate
		for _, loser := range defs[1:] {
			errs.append(loser, &resolve.DuplicateProviderError{
				Module:   module.String(),
				Provider: winner.String(),
				Conflict: loser.String(),
			})
		}
		for _, loser := range impls {
			if loser == shadowedImpl {
				continue
			}
			errs.append(loser, &resolve.DuplicateProviderError{
				Module:   module.String(),
				Provider: winner.String(),
				Conflict: loser.String(),
			})
		}
		return winner
	}
}

// ChooseForPath implements the Path policy of spec §4.7: S must be a
// singleton or the result of identical-path duplicates; an empty set is an
// internal invariant violation (kept fatal per spec §9's Open Question
// resolution).
func ChooseForPath(module filekey.ModuleName, candidates []filekey.FileKey, declExt string, errs ErrorMap) filekey.FileKey {
	if len(candidates) == 0 {
		panic("election: ChooseForPath called with an empty candidate set for " + module.String())
	}
	sorted := sortedCopy(candidates)
	defs, impls := partitionByDeclExt(sorted, declExt)
	fallback := func() filekey.FileKey {
		panic("election: ChooseForPath fallback reached with non-empty candidates but no defs or impls for " + module.String())
	}
	return chooseWithDuplicates(module, defs, impls, fallback, errs)
}

// ChooseForFlat implements the Flat policy of spec §4.7: a singleton set
// has no warnings; otherwise non-mocks are preferred over mocks, with an
// arbitrary mock as the fallback when only mocks exist.
func ChooseForFlat(module filekey.ModuleName, candidates []filekey.FileKey, declExt string, isMock func(filekey.FileKey) bool, errs ErrorMap) filekey.FileKey {
	if len(candidates) == 0 {
		panic("election: ChooseForFlat called with an empty candidate set for " + module.String())
	}
	if len(candidates) == 1 {
		return candidates[0]
	}

	sorted := sortedCopy(candidates)
	var mocks, nonMocks []filekey.FileKey
	for _, fk := range sorted {
		if isMock(fk) {
			mocks = append(mocks, fk)
		} else {
			nonMocks = append(nonMocks, fk)
		}
	}

	defs, impls := partitionByDeclExt(nonMocks, declExt)
	fallback := func() filekey.FileKey {
		return mocks[0] // an arbitrary mock; other mocks are not warned about
	}
	return chooseWithDuplicates(module, defs, impls, fallback, errs)
}

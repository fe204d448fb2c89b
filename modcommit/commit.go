// Package modcommit implements the incremental commit algorithm (spec
// §4.8) and file introduction/retirement (spec §4.9) that sit on top of
// modindex and election. Grounded on golang-dep's source manager commit
// cycle, where a batch of changed inputs is reconciled against a
// persistent index under a single mutator pass.
package modcommit

import (
	"github.com/google/uuid"

	"github.com/kof/flow-modules/election"
	"github.com/kof/flow-modules/filekey"
	"github.com/kof/flow-modules/modindex"
)

// DirtyModule is one (module, previous-provider) pair driving a commit
// (spec §4.8). Provider is the zero FileKey with Known=false when the
// module had no prior provider or was newly dirtied.
type DirtyModule struct {
	Module   filekey.ModuleName
	Prev     filekey.FileKey
	HasPrev  bool
}

// Result is the output of a single commit (spec §4.8 step 4).
type Result struct {
	CommitID  uuid.UUID
	Providers []filekey.FileKey
	Changed   map[string]struct{} // ModuleName.String() set
	ErrMap    election.ErrorMap
}

// Committer drives §4.8 over a module system's AllProviders index, writing
// elections into NameIndex. ElectFn abstracts over the Path/Flat election
// policy difference so Commit itself stays policy-agnostic.
type Committer struct {
	allProviders *modindex.AllProviders
	names        *modindex.NameIndex
	elect        func(module filekey.ModuleName, candidates []filekey.FileKey, errs election.ErrorMap) filekey.FileKey
}

// NewCommitter constructs a Committer. elect should close over the
// declaration extension and, for Flat policy, the mock predicate, and
// delegate to election.ChooseForPath or election.ChooseForFlat.
func NewCommitter(allProviders *modindex.AllProviders, names *modindex.NameIndex, elect func(filekey.ModuleName, []filekey.FileKey, election.ErrorMap) filekey.FileKey) *Committer {
	return &Committer{allProviders: allProviders, names: names, elect: elect}
}

// Commit implements spec §4.8. newOrChanged is the set of files whose
// contents changed in this batch (used only to decide whether an
// unchanged election still counts as "changed" for downstream callers);
// dirty is the ordered list of modules to reconcile.
func (c *Committer) Commit(newOrChanged map[filekey.FileKey]struct{}, dirty []DirtyModule) Result {
	var toRemove []filekey.ModuleName
	var toReplace []modindex.Replacement
	var providers []filekey.FileKey
	errmap := election.ErrorMap{}
	changed := make(map[string]struct{})

	for _, dm := range dirty {
		candidates := c.allProviders.FindInAllProviders(dm.Module)
		if len(candidates) == 0 {
			toRemove = append(toRemove, dm.Module)
			changed[dm.Module.String()] = struct{}{}
			continue
		}

		for _, f := range candidates {
			if _, ok := errmap[f]; !ok {
				errmap[f] = nil
			}
		}

		winner := c.elect(dm.Module, candidates, errmap)

		switch {
		case dm.HasPrev && dm.Prev == winner:
			if _, ok := newOrChanged[winner]; ok {
				changed[dm.Module.String()] = struct{}{}
			}
		default:
			providers = append(providers, winner)
			toReplace = append(toReplace, modindex.Replacement{Module: dm.Module, Provider: winner})
			changed[dm.Module.String()] = struct{}{}
		}
	}

	c.names.RemoveAndReplace(toRemove, toReplace)

	return Result{
		CommitID:  uuid.New(),
		Providers: providers,
		Changed:   changed,
		ErrMap:    errmap,
	}
}

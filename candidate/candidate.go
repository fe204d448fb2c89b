// Package candidate implements the name-candidate generator (spec §4.2):
// expanding a raw module reference into an ordered list of rewritten
// candidates via configured regex mappers, memoized by reference. Grounded
// on golang-dep/deduce.go's regex-table dispatch and
// golang-dep/gps/registry.go's ReplaceAllString templating.
package candidate

import (
	"sync"

	"github.com/kof/flow-modules/modconfig"
)

// Generator produces and memoizes the ordered candidate list for a raw
// reference, given a fixed set of mappers and project root. It is
// process-wide state per spec §9 Design notes (mutable singleton with an
// explicit API object, not a module-level global), so tests can construct
// a fresh one.
type Generator struct {
	mappers []modconfig.Mapper
	root    string

	mu    sync.Mutex
	cache map[string][]string
}

// New returns a Generator for the given mappers and project root.
func New(mappers []modconfig.Mapper, root string) *Generator {
	return &Generator{
		mappers: mappers,
		root:    root,
		cache:   make(map[string][]string),
	}
}

// Candidates returns the ordered candidate list for raw reference r:
// first r itself, then, for each mapper (in order) whose pattern matches
// r, the globally rewritten string, with the <<PROJECT_ROOT>> sentinel
// expanded afterward by literal split-and-join. A mapper whose rewrite is
// unchanged from its input contributes nothing. Results are memoized by r.
func (g *Generator) Candidates(r string) []string {
	g.mu.Lock()
	if cached, ok := g.cache[r]; ok {
		g.mu.Unlock()
		return cached
	}
	g.mu.Unlock()

	out := []string{r}
	for _, m := range g.mappers {
		if !m.Pattern.MatchString(r) {
			continue
		}
		rewritten := m.Pattern.ReplaceAllString(r, m.Template)
		if rewritten == r {
			continue
		}
		rewritten = modconfig.ExpandProjectRoot(rewritten, g.root)
		out = append(out, rewritten)
	}

	g.mu.Lock()
	g.cache[r] = out
	g.mu.Unlock()
	return out
}

// Clear empties the memoization cache. Like the directory cache, this is
// process-wide and cleared at the top of each typecheck pass.
func (g *Generator) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cache = make(map[string][]string)
}

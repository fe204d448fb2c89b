// Package modpool drives the per-file batch phases of spec §4.6/§4.9
// across a bounded worker pool, and cancels outstanding work promptly on a
// fatal resolution error (spec §5's cancellation note). Grounded on
// golang-dep/gps's bounded-concurrency solver helpers, enriched with
// golang.org/x/sync/errgroup in place of the teacher's bare
// sync.WaitGroup test-helper pattern (golang-dep/gps/manager_test.go),
// since the teacher itself never productionized a cancellable pool.
package modpool

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kof/flow-modules/filekey"
	"github.com/kof/flow-modules/modcommit"
	"github.com/kof/flow-modules/resolve"
)

// Pool bounds the number of concurrent per-file workers used by Introduce
// and Resolve. A zero Limit means errgroup's default of unlimited
// concurrency.
type Pool struct {
	Limit int
}

// New returns a Pool with the given concurrency limit (<=0 means
// unlimited).
func New(limit int) *Pool {
	return &Pool{Limit: limit}
}

func (p *Pool) group(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	if p.Limit > 0 {
		g.SetLimit(p.Limit)
	}
	return g, gctx
}

// Introduce fans modcommit.Introducer.Introduce out across fds, one
// goroutine per file, and returns the flattened dirty-module list. Every
// file is introduced independently; modindex's per-key sharding makes the
// shared AllProviders/InfoHeap/NameIndex writes safe without an
// additional lock here.
func (p *Pool) Introduce(ctx context.Context, in *modcommit.Introducer, fds []modcommit.FileDocblock) ([]modcommit.DirtyModule, error) {
	g, _ := p.group(ctx)
	results := make([][]modcommit.DirtyModule, len(fds))
	for i, fd := range fds {
		i, fd := i, fd
		g.Go(func() error {
			results[i] = in.Introduce([]modcommit.FileDocblock{fd})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var dirty []modcommit.DirtyModule
	for _, r := range results {
		dirty = append(dirty, r...)
	}
	return dirty, nil
}

// Retire is Introduce's symmetric counterpart for file removal.
func (p *Pool) Retire(ctx context.Context, in *modcommit.Introducer, fds []modcommit.FileDocblock) ([]modcommit.DirtyModule, error) {
	g, _ := p.group(ctx)
	results := make([][]modcommit.DirtyModule, len(fds))
	for i, fd := range fds {
		i, fd := i, fd
		g.Go(func() error {
			results[i] = in.Retire([]modcommit.FileDocblock{fd})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var dirty []modcommit.DirtyModule
	for _, r := range results {
		dirty = append(dirty, r...)
	}
	return dirty, nil
}

// ResolutionJob is one file's references to resolve (spec §4.6).
type ResolutionJob struct {
	Importer   filekey.FileKey
	References []string
}

// ResolutionResult pairs a job's importer with the per-reference resolved
// names (parallel to References) and its accumulated phantom paths/errors.
type ResolutionResult struct {
	Importer filekey.FileKey
	Names    []filekey.ModuleName
	Resolved []bool
	Acc      *resolve.Accumulator
}

// Resolve fans per-file import resolution out across jobs. A
// FatalResolutionError or InvalidResolutionError recorded by any worker's
// Accumulator cancels the group's context; sibling workers check ctx.Err()
// between references and stop early rather than completing wasted
// resolutions, matching §5.
func (p *Pool) Resolve(ctx context.Context, system resolve.System, jobs []ResolutionJob) ([]ResolutionResult, error) {
	g, gctx := p.group(ctx)
	results := make([]ResolutionResult, len(jobs))
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			acc := resolve.NewAccumulator()
			names := make([]filekey.ModuleName, len(job.References))
			resolved := make([]bool, len(job.References))
			for j, ref := range job.References {
				if gctx.Err() != nil {
					break
				}
				name, ok := system.Resolve(job.Importer, ref, acc)
				names[j] = name
				resolved[j] = ok
			}
			results[i] = ResolutionResult{Importer: job.Importer, Names: names, Resolved: resolved, Acc: acc}
			if fatal := firstFatal(acc.Errors()); fatal != nil {
				return fatal
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func firstFatal(errs []error) error {
	for _, err := range errs {
		switch err.(type) {
		case *resolve.FatalResolutionError, *resolve.InvalidResolutionError:
			return err
		}
	}
	return nil
}

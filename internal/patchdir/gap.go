package patchdir

import (
	"context"
	"os"
	"sync"

	"github.com/maxbolgarin/abstract"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/patchgap/internal/patch"
	"github.com/panjf2000/ants/v2"
)

// Gap is a source patch that has no equivalent patch in the target
type Gap struct {
	Patch Patch `json:"patch"`
	// Candidates is the number of target patches touching the same files.
	Candidates int `json:"candidates"`
}

// DirGaps holds gaps found for one source directory
type DirGaps struct {
	Rel     string `json:"rel"`
	Source  string `json:"source"`
	Target  string `json:"target,omitempty"`
	Total   int    `json:"total"`
	Missing []Gap  `json:"missing"`
}

// GapFinder looks for source patches missing from a target patch set.
type GapFinder struct {
	comparator *patch.Comparator
	pool       *ants.Pool
	cfg        Config
	log        logze.Logger
}

func NewGapFinder(cfg Config, comparator *patch.Comparator) (*GapFinder, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}

	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return nil, errm.Wrap(err, "failed to create ants pool")
	}

	return &GapFinder{
		comparator: comparator,
		pool:       pool,
		cfg:        cfg,
		log:        logze.With("component", "gap_finder"),
	}, nil
}

// Close releases the worker pool.
func (g *GapFinder) Close() {
	g.pool.Release()
}

// FindAll matches source and target directories by their relative path and finds gaps in each pair.
// A source directory without a target counterpart has all its patches missing.
func (g *GapFinder) FindAll(ctx context.Context, source, target []Dir, robust bool) ([]DirGaps, error) {
	targets := make(map[string]Dir, len(target))
	for _, d := range target {
		targets[d.Rel] = d
	}

	out := make([]DirGaps, 0, len(source))
	for _, src := range source {
		tgt := targets[src.Rel]

		gaps, err := g.Find(ctx, src, tgt, robust)
		if err != nil {
			return nil, errm.Wrap(err, "failed to find gaps in "+src.Rel)
		}
		out = append(out, DirGaps{
			Rel:     src.Rel,
			Source:  src.Path,
			Target:  tgt.Path,
			Total:   len(src.Patches),
			Missing: gaps,
		})
	}

	return out, nil
}

// Find returns source patches without an equivalent target patch, in source order.
func (g *GapFinder) Find(ctx context.Context, source, target Dir, robust bool) ([]Gap, error) {
	timer := abstract.StartTimer()
	log := g.log.WithFields("source", source.Path, "target", target.Path, "robust", robust)

	var (
		wg      sync.WaitGroup
		found   = make([]bool, len(source.Patches))
		matched = make([]int, len(source.Patches))
	)

	for i, src := range source.Patches {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}

		wg.Add(1)
		err := g.pool.Submit(func() {
			defer wg.Done()
			found[i], matched[i] = g.findEquivalent(src, target.Patches, robust, log)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, errm.Wrap(err, "failed to submit task")
		}
	}
	wg.Wait()

	var gaps []Gap
	for i, src := range source.Patches {
		if !found[i] {
			gaps = append(gaps, Gap{Patch: src, Candidates: matched[i]})
		}
	}

	log.DebugIf(g.cfg.Verbose, "compared patches",
		"total", len(source.Patches),
		"missing", len(gaps),
		"elapsed", timer.ElapsedTime().String(),
	)

	return gaps, nil
}

func (g *GapFinder) findEquivalent(src Patch, targets []Patch, robust bool, log logze.Logger) (bool, int) {
	candidates := 0
	for _, tgt := range targets {
		if !patch.SameFileSet(src.Commit, tgt.Commit, robust) {
			continue
		}
		candidates++

		same, err := CompareFiles(g.comparator, src.Path, tgt.Path, robust)
		if err != nil {
			log.Err(err, "failed to compare patches", "source_patch", src.Path, "target_patch", tgt.Path)
			continue
		}
		if same {
			log.DebugIf(g.cfg.Verbose, "found equivalent patch", "source_patch", src.Path, "target_patch", tgt.Path)
			return true, candidates
		}
	}
	return false, candidates
}

// CompareFiles compares two patch files with fresh streams.
func CompareFiles(comparator *patch.Comparator, pathA, pathB string, robust bool) (bool, error) {
	fa, err := os.Open(pathA)
	if err != nil {
		return false, errm.Wrap(err, "failed to open patch")
	}
	defer fa.Close()

	fb, err := os.Open(pathB)
	if err != nil {
		return false, errm.Wrap(err, "failed to open patch")
	}
	defer fb.Close()

	a, b := patch.NewReaderStream(fa), patch.NewReaderStream(fb)
	same := comparator.IsSame(a, b, robust)

	if err := a.Err(); err != nil {
		return false, errm.Wrap(err, "failed to read "+pathA)
	}
	if err := b.Err(); err != nil {
		return false, errm.Wrap(err, "failed to read "+pathB)
	}

	return same, nil
}

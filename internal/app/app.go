package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/maxbolgarin/abstract"
	"github.com/maxbolgarin/contem"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/patchgap/internal/classifier"
	"github.com/maxbolgarin/patchgap/internal/config"
	"github.com/maxbolgarin/patchgap/internal/gitexec"
	"github.com/maxbolgarin/patchgap/internal/model"
	"github.com/maxbolgarin/patchgap/internal/numstat"
	"github.com/maxbolgarin/patchgap/internal/patch"
	"github.com/maxbolgarin/patchgap/internal/patchdir"
	"github.com/maxbolgarin/patchgap/internal/report"
)

const shortIDLen = 7

// PatchGap orchestrates patch scanning, comparison and repository queries
type PatchGap struct {
	backend    gitexec.Backend
	comparator *patch.Comparator
	scanner    *patchdir.Scanner
	gaps       *patchdir.GapFinder
	aggregator *numstat.Aggregator
	reporter   *report.Writer

	cfg config.Config
	log logze.Logger
}

// New creates the application, its resources are released on context shutdown.
func New(ctx contem.Context, cfg config.Config) (*PatchGap, error) {
	app, err := newPatchGap(cfg, nil)
	if err != nil {
		return nil, errm.Wrap(err, "failed to initialize application")
	}
	ctx.Add(app.Close)

	return app, nil
}

// LoadConfig reads configuration from path, or from environment if path is empty.
func LoadConfig(path string) (config.Config, error) {
	return config.Load(path)
}

func newPatchGap(cfg config.Config, out io.Writer) (*PatchGap, error) {
	app := &PatchGap{
		cfg: cfg,
		log: logze.With("component", "app"),
	}
	if err := app.init(cfg, out); err != nil {
		app.Close(context.Background())
		return nil, err
	}
	return app, nil
}

// ListPatches reports parsed commit headers of every patch directory under root.
func (s *PatchGap) ListPatches(ctx context.Context, root string) ([]patchdir.Dir, error) {
	dirs, err := s.scanner.Scan(ctx, root)
	if err != nil {
		return nil, errm.Wrap(err, "failed to scan "+root)
	}
	if err := s.reporter.PatchDirs(dirs); err != nil {
		return nil, errm.Wrap(err, "failed to write report")
	}
	return dirs, nil
}

// FindGaps reports source patches that have no equivalent in the target tree.
func (s *PatchGap) FindGaps(ctx context.Context, sourceRoot, targetRoot string, robust bool) ([]patchdir.DirGaps, error) {
	var source, target []patchdir.Dir

	waiterSet := abstract.NewWaiterSet(s.log)
	waiterSet.Add(ctx, func(ctx context.Context) error {
		var err error
		if source, err = s.scanner.Scan(ctx, sourceRoot); err != nil {
			return errm.Wrap(err, "failed to scan "+sourceRoot)
		}
		return nil
	})
	waiterSet.Add(ctx, func(ctx context.Context) error {
		var err error
		if target, err = s.scanner.Scan(ctx, targetRoot); err != nil {
			return errm.Wrap(err, "failed to scan "+targetRoot)
		}
		return nil
	})
	if err := waiterSet.Await(ctx); err != nil {
		return nil, err
	}

	gaps, err := s.gaps.FindAll(ctx, source, target, robust)
	if err != nil {
		return nil, errm.Wrap(err, "failed to find gaps")
	}

	missing := 0
	for _, d := range gaps {
		missing += len(d.Missing)
	}
	s.log.Info("gaps found", "source", sourceRoot, "target", targetRoot, "dirs", len(gaps), "missing", missing)

	if err := s.reporter.Gaps(gaps); err != nil {
		return nil, errm.Wrap(err, "failed to write report")
	}
	return gaps, nil
}

// ComparePatches tells whether two patch files describe the same change.
func (s *PatchGap) ComparePatches(ctx context.Context, fileA, fileB string, robust bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	same, err := patchdir.CompareFiles(s.comparator, fileA, fileB, robust)
	if err != nil {
		return false, err
	}
	if err := s.reporter.Verdict(fileA, fileB, robust, same); err != nil {
		return false, errm.Wrap(err, "failed to write report")
	}
	return same, nil
}

// CompareCommits formats two commits as patches and tells whether they describe the same change.
func (s *PatchGap) CompareCommits(ctx context.Context, repoA, idA, repoB, idB string, robust bool) (bool, error) {
	var a, b []string

	waiterSet := abstract.NewWaiterSet(s.log)
	waiterSet.Add(ctx, func(ctx context.Context) error {
		var err error
		if a, err = s.backend.FormatPatch(ctx, repoA, idA); err != nil {
			return errm.Wrap(err, "failed to format "+idA)
		}
		return nil
	})
	waiterSet.Add(ctx, func(ctx context.Context) error {
		var err error
		if b, err = s.backend.FormatPatch(ctx, repoB, idB); err != nil {
			return errm.Wrap(err, "failed to format "+idB)
		}
		return nil
	})
	if err := waiterSet.Await(ctx); err != nil {
		return false, err
	}

	same := s.comparator.IsSameLines(a, b, robust)
	if err := s.reporter.Verdict(idA, idB, robust, same); err != nil {
		return false, errm.Wrap(err, "failed to write report")
	}
	return same, nil
}

// NumStat reports added and removed lines per file or per author for the given revisions.
func (s *PatchGap) NumStat(ctx context.Context, repoPath string, byAuthor bool, revs ...string) (map[string]model.NumStat, error) {
	lines, err := s.backend.LogNumStat(ctx, repoPath, s.aggregator.Separator(), revs...)
	if err != nil {
		return nil, errm.Wrap(err, "failed to get numstat log")
	}

	var stats map[string]model.NumStat
	if byAuthor {
		stats = s.aggregator.ByAuthor(lines)
	} else {
		stats = s.aggregator.ByFile(lines)
	}
	if err := s.reporter.NumStat(lang.If(byAuthor, "author", "file"), stats); err != nil {
		return nil, errm.Wrap(err, "failed to write report")
	}
	return stats, nil
}

// Export writes every non-merge commit in from..to as a numbered patch file into outDir, oldest first.
func (s *PatchGap) Export(ctx context.Context, repoPath, from, to, outDir string) ([]string, error) {
	timer := abstract.StartTimer()

	ids, err := s.backend.CommitIDs(ctx, repoPath, from, to)
	if err != nil {
		return nil, errm.Wrap(err, "failed to list commits")
	}
	slices.Reverse(ids)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errm.Wrap(err, "failed to create output directory")
	}

	paths := make([]string, 0, len(ids))
	for i, id := range ids {
		lines, err := s.backend.FormatPatch(ctx, repoPath, id)
		if err != nil {
			return nil, errm.Wrap(err, "failed to format "+id)
		}

		path := filepath.Join(outDir, fmt.Sprintf("%04d-%s.patch", i+1, id[:min(len(id), shortIDLen)]))
		if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
			return nil, errm.Wrap(err, "failed to write patch")
		}
		paths = append(paths, path)
	}

	s.log.Info("patches exported", "repo", repoPath, "dir", outDir, "count", len(paths), "elapsed", timer.ElapsedTime().String())

	return paths, nil
}

// Close releases worker pools and the report output.
func (s *PatchGap) Close(context.Context) error {
	if s.scanner != nil {
		s.scanner.Close()
	}
	if s.gaps != nil {
		s.gaps.Close()
	}
	if s.reporter != nil {
		return s.reporter.Close()
	}
	return nil
}

func (s *PatchGap) init(cfg config.Config, out io.Writer) (err error) {
	s.backend, err = gitexec.New(cfg.Backend)
	if err != nil {
		return errm.Wrap(err, "failed to create git backend")
	}

	s.comparator = patch.NewComparator(classifier.New(cfg.Classifier))

	s.aggregator, err = numstat.New(cfg.NumStat)
	if err != nil {
		return errm.Wrap(err, "failed to create numstat aggregator")
	}

	s.scanner, err = patchdir.NewScanner(cfg.Scan)
	if err != nil {
		return errm.Wrap(err, "failed to create patch scanner")
	}

	s.gaps, err = patchdir.NewGapFinder(cfg.Scan, s.comparator)
	if err != nil {
		return errm.Wrap(err, "failed to create gap finder")
	}

	if out != nil {
		s.reporter, err = report.NewWithWriter(cfg.Report, out)
	} else {
		s.reporter, err = report.New(cfg.Report)
	}
	if err != nil {
		return errm.Wrap(err, "failed to create report writer")
	}

	return nil
}

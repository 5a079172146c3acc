package patchdir

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/maxbolgarin/abstract"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/patchgap/internal/model"
	"github.com/maxbolgarin/patchgap/internal/patch"
	"github.com/panjf2000/ants/v2"
)

// Patch is a patch file with its parsed header
type Patch struct {
	Path   string       `json:"path"`
	Commit model.Commit `json:"commit"`
}

// Dir is a directory of patch files
type Dir struct {
	Path string `json:"path"`
	// Rel is the path relative to the scanned root, "." for the root itself.
	Rel     string  `json:"rel"`
	Patches []Patch `json:"patches"`
}

// Scanner finds patch directories and parses headers of their patches in parallel.
type Scanner struct {
	pool *ants.Pool
	cfg  Config
	log  logze.Logger
}

func NewScanner(cfg Config) (*Scanner, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}

	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return nil, errm.Wrap(err, "failed to create ants pool")
	}

	return &Scanner{
		pool: pool,
		cfg:  cfg,
		log:  logze.With("component", "scanner"),
	}, nil
}

// Close releases the worker pool.
func (s *Scanner) Close() {
	s.pool.Release()
}

// Scan returns every directory under root holding matching patch files, sorted by path.
// Patches without a commit id are skipped, directories left without patches are omitted.
func (s *Scanner) Scan(ctx context.Context, root string) ([]Dir, error) {
	timer := abstract.StartTimer()
	log := s.log.WithFields("root", root)

	dirs, err := s.patchDirs(root)
	if err != nil {
		return nil, err
	}
	log.DebugIf(s.cfg.Verbose, "found patch directories", "count", len(dirs))

	results := abstract.NewSafeMap[string, Dir]()
	var wg sync.WaitGroup

	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}

		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()

			d, err := s.scanDir(root, dir)
			if err != nil {
				log.Err(err, "failed to scan directory", "dir", dir)
				return
			}
			if len(d.Patches) > 0 {
				results.Set(dir, d)
			}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, errm.Wrap(err, "failed to submit task")
		}
	}
	wg.Wait()

	out := results.Values()
	slices.SortFunc(out, func(a, b Dir) int {
		return strings.Compare(a.Path, b.Path)
	})

	log.DebugIf(s.cfg.Verbose, "scanned patches", "dirs", len(out), "elapsed", timer.ElapsedTime().String())

	return out, nil
}

// ParseFile parses the header of one patch file.
func ParseFile(path string) (model.Commit, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Commit{}, errm.Wrap(err, "failed to open patch")
	}
	defer f.Close()

	stream := patch.NewReaderStream(f)
	commit, _ := patch.ParseHeaderStream(stream)
	if err := stream.Err(); err != nil {
		return model.Commit{}, errm.Wrap(err, "failed to read patch")
	}

	return commit, nil
}

func (s *Scanner) scanDir(root, dir string) (Dir, error) {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return Dir{}, errm.Wrap(err, "failed to get relative path")
	}
	result := Dir{Path: dir, Rel: rel}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Dir{}, errm.Wrap(err, "failed to read directory")
	}

	for _, entry := range entries {
		if entry.IsDir() || !s.matches(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		commit, err := ParseFile(path)
		if err != nil {
			s.log.Warn("skip unreadable patch", "path", path, "error", err)
			continue
		}
		if commit.ID == nil {
			continue
		}
		result.Patches = append(result.Patches, Patch{Path: path, Commit: commit})
	}

	return result, nil
}

func (s *Scanner) patchDirs(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errm.Wrap(err, "failed to stat root")
	}
	if !info.IsDir() {
		return nil, errm.Wrap(ErrNotDirectory, root)
	}

	var (
		dirs []string
		seen = make(map[string]struct{})
	)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.matches(d.Name()) {
			return nil
		}
		dir := filepath.Dir(path)
		if _, ok := seen[dir]; !ok {
			seen[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
		return nil
	})
	if err != nil {
		return nil, errm.Wrap(err, "failed to walk directory")
	}

	return dirs, nil
}

func (s *Scanner) matches(name string) bool {
	ok, _ := filepath.Match(s.cfg.Pattern, name)
	return ok
}

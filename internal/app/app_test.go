package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/maxbolgarin/patchgap/internal/config"
	"github.com/maxbolgarin/patchgap/internal/gitexec"
	"github.com/maxbolgarin/patchgap/internal/report"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available in PATH")
	}
}

type testRepo struct {
	t    *testing.T
	dir  string
	step int
}

func (r *testRepo) git(args ...string) string {
	r.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = r.dir
	date := fmt.Sprintf("2024-02-%02dT12:00:00+0000", r.step+1)
	cmd.Env = append(os.Environ(), "GIT_AUTHOR_DATE="+date, "GIT_COMMITTER_DATE="+date)
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %v: %v\n%s", args, err, string(out))
	}
	return strings.TrimSpace(string(out))
}

func (r *testRepo) configure() {
	r.git("config", "user.email", "dev@example.com")
	r.git("config", "user.name", "Dev One")
	r.git("config", "commit.gpgsign", "false")
}

func (r *testRepo) commit(file, content, msg string) string {
	r.t.Helper()
	path := filepath.Join(r.dir, file)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		r.t.Fatalf("write: %v", err)
	}
	r.git("add", "-A")
	r.git("commit", "-q", "-m", msg)
	r.step++
	return r.git("rev-parse", "HEAD")
}

// newUpstreamAndFork creates an upstream repository with three commits
// and a fork that carries only the first and the cherry-picked third one.
func newUpstreamAndFork(t *testing.T) (upstream, fork *testRepo, hashes []string, picked string) {
	t.Helper()

	upstream = &testRepo{t: t, dir: t.TempDir()}
	upstream.git("init", "-q")
	upstream.configure()

	hashes = append(hashes,
		upstream.commit("main.go", "package main\n", "initial"),
		upstream.commit("util/strings.go", "package util\n\nfunc Trim() {}\n", "add trim helper"),
		upstream.commit("main.go", "package main\n\nfunc main() {}\n", "add main"),
	)

	fork = &testRepo{t: t, dir: filepath.Join(t.TempDir(), "fork"), step: 10}
	cmd := exec.Command("git", "clone", "-q", upstream.dir, fork.dir)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git clone: %v\n%s", err, string(out))
	}
	fork.configure()
	fork.git("reset", "-q", "--hard", hashes[0])
	fork.git("cherry-pick", hashes[2])
	picked = fork.git("rev-parse", "HEAD")

	return upstream, fork, hashes, picked
}

func newTestApp(t *testing.T, cfg config.Config) (*PatchGap, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	app, err := newPatchGap(cfg, &buf)
	if err != nil {
		t.Fatalf("newPatchGap: %v", err)
	}
	t.Cleanup(func() { app.Close(context.Background()) })
	return app, &buf
}

func TestExportAndFindGaps(t *testing.T) {
	requireGit(t)
	upstream, fork, hashes, picked := newUpstreamAndFork(t)
	ctx := context.Background()

	for _, backend := range []string{gitexec.TypeExec, gitexec.TypeGoGit} {
		t.Run(backend, func(t *testing.T) {
			app, buf := newTestApp(t, config.Config{Backend: gitexec.Config{Type: backend}})

			upstreamDir := filepath.Join(t.TempDir(), "upstream", "project")
			forkDir := filepath.Join(t.TempDir(), "fork", "project")

			paths, err := app.Export(ctx, upstream.dir, hashes[0], "", upstreamDir)
			if err != nil {
				t.Fatalf("Export upstream: %v", err)
			}
			wantPaths := []string{
				filepath.Join(upstreamDir, "0001-"+hashes[1][:7]+".patch"),
				filepath.Join(upstreamDir, "0002-"+hashes[2][:7]+".patch"),
			}
			if diff := cmp.Diff(wantPaths, paths); diff != "" {
				t.Fatalf("exported paths mismatch (-want +got):\n%s", diff)
			}

			if _, err := app.Export(ctx, fork.dir, hashes[0], "HEAD", forkDir); err != nil {
				t.Fatalf("Export fork: %v", err)
			}

			for _, robust := range []bool{false, true} {
				buf.Reset()
				gaps, err := app.FindGaps(ctx, filepath.Dir(upstreamDir), filepath.Dir(forkDir), robust)
				if err != nil {
					t.Fatalf("FindGaps: %v", err)
				}
				if len(gaps) != 1 || gaps[0].Rel != "project" || gaps[0].Total != 2 {
					t.Fatalf("unexpected gaps %+v", gaps)
				}
				if len(gaps[0].Missing) != 1 || gaps[0].Missing[0].Patch.Commit.GetID() != hashes[1] {
					t.Fatalf("expected only %s missing, got %+v", hashes[1], gaps[0].Missing)
				}
				if !strings.Contains(buf.String(), "add trim helper") {
					t.Fatalf("report lacks missing patch:\n%s", buf.String())
				}
			}

			same, err := app.ComparePatches(ctx, paths[1], filepath.Join(forkDir, "0001-"+picked[:7]+".patch"), false)
			if err != nil {
				t.Fatalf("ComparePatches: %v", err)
			}
			if !same {
				t.Fatalf("cherry-picked patch must be the same as the original")
			}
		})
	}
}

func TestCompareCommits(t *testing.T) {
	requireGit(t)
	upstream, fork, hashes, picked := newUpstreamAndFork(t)
	ctx := context.Background()

	app, buf := newTestApp(t, config.Config{})

	same, err := app.CompareCommits(ctx, upstream.dir, hashes[2], fork.dir, picked, false)
	if err != nil {
		t.Fatalf("CompareCommits: %v", err)
	}
	if !same {
		t.Fatalf("cherry-picked commit must be the same as the original")
	}
	if !strings.HasSuffix(buf.String(), "same\n") {
		t.Fatalf("unexpected verdict %q", buf.String())
	}

	same, err = app.CompareCommits(ctx, upstream.dir, hashes[1], fork.dir, picked, true)
	if err != nil {
		t.Fatalf("CompareCommits: %v", err)
	}
	if same {
		t.Fatalf("different commits reported as same")
	}

	if _, err := app.CompareCommits(ctx, upstream.dir, "no-such-commit", fork.dir, picked, true); err == nil {
		t.Fatalf("expected error for unknown commit")
	}
}

func TestNumStat(t *testing.T) {
	requireGit(t)
	upstream, _, hashes, _ := newUpstreamAndFork(t)
	ctx := context.Background()

	app, buf := newTestApp(t, config.Config{Report: report.Config{Format: report.FormatJSON}})

	byFile, err := app.NumStat(ctx, upstream.dir, false, hashes[0]+"..HEAD")
	if err != nil {
		t.Fatalf("NumStat: %v", err)
	}
	if st := byFile["util/strings.go"]; st.Added != 3 || st.Removed != 0 {
		t.Fatalf("util/strings.go = %+v", st)
	}
	if st := byFile["main.go"]; st.Added != 2 || st.Removed != 0 {
		t.Fatalf("main.go = %+v", st)
	}
	if !strings.Contains(buf.String(), `"rows"`) {
		t.Fatalf("expected json report, got:\n%s", buf.String())
	}

	byAuthor, err := app.NumStat(ctx, upstream.dir, true)
	if err != nil {
		t.Fatalf("NumStat by author: %v", err)
	}
	if st := byAuthor["Dev One"]; st.Added != 6 {
		t.Fatalf("Dev One = %+v", st)
	}
}

func TestListPatches(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "vendor", "lib")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := "From 0123abc Mon Sep 17 00:00:00 2001\nFrom: Dev One <dev@example.com>\nSubject: [PATCH 1/1] Tune buffers\nChange-Id: Iabc\n---\n lib.go | 1 +\n"
	if err := os.WriteFile(filepath.Join(dir, "0001.patch"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	app, buf := newTestApp(t, config.Config{})
	dirs, err := app.ListPatches(context.Background(), root)
	if err != nil {
		t.Fatalf("ListPatches: %v", err)
	}
	if len(dirs) != 1 || len(dirs[0].Patches) != 1 {
		t.Fatalf("unexpected dirs %+v", dirs)
	}
	if !strings.Contains(buf.String(), "| 0123abc |  | Dev One <dev@example.com> | Iabc | Tune buffers |") {
		t.Fatalf("unexpected report:\n%s", buf.String())
	}
}

func TestNewPatchGapInvalidConfig(t *testing.T) {
	if _, err := newPatchGap(config.Config{Backend: gitexec.Config{Type: "hg"}}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

package gitexec

import (
	"context"
	"time"

	"github.com/maxbolgarin/errm"
)

// ExecBackend runs the git binary
type ExecBackend struct {
	runner  Runner
	timeout time.Duration
}

func NewExecBackend(runner Runner, timeout time.Duration) *ExecBackend {
	return &ExecBackend{runner: runner, timeout: timeout}
}

func (b *ExecBackend) FormatPatch(ctx context.Context, repoPath, commitID string) ([]string, error) {
	// no signature: the trailing git version differs between machines
	return b.run(ctx, repoPath, "format-patch", "-1", "--no-numbered", "--no-signature", "--stdout", commitID)
}

func (b *ExecBackend) LogNumStat(ctx context.Context, repoPath, separator string, revs ...string) ([]string, error) {
	args := append([]string{"log", "--numstat", "--pretty=" + separator + ":%h:%an:%s"}, revs...)
	return b.run(ctx, repoPath, args...)
}

func (b *ExecBackend) CommitIDs(ctx context.Context, repoPath, from, to string) ([]string, error) {
	args := []string{"log", "--pretty=%H", "--no-merges"}
	if rev := revRange(from, to); rev != "" {
		args = append(args, rev)
	}
	return b.run(ctx, repoPath, args...)
}

func (b *ExecBackend) run(ctx context.Context, repoPath string, args ...string) ([]string, error) {
	if repoPath == "" {
		return nil, ErrEmptyRepoPath
	}
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	out, err := b.runner.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, errm.Wrap(err, "failed to run git")
	}
	return splitLines(out), nil
}

func revRange(from, to string) string {
	switch {
	case from != "" && to != "":
		return from + ".." + to
	case from != "":
		return from + "..HEAD"
	default:
		return to
	}
}

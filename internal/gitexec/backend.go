package gitexec

import (
	"context"
	"strings"

	"github.com/maxbolgarin/errm"
)

// Backend produces text that the patch engine consumes: mbox patches, numstat logs and commit lists.
type Backend interface {
	// FormatPatch returns one commit formatted as an mbox patch.
	FormatPatch(ctx context.Context, repoPath, commitID string) ([]string, error)
	// LogNumStat returns "git log --numstat" output with "<separator>:<short sha>:<author>:<subject>" markers.
	LogNumStat(ctx context.Context, repoPath, separator string, revs ...string) ([]string, error)
	// CommitIDs returns non-merge commit hashes, newest first.
	// Empty from lists history of to (HEAD if to is empty too), otherwise commits in from..to.
	CommitIDs(ctx context.Context, repoPath, from, to string) ([]string, error)
}

// New creates a backend of the configured type.
func New(cfg Config) (Backend, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}

	switch cfg.Type {
	case TypeGoGit:
		return NewGoGitBackend(), nil
	default:
		return NewExecBackend(NewExecRunner(cfg.GitBin), cfg.Timeout), nil
	}
}

func splitLines(out string) []string {
	out = strings.TrimSuffix(out, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

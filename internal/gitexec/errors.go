package gitexec

import "github.com/maxbolgarin/errm"

var (
	ErrEmptyRepoPath  = errm.New("repository path is required")
	ErrUnknownBackend = errm.New("unknown backend type")
	ErrCommitNotFound = errm.New("commit not found")
)

package patchdir

import "github.com/maxbolgarin/errm"

var (
	ErrNotDirectory = errm.New("not a directory")
)

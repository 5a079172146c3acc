package patch

import (
	"slices"
	"strings"

	"github.com/maxbolgarin/patchgap/internal/model"
)

// LineClassifier decides which diff lines carry no meaning for a file type.
type LineClassifier interface {
	FileType(path string) model.FileType
	IsMeaningless(line string, fileType model.FileType) bool
}

// Comparator decides whether two patches describe the same change.
// It holds no per-comparison state and is safe for concurrent use
// as long as every call gets its own streams.
type Comparator struct {
	classifier LineClassifier
}

// NewComparator creates a comparator; nil classifier treats every line as significant.
func NewComparator(classifier LineClassifier) *Comparator {
	if classifier == nil {
		classifier = keepAll{}
	}
	return &Comparator{classifier: classifier}
}

// IsSame reads both streams and reports whether they carry the same change.
//
// Strict mode requires identical modified file lists and an identical diff body line by line.
// Robust mode ignores commit identity, ordering and lines the classifier marks as meaningless:
// it compares sorted file names and sorted added/removed lines.
func (c *Comparator) IsSame(a, b LineStream, robust bool) bool {
	commitA, boundaryA := ParseHeaderStream(a)
	commitB, boundaryB := ParseHeaderStream(b)

	if !SameFileSet(commitA, commitB, robust) {
		return false
	}

	firstA, okA := seekBody(a, boundaryA)
	firstB, okB := seekBody(b, boundaryB)

	if robust {
		changesA := c.collectChanges(a, firstA, okA)
		changesB := c.collectChanges(b, firstB, okB)
		return sameSorted(changesA.added, changesB.added) && sameSorted(changesA.removed, changesB.removed)
	}

	if !okA && !okB {
		// nothing to compare, cannot confirm equivalence
		return false
	}

	lineA, lineB := firstA, firstB
	for {
		if okA != okB {
			return false
		}
		if !okA {
			return true
		}
		if strings.TrimSpace(lineA) != strings.TrimSpace(lineB) {
			return false
		}
		lineA, okA = a.Next()
		lineB, okB = b.Next()
	}
}

// IsSameLines is IsSame for patches held in memory.
func (c *Comparator) IsSameLines(a, b []string, robust bool) bool {
	return c.IsSame(NewSliceStream(a), NewSliceStream(b), robust)
}

func (c *Comparator) collectChanges(s LineStream, first string, ok bool) bodyChanges {
	scanner := newBodyScanner(c.classifier)
	for line := first; ok; line, ok = s.Next() {
		scanner.add(line)
	}
	return scanner.changes
}

// seekBody returns the first "diff --git" line of the stream.
func seekBody(s LineStream, boundary Boundary) (string, bool) {
	if boundary.IsDiffHeader() {
		return boundary.Line, true
	}
	for {
		line, ok := s.Next()
		if !ok {
			return "", false
		}
		if strings.HasPrefix(strings.TrimSpace(line), diffHeaderPrefix) {
			return line, true
		}
	}
}

func sameSorted(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

type keepAll struct{}

func (keepAll) FileType(string) model.FileType { return model.FileTypeUnknown }
func (keepAll) IsMeaningless(string, model.FileType) bool { return false }

package patch

import (
	"strings"

	"github.com/maxbolgarin/patchgap/internal/model"
)

// diffLineType represents the type of diff body line
type diffLineType string

const (
	diffHeaderLine  diffLineType = "header"
	diffFileLine    diffLineType = "file"
	diffHunkLine    diffLineType = "hunk"
	diffContextLine diffLineType = "context"
	diffAddedLine   diffLineType = "added"
	diffRemovedLine diffLineType = "removed"
)

const (
	oldFilePrefix = "--- "
	newFilePrefix = "+++ "
	hunkPrefix    = "@@"
	devNull       = "/dev/null"
)

// bodyChanges holds significant added and removed lines of a diff body
type bodyChanges struct {
	added   []string
	removed []string
}

// bodyScanner classifies unified diff lines and tracks the file they belong to.
// "--- " and "+++ " are treated as file markers only outside of hunks.
type bodyScanner struct {
	classifier LineClassifier

	inHunk   bool
	oldPath  string
	fileType model.FileType
	changes  bodyChanges
}

func newBodyScanner(classifier LineClassifier) *bodyScanner {
	return &bodyScanner{classifier: classifier, fileType: model.FileTypeUnknown}
}

func (bs *bodyScanner) add(line string) {
	switch bs.classify(line) {
	case diffHeaderLine:
		bs.inHunk = false
		bs.oldPath = ""
		bs.fileType = model.FileTypeUnknown

	case diffFileLine:
		bs.onFileMarker(line)

	case diffHunkLine:
		bs.inHunk = true

	case diffAddedLine:
		if content, ok := bs.significant(line[1:]); ok {
			bs.changes.added = append(bs.changes.added, content)
		}

	case diffRemovedLine:
		if content, ok := bs.significant(line[1:]); ok {
			bs.changes.removed = append(bs.changes.removed, content)
		}
	}
}

func (bs *bodyScanner) classify(line string) diffLineType {
	switch {
	case strings.HasPrefix(line, diffHeaderPrefix):
		return diffHeaderLine
	case strings.HasPrefix(line, hunkPrefix):
		return diffHunkLine
	case !bs.inHunk && (strings.HasPrefix(line, oldFilePrefix) || strings.HasPrefix(line, newFilePrefix)):
		return diffFileLine
	case strings.HasPrefix(line, "+"):
		return diffAddedLine
	case strings.HasPrefix(line, "-"):
		return diffRemovedLine
	default:
		return diffContextLine
	}
}

func (bs *bodyScanner) onFileMarker(line string) {
	if strings.HasPrefix(line, oldFilePrefix) {
		bs.oldPath = markerPath(line[len(oldFilePrefix):], "a/")
		bs.fileType = bs.classifier.FileType(bs.oldPath)
		return
	}

	newPath := markerPath(line[len(newFilePrefix):], "b/")
	if newPath == devNull {
		// deleted file, keep type of the old side
		return
	}
	bs.fileType = bs.classifier.FileType(newPath)
}

func (bs *bodyScanner) significant(content string) (string, bool) {
	if bs.classifier.IsMeaningless(content, bs.fileType) {
		return "", false
	}
	return strings.TrimSpace(content), true
}

func markerPath(raw, sidePrefix string) string {
	p := strings.TrimSpace(raw)
	// git appends a tab when the path contains spaces
	if tab := strings.IndexByte(p, '\t'); tab >= 0 {
		p = p[:tab]
	}
	return strings.TrimPrefix(p, sidePrefix)
}

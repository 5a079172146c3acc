package patch

import (
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/maxbolgarin/patchgap/internal/model"
)

// elisionMarker is how git abbreviates long paths in diffstat output
const elisionMarker = ".../"

// ParseSummaryLine parses a diffstat line like "path/file.rb | 12 +++++---".
// ok is false if the change count is not a number (binary files, malformed lines).
//
// Paths abbreviated with ".../" are reduced to their last element, so two different
// long paths with the same file name are indistinguishable.
func ParseSummaryLine(line string) (name string, count int, ok bool) {
	left, right, found := strings.Cut(line, "|")
	if !found {
		return "", 0, false
	}

	name = strings.TrimSpace(left)
	if pos := strings.Index(name, elisionMarker); pos >= 0 {
		name = path.Base(name[pos+len(elisionMarker):])
	}

	token, _, _ := strings.Cut(strings.TrimSpace(right), " ")
	count, err := strconv.Atoi(token)
	if err != nil {
		return name, 0, false
	}

	return name, count, true
}

// CanonicalFilenames returns file names of parsable summary lines in input order.
func CanonicalFilenames(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if name, _, ok := ParseSummaryLine(line); ok {
			out = append(out, name)
		}
	}
	return out
}

// SameFileSet compares lists of modified files of two commits.
// Strict mode compares raw summary lines in order, robust mode compares sorted unique file names.
func SameFileSet(a, b model.Commit, robust bool) bool {
	if a.HasSummary() != b.HasSummary() {
		return false
	}
	if !robust {
		return slices.Equal(a.ModifiedFiles, b.ModifiedFiles)
	}
	return slices.Equal(sortedUnique(a.ModifiedFilenames), sortedUnique(b.ModifiedFilenames))
}

func sortedUnique(in []string) []string {
	out := slices.Clone(in)
	slices.Sort(out)
	return slices.Compact(out)
}

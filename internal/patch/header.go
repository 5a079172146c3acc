package patch

import (
	"strings"

	"github.com/maxbolgarin/patchgap/internal/model"
)

const (
	idPrefix       = "From "
	authorPrefix   = "From: "
	datePrefix     = "Date: "
	subjectPrefix  = "Subject: "
	changeIDPrefix = "Change-Id: "

	patchMarker      = "[PATCH"
	summarySeparator = "---"
	diffHeaderPrefix = "diff --git"
)

// Boundary tells where header parsing of a stream ended
type Boundary struct {
	// Line is the line that stopped the parser, valid only if Stopped is true.
	Line string
	// Stopped is false when the input ran out before the diff body was reached.
	Stopped bool
}

// IsDiffHeader reports whether the boundary line opens the diff body.
func (b Boundary) IsDiffHeader() bool {
	return b.Stopped && strings.HasPrefix(b.Line, diffHeaderPrefix)
}

// ParseHeader parses mbox-style patch header lines into a Commit.
func ParseHeader(lines []string) model.Commit {
	commit, _ := ParseHeaderStream(NewSliceStream(lines))
	return commit
}

// ParseHeaderStream consumes s up to and including the first line that ends the header.
// The rest of the stream is left unread for the caller.
func ParseHeaderStream(s LineStream) (model.Commit, Boundary) {
	var (
		commit model.Commit
		next   bool
	)
	for {
		raw, ok := s.Next()
		if !ok {
			return commit, Boundary{}
		}
		line := normalizeLine(raw)
		commit, next = Step(commit, line)
		if !next {
			return commit, Boundary{Line: line, Stopped: true}
		}
	}
}

// Step applies one header line to the commit and reports whether parsing should go on.
// A line that stops parsing leaves the commit untouched.
func Step(c model.Commit, line string) (model.Commit, bool) {
	line = normalizeLine(line)

	switch {
	case c.ID == nil && strings.HasPrefix(line, idPrefix):
		if fields := strings.Fields(line); len(fields) > 1 {
			c.ID = &fields[1]
		}

	case c.Author == nil && strings.HasPrefix(line, authorPrefix):
		c.Author = ptr(line[len(authorPrefix):])

	case c.Date == nil && strings.HasPrefix(line, datePrefix):
		c.Date = ptr(line[len(datePrefix):])

	case c.Title == nil && strings.HasPrefix(line, subjectPrefix):
		c.Title = ptr(stripSubject(line[len(subjectPrefix):]))

	case c.Title != nil && *c.Title == "":
		// subject was wrapped to the next line
		c.Title = ptr(line)

	case c.ChangeID == nil && strings.HasPrefix(line, changeIDPrefix):
		c.ChangeID = ptr(line[len(changeIDPrefix):])

	case line == summarySeparator && c.ModifiedFiles == nil:
		c.ModifiedFiles = []string{}
		c.ModifiedFilenames = []string{}

	default:
		if strings.HasPrefix(line, diffHeaderPrefix) {
			return c, false
		}
		if c.ModifiedFiles == nil {
			return c, true
		}
		if !strings.Contains(line, "|") {
			return c, false
		}
		c.ModifiedFiles = append(c.ModifiedFiles, line)
		if name, _, ok := ParseSummaryLine(line); ok {
			c.ModifiedFilenames = append(c.ModifiedFilenames, name)
		}
	}

	return c, true
}

func stripSubject(subject string) string {
	pos := strings.Index(subject, patchMarker)
	if pos < 0 {
		return subject
	}
	subject = subject[pos+len(patchMarker):]
	if end := strings.Index(subject, "]"); end >= 0 {
		subject = subject[end+1:]
	}
	return strings.TrimSpace(subject)
}

func normalizeLine(line string) string {
	return strings.TrimSpace(strings.ToValidUTF8(line, "�"))
}

func ptr(s string) *string {
	return &s
}

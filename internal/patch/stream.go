package patch

import (
	"bufio"
	"io"
)

const maxLineSize = 1024 * 1024

// LineStream is a forward-only cursor over the lines of a patch.
// Next returns false once the stream is exhausted.
type LineStream interface {
	Next() (string, bool)
}

// SliceStream reads lines from a slice
type SliceStream struct {
	lines []string
	pos   int
}

// NewSliceStream creates a stream over lines. The slice is not copied.
func NewSliceStream(lines []string) *SliceStream {
	return &SliceStream{lines: lines}
}

func (s *SliceStream) Next() (string, bool) {
	if s.pos >= len(s.lines) {
		return "", false
	}
	line := s.lines[s.pos]
	s.pos++
	return line, true
}

// Pos returns the number of lines consumed so far.
func (s *SliceStream) Pos() int {
	return s.pos
}

// ReaderStream reads lines from an io.Reader
type ReaderStream struct {
	scanner *bufio.Scanner
	err     error
}

// NewReaderStream creates a stream reading r line by line.
func NewReaderStream(r io.Reader) *ReaderStream {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &ReaderStream{scanner: scanner}
}

func (s *ReaderStream) Next() (string, bool) {
	if s.err != nil {
		return "", false
	}
	if !s.scanner.Scan() {
		s.err = s.scanner.Err()
		return "", false
	}
	return s.scanner.Text(), true
}

// Err returns the first read error, nil on clean end of input.
func (s *ReaderStream) Err() error {
	return s.err
}

// Lines drains a stream into a slice.
func Lines(s LineStream) []string {
	var out []string
	for {
		line, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, line)
	}
}

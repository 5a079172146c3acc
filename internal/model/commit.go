package model

import "github.com/maxbolgarin/lang"

// Commit represents one parsed patch header.
// Optional fields stay nil until the corresponding header line is seen.
type Commit struct {
	ID       *string `json:"id,omitempty"`
	Author   *string `json:"author,omitempty"`
	Date     *string `json:"date,omitempty"`
	Title    *string `json:"title,omitempty"`
	ChangeID *string `json:"change_id,omitempty"`

	// ModifiedFiles is nil until the "---" separator is observed.
	// An empty non-nil slice means the separator was seen with no files listed.
	ModifiedFiles     []string `json:"modified_files"`
	ModifiedFilenames []string `json:"modified_filenames"`
}

// HasSummary reports whether the diffstat summary section was encountered.
func (c Commit) HasSummary() bool {
	return c.ModifiedFiles != nil
}

func (c Commit) GetID() string { return lang.Deref(c.ID) }
func (c Commit) GetAuthor() string { return lang.Deref(c.Author) }
func (c Commit) GetDate() string { return lang.Deref(c.Date) }
func (c Commit) GetTitle() string { return lang.Deref(c.Title) }
func (c Commit) GetChangeID() string { return lang.Deref(c.ChangeID) }

// Field returns header value by its report section name.
func (c Commit) Field(name string) string {
	switch name {
	case FieldID:
		return c.GetID()
	case FieldAuthor:
		return c.GetAuthor()
	case FieldDate:
		return c.GetDate()
	case FieldTitle:
		return c.GetTitle()
	case FieldChangeID, "changedId":
		return c.GetChangeID()
	default:
		return ""
	}
}

// Report section names of a commit
const (
	FieldID       = "id"
	FieldAuthor   = "author"
	FieldDate     = "date"
	FieldTitle    = "title"
	FieldChangeID = "changeId"
)

// NumStat represents added and removed line totals
type NumStat struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// Add returns the sum of two stats.
func (s NumStat) Add(other NumStat) NumStat {
	return NumStat{Added: s.Added + other.Added, Removed: s.Removed + other.Removed}
}

// Total returns the number of touched lines.
func (s NumStat) Total() int {
	return s.Added + s.Removed
}

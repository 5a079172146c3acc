package numstat

import (
	"cmp"
	"slices"
	"strings"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/patchgap/internal/model"
)

// DefaultSeparator prefixes author marker lines in "git log --numstat" output
const DefaultSeparator = "#####"

type Config struct {
	Separator string `yaml:"separator" env:"PATCHGAP_NUMSTAT_SEPARATOR"`
}

func (cfg *Config) PrepareAndValidate() error {
	cfg.Separator = lang.Check(cfg.Separator, DefaultSeparator)
	if strings.Contains(cfg.Separator, ":") {
		return errm.New("separator must not contain ':'")
	}
	return nil
}

// Aggregator sums numstat records using a fixed separator
type Aggregator struct {
	separator string
}

func New(cfg Config) (*Aggregator, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}
	return &Aggregator{separator: cfg.Separator}, nil
}

func (a *Aggregator) Separator() string {
	return a.separator
}

func (a *Aggregator) ByFile(lines []string) map[string]model.NumStat {
	return ByFile(lines, a.separator)
}

func (a *Aggregator) ByAuthor(lines []string) map[string]model.NumStat {
	return ByAuthor(lines, a.separator)
}

// ParseLine parses "<added> <removed> <path>" record.
// Marker lines and lines without exactly three fields are not records.
func ParseLine(line, separator string) (path string, stat model.NumStat, ok bool) {
	if strings.HasPrefix(line, separator) {
		return "", model.NumStat{}, false
	}
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return "", model.NumStat{}, false
	}
	return fields[2], model.NumStat{
		Added:   leadingInt(fields[0]),
		Removed: leadingInt(fields[1]),
	}, true
}

// ByFile sums added and removed lines per file path.
func ByFile(lines []string, separator string) map[string]model.NumStat {
	result := make(map[string]model.NumStat)
	for _, line := range lines {
		path, stat, ok := ParseLine(line, separator)
		if !ok {
			continue
		}
		result[path] = result[path].Add(stat)
	}
	return result
}

// ByAuthor sums added and removed lines per author.
// Records before the first author marker are dropped.
func ByAuthor(lines []string, separator string) map[string]model.NumStat {
	result := make(map[string]model.NumStat)
	author := ""
	for _, line := range lines {
		if strings.HasPrefix(line, separator) {
			author = ParseAuthor(line, separator)
			continue
		}
		path, stat, ok := ParseLine(line, separator)
		if !ok || path == "" || author == "" {
			continue
		}
		result[author] = result[author].Add(stat)
	}
	return result
}

// ParseAuthor extracts author from "<sep>:<sha>:<author>:<subject>" marker line.
// The search for ':' starts one byte after the separator, so the colon right after it is skipped.
func ParseAuthor(line, separator string) string {
	start := len(separator) + 1
	if start >= len(line) {
		return ""
	}
	pos1 := strings.IndexByte(line[start:], ':')
	if pos1 < 0 {
		return ""
	}
	pos1 += start
	pos2 := strings.IndexByte(line[pos1+1:], ':')
	if pos2 < 0 {
		return ""
	}
	return line[pos1+1 : pos1+1+pos2]
}

// Row is one entry of an aggregation map
type Row struct {
	Key string `json:"key"`
	model.NumStat
}

// Sorted returns rows ordered by touched lines, biggest first, then by key.
func Sorted(stats map[string]model.NumStat) []Row {
	rows := make([]Row, 0, len(stats))
	for key, stat := range stats {
		rows = append(rows, Row{Key: key, NumStat: stat})
	}
	slices.SortFunc(rows, func(a, b Row) int {
		if c := cmp.Compare(b.Total(), a.Total()); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return rows
}

// Totals sums all entries.
func Totals(stats map[string]model.NumStat) model.NumStat {
	var total model.NumStat
	for _, stat := range stats {
		total = total.Add(stat)
	}
	return total
}

// leadingInt parses leading decimal digits, "-" and other text give 0.
func leadingInt(s string) int {
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}

package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/patchgap/internal/model"
	"github.com/maxbolgarin/patchgap/internal/numstat"
	"github.com/maxbolgarin/patchgap/internal/patchdir"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Writer renders results as markdown tables or JSON documents
type Writer struct {
	out    io.Writer
	closer io.Closer
	cfg    Config
}

// New creates a writer to the configured output file or stdout.
func New(cfg Config) (*Writer, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}
	if cfg.Output == "" {
		return &Writer{out: os.Stdout, cfg: cfg}, nil
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return nil, errm.Wrap(err, "failed to create report file")
	}
	return &Writer{out: f, closer: f, cfg: cfg}, nil
}

// NewWithWriter creates a writer to w.
func NewWithWriter(cfg Config, w io.Writer) (*Writer, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}
	return &Writer{out: w, cfg: cfg}, nil
}

func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

// PatchDirs writes parsed commits of every directory.
func (w *Writer) PatchDirs(dirs []patchdir.Dir) error {
	if w.cfg.Format == FormatJSON {
		return w.writeJSON(dirs)
	}

	sections := w.cfg.sections()
	for _, d := range dirs {
		commits := make([]model.Commit, 0, len(d.Patches))
		for _, p := range d.Patches {
			commits = append(commits, p.Commit)
		}
		w.printf("\n## %s\n\n", d.Path)
		w.table(sections, len(commits), func(row int, section string) string {
			return commits[row].Field(section)
		})
	}
	return nil
}

// Gaps writes source patches missing from the target.
func (w *Writer) Gaps(gaps []patchdir.DirGaps) error {
	if w.cfg.Format == FormatJSON {
		return w.writeJSON(gaps)
	}

	sections := append([]string{"patch"}, w.cfg.sections()...)
	for _, d := range gaps {
		if len(d.Missing) == 0 {
			continue
		}
		w.printf("\n## %s (%d of %d missing)\n\n", d.Rel, len(d.Missing), d.Total)
		w.table(sections, len(d.Missing), func(row int, section string) string {
			gap := d.Missing[row]
			if section == "patch" {
				return gap.Patch.Path
			}
			return gap.Patch.Commit.Field(section)
		})
	}
	return nil
}

// NumStat writes aggregated line statistics sorted by the number of touched lines.
func (w *Writer) NumStat(keyName string, stats map[string]model.NumStat) error {
	rows := numstat.Sorted(stats)
	total := numstat.Totals(stats)

	if w.cfg.Format == FormatJSON {
		return w.writeJSON(struct {
			Rows  []numstat.Row `json:"rows"`
			Total model.NumStat `json:"total"`
		}{rows, total})
	}

	w.table([]string{keyName, "added", "removed"}, len(rows)+1, func(row int, section string) string {
		key, stat := "total", total
		if row < len(rows) {
			key, stat = rows[row].Key, rows[row].NumStat
		}
		switch section {
		case "added":
			return fmt.Sprint(stat.Added)
		case "removed":
			return fmt.Sprint(stat.Removed)
		default:
			return key
		}
	})
	return nil
}

// Verdict writes the result of comparing two patches.
func (w *Writer) Verdict(a, b string, robust, same bool) error {
	if w.cfg.Format == FormatJSON {
		return w.writeJSON(struct {
			A      string `json:"a"`
			B      string `json:"b"`
			Robust bool   `json:"robust"`
			Same   bool   `json:"same"`
		}{a, b, robust, same})
	}

	verdict := "different"
	if same {
		verdict = "same"
	}
	w.printf("%s %s %s\n", a, b, verdict)
	return nil
}

func (w *Writer) table(columns []string, rows int, cell func(row int, column string) string) {
	w.printf("| %s |\n", strings.Join(columns, " | "))
	w.printf("|%s\n", strings.Repeat(" --- |", len(columns)))
	for i := 0; i < rows; i++ {
		values := make([]string, 0, len(columns))
		for _, column := range columns {
			values = append(values, escapeCell(cell(i, column)))
		}
		w.printf("| %s |\n", strings.Join(values, " | "))
	}
}

func (w *Writer) writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errm.Wrap(err, "failed to marshal report")
	}
	if _, err := w.out.Write(append(data, '\n')); err != nil {
		return errm.Wrap(err, "failed to write report")
	}
	return nil
}

func (w *Writer) printf(format string, args ...any) {
	fmt.Fprintf(w.out, format, args...)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

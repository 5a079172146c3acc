package report

import (
	"slices"
	"strings"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/patchgap/internal/model"
)

const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"

	defaultSections = "id|date|author|changeId|title"
)

var (
	supportedFormats  = []string{FormatMarkdown, FormatJSON}
	supportedSections = []string{model.FieldID, model.FieldDate, model.FieldAuthor, model.FieldChangeID, model.FieldTitle}
)

type Config struct {
	Format string `yaml:"format" env:"PATCHGAP_REPORT_FORMAT"`
	// Sections is a '|' separated list of commit fields to print.
	Sections string `yaml:"sections" env:"PATCHGAP_REPORT_SECTIONS"`
	// Output is a file path, stdout if empty.
	Output string `yaml:"output" env:"PATCHGAP_REPORT_OUTPUT"`
}

func (cfg *Config) PrepareAndValidate() error {
	cfg.Format = lang.Check(strings.ToLower(cfg.Format), FormatMarkdown)
	cfg.Sections = lang.Check(cfg.Sections, defaultSections)

	if !slices.Contains(supportedFormats, cfg.Format) {
		return errm.New("unsupported report format: " + cfg.Format)
	}
	for _, section := range cfg.sections() {
		if section == "changedId" {
			continue
		}
		if !slices.Contains(supportedSections, section) {
			return errm.New("unknown report section: " + section)
		}
	}
	return nil
}

func (cfg Config) sections() []string {
	var out []string
	for _, s := range strings.Split(cfg.Sections, "|") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

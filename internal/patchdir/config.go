package patchdir

import (
	"path/filepath"
	"runtime"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
)

const defaultPattern = "*.patch"

type Config struct {
	Workers int    `yaml:"workers" env:"PATCHGAP_SCAN_WORKERS"`
	Pattern string `yaml:"pattern" env:"PATCHGAP_SCAN_PATTERN"`
	Verbose bool   `yaml:"verbose" env:"PATCHGAP_SCAN_VERBOSE"`
}

func (cfg *Config) PrepareAndValidate() error {
	cfg.Workers = lang.Check(cfg.Workers, runtime.NumCPU())
	cfg.Pattern = lang.Check(cfg.Pattern, defaultPattern)

	if cfg.Workers < 0 {
		return errm.New("workers must be positive")
	}
	if _, err := filepath.Match(cfg.Pattern, ""); err != nil {
		return errm.Wrap(err, "invalid pattern")
	}
	return nil
}

package gitexec

import (
	"slices"
	"time"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
)

const (
	TypeExec  = "exec"
	TypeGoGit = "gogit"

	defaultGitBin  = "git"
	defaultTimeout = 5 * time.Minute
)

var supportedTypes = []string{TypeExec, TypeGoGit}

type Config struct {
	Type    string        `yaml:"type" env:"PATCHGAP_BACKEND_TYPE"` // exec or gogit
	GitBin  string        `yaml:"git_bin" env:"PATCHGAP_BACKEND_GIT_BIN"`
	Timeout time.Duration `yaml:"timeout" env:"PATCHGAP_BACKEND_TIMEOUT"`
}

func (cfg *Config) PrepareAndValidate() error {
	cfg.Type = lang.Check(cfg.Type, TypeExec)
	cfg.GitBin = lang.Check(cfg.GitBin, defaultGitBin)
	cfg.Timeout = lang.Check(cfg.Timeout, defaultTimeout)

	if !slices.Contains(supportedTypes, cfg.Type) {
		return errm.Wrap(ErrUnknownBackend, cfg.Type)
	}
	if cfg.Timeout < 0 {
		return errm.New("timeout must not be negative")
	}
	return nil
}

package config

import (
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/patchgap/internal/classifier"
	"github.com/maxbolgarin/patchgap/internal/gitexec"
	"github.com/maxbolgarin/patchgap/internal/numstat"
	"github.com/maxbolgarin/patchgap/internal/patchdir"
	"github.com/maxbolgarin/patchgap/internal/report"
)

// Config represents the main application configuration
type Config struct {
	Log        LogConfig         `yaml:"log"`
	Backend    gitexec.Config    `yaml:"backend"`
	Scan       patchdir.Config   `yaml:"scan"`
	NumStat    numstat.Config    `yaml:"numstat"`
	Classifier classifier.Config `yaml:"classifier"`
	Report     report.Config     `yaml:"report"`
}

type LogConfig struct {
	Debug bool `yaml:"debug" env:"PATCHGAP_LOG_DEBUG"`
}

// Load reads configuration from a YAML file and environment, or from environment only if path is empty.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, errm.Wrap(ErrConfigNotFound, path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, errm.Wrap(err, "failed to read config file")
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, errm.Wrap(err, "failed to read environment")
		}
	}

	if err := cfg.PrepareAndValidate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// PrepareAndValidate fills defaults of every component.
func (c *Config) PrepareAndValidate() error {
	if err := c.Backend.PrepareAndValidate(); err != nil {
		return errm.Wrap(err, "invalid backend config")
	}
	if err := c.Scan.PrepareAndValidate(); err != nil {
		return errm.Wrap(err, "invalid scan config")
	}
	if err := c.NumStat.PrepareAndValidate(); err != nil {
		return errm.Wrap(err, "invalid numstat config")
	}
	if err := c.Report.PrepareAndValidate(); err != nil {
		return errm.Wrap(err, "invalid report config")
	}
	return nil
}

// Package config loads the preflight configuration file.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileName is looked up in the working directory when no file is given.
const FileName = ".preflight.yml"

const (
	DefaultRequiredGit   = ">=2.11.0"
	DefaultReleaseBranch = "master"
	DefaultGitBinary     = "git"
	DefaultLogLevel      = "info"
)

// Config is the content of .preflight.yml.
type Config struct {
	RequiredGit   string `yaml:"required_git"`
	ReleaseBranch string `yaml:"release_branch"`
	GitBinary     string `yaml:"git_binary"`
	// Graph is the path of the DOT file drawn after the run, empty disables drawing.
	Graph    string `yaml:"graph,omitempty"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		RequiredGit:   DefaultRequiredGit,
		ReleaseBranch: DefaultReleaseBranch,
		GitBinary:     DefaultGitBinary,
		LogLevel:      DefaultLogLevel,
	}
}

// Load reads path on top of the defaults. A missing file is not an error unless required is true.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}

		return cfg, errors.Wrapf(err, "unable to read config %s", path)
	}

	err = yaml.Unmarshal(content, &cfg)
	if err != nil {
		return cfg, errors.Wrapf(err, "unable to parse config %s", path)
	}

	cfg.fillDefaults()

	return cfg, nil
}

// fillDefaults restores defaults for keys set to an empty value.
func (c *Config) fillDefaults() {
	def := Default()

	if c.RequiredGit == "" {
		c.RequiredGit = def.RequiredGit
	}

	if c.ReleaseBranch == "" {
		c.ReleaseBranch = def.ReleaseBranch
	}

	if c.GitBinary == "" {
		c.GitBinary = def.GitBinary
	}

	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

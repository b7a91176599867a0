package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults used when neither the config file, the environment nor a flag
// sets a value.
const (
	DefaultMakefile = "./Makefile"
	DefaultRules    = "./RULES"
)

// Environment variables that override makecheck.yml.
const (
	EnvMakefile    = "MAKECHECK_MAKEFILE"
	EnvRules       = "MAKECHECK_RULES"
	EnvRecursive   = "MAKECHECK_RECURSIVE"
	EnvVerbose     = "MAKECHECK_VERBOSE"
	EnvConcurrency = "MAKECHECK_CONCURRENCY"
)

// ProjectConfig holds project-level settings loaded from makecheck.yml.
type ProjectConfig struct {
	Makefile    string   `yaml:"makefile,omitempty"`
	Rules       string   `yaml:"rules,omitempty"`
	Recursive   bool     `yaml:"recursive,omitempty"`
	Verbose     bool     `yaml:"verbose,omitempty"`
	ExcludeDirs []string `yaml:"excludeDirs,omitempty"`
	Concurrency int      `yaml:"concurrency,omitempty"`
}

// Load builds the configuration for dir: defaults, then makecheck.yml or
// makecheck.yaml, then a .env file in dir, then the process environment.
// A missing config file or .env is not an error.
func Load(dir string) (*ProjectConfig, error) {
	cfg := &ProjectConfig{
		Makefile: DefaultMakefile,
		Rules:    DefaultRules,
	}

	for _, name := range []string{"makecheck.yml", "makecheck.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		break
	}

	// Variables already set in the environment win over .env entries.
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ProjectConfig) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvMakefile)); v != "" {
		c.Makefile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRules)); v != "" {
		c.Rules = v
	}
	if err := envBool(EnvRecursive, &c.Recursive); err != nil {
		return err
	}
	if err := envBool(EnvVerbose, &c.Verbose); err != nil {
		return err
	}
	if v := strings.TrimSpace(os.Getenv(EnvConcurrency)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%s: expected a non-negative integer, got %q", EnvConcurrency, v)
		}
		c.Concurrency = n
	}
	return nil
}

func envBool(key string, dst *bool) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: expected a boolean, got %q", key, v)
	}
	*dst = b
	return nil
}

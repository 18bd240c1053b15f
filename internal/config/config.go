package config

import (
	"path/filepath"

	"github.com/mvp-joe/beangraph/internal/modules"
	"github.com/mvp-joe/beangraph/internal/scan"
)

// DirName is the per-repository configuration directory.
const DirName = ".beangraph"

// Config represents the complete beangraph configuration.
// It can be loaded from .beangraph/config.yml with environment variable overrides.
type Config struct {
	Modules ModulesConfig `yaml:"modules" mapstructure:"modules"`
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Scan    ScanConfig    `yaml:"scan" mapstructure:"scan"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// ModulesConfig selects which Gradle modules are indexed.
type ModulesConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // allow-list, empty means all
	File    string   `yaml:"file" mapstructure:"file"`       // extra allow-list entries, one per line
	Exclude []string `yaml:"exclude" mapstructure:"exclude"` // never indexed
}

// PathsConfig defines which files and directories are scanned.
type PathsConfig struct {
	Include          []string `yaml:"include" mapstructure:"include"`                     // glob patterns for source files
	Ignore           []string `yaml:"ignore" mapstructure:"ignore"`                       // glob patterns to ignore, relative to a source root
	SkipDirs         []string `yaml:"skip_dirs" mapstructure:"skip_dirs"`                 // directory names never descended into
	RespectGitignore bool     `yaml:"respect_gitignore" mapstructure:"respect_gitignore"` // skip directories matched by .gitignore
}

// ScanConfig controls the scanner.
type ScanConfig struct {
	IncludeTests bool `yaml:"include_tests" mapstructure:"include_tests"` // scan src/<set>/java beyond main
	Workers      int  `yaml:"workers" mapstructure:"workers"`             // 0 means one per CPU
}

// OutputConfig controls where records are written.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"` // relative paths resolve against the repository root
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Modules: ModulesConfig{
			Include: []string{},
			Exclude: []string{"ai-indexer"},
		},
		Paths: PathsConfig{
			Include:  append([]string(nil), scan.DefaultInclude...),
			Ignore:   []string{},
			SkipDirs: append([]string(nil), modules.DefaultSkipDirs...),
		},
		Scan: ScanConfig{
			IncludeTests: true,
		},
		Output: OutputConfig{
			Dir: ".repo-ai",
		},
	}
}

// OutputDir resolves the output directory against repoRoot.
func (c *Config) OutputDir(repoRoot string) string {
	if filepath.IsAbs(c.Output.Dir) {
		return c.Output.Dir
	}
	return filepath.Join(repoRoot, c.Output.Dir)
}

// ModuleFile resolves the module file against repoRoot. Empty when unset.
func (c *Config) ModuleFile(repoRoot string) string {
	if c.Modules.File == "" || filepath.IsAbs(c.Modules.File) {
		return c.Modules.File
	}
	return filepath.Join(repoRoot, c.Modules.File)
}

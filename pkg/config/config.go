// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/backportrc/pkg/content"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultFile is looked up in the working directory when no --config is given
	DefaultFile = ".backportrc.yaml"
	// DefaultSourceBranch is read from when no source branch is configured
	DefaultSourceBranch = "main"
	// DefaultBackend is the version-control backend name
	DefaultBackend = "git"
)

var (
	// ErrNoParser is returned by Load for an unsupported file extension
	ErrNoParser = errors.Base("no parser found for file")
	// ErrMissingFileList is returned by Validate when no file list is set
	ErrMissingFileList = errors.Base("file_list is required")
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 Replacement represents a string replacement in text files
type Replacement struct {
	Old  string  `json:"old" yaml:"old" hcl:"old"`                                 // Original string to replace
	New  string  `json:"new" yaml:"new" hcl:"new"`                                 // New string to use
	File *string `json:"file,omitempty" yaml:"file,omitempty" hcl:"file,optional"` // Optional glob of files to apply to
}

// 🐙 GitHub configures reading content from the GitHub contents API
type GitHub struct {
	Repo     string `json:"repo" yaml:"repo" hcl:"repo"`
	TokenEnv string `json:"token_env,omitempty" yaml:"token_env,omitempty" hcl:"token_env,optional"`
}

// 📚 Config represents the complete configuration
type Config struct {
	FileList         string        `json:"file_list,omitempty" yaml:"file_list,omitempty" hcl:"file_list,optional"`
	SourceBranch     string        `json:"source_branch,omitempty" yaml:"source_branch,omitempty" hcl:"source_branch,optional"`
	TargetBranch     string        `json:"target_branch,omitempty" yaml:"target_branch,omitempty" hcl:"target_branch,optional"`
	Encoding         string        `json:"encoding,omitempty" yaml:"encoding,omitempty" hcl:"encoding,optional"`
	Backend          string        `json:"backend,omitempty" yaml:"backend,omitempty" hcl:"backend,optional"`
	Repository       string        `json:"repository,omitempty" yaml:"repository,omitempty" hcl:"repository,optional"`
	Stage            *bool         `json:"stage,omitempty" yaml:"stage,omitempty" hcl:"stage,optional"`
	DryRun           bool          `json:"dry_run,omitempty" yaml:"dry_run,omitempty" hcl:"dry_run,optional"`
	IgnorePatterns   []string      `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty" hcl:"ignore_patterns,optional"`
	BinaryExtensions []string      `json:"binary_extensions,omitempty" yaml:"binary_extensions,omitempty" hcl:"binary_extensions,optional"`
	Replacements     []Replacement `json:"replacements,omitempty" yaml:"replacements,omitempty" hcl:"replacement,block"`
	GitHub           *GitHub       `json:"github,omitempty" yaml:"github,omitempty" hcl:"github,block"`
}

// Default returns a config with every default applied except the file list.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// 🎯 Load loads the configuration from a file. The result is not validated;
// callers merge command-line overrides first and then call Validate.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("%w: %s", ErrNoParser, path)
	}

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.SourceBranch == "" {
		cfg.SourceBranch = DefaultSourceBranch
	}
	if cfg.Encoding == "" {
		cfg.Encoding = content.DefaultEncoding
	}
	if cfg.Backend == "" {
		cfg.Backend = DefaultBackend
	}
	if cfg.Repository == "" {
		cfg.Repository = "."
	}
	if cfg.Stage == nil {
		stage := true
		cfg.Stage = &stage
	}
	if cfg.GitHub != nil && cfg.GitHub.TokenEnv == "" {
		cfg.GitHub.TokenEnv = "GITHUB_TOKEN"
	}
}

// 🔍 Validate applies defaults and checks if the configuration is valid.
// backends lists the accepted backend names; nil accepts any.
func (cfg *Config) Validate(backends ...string) error {
	if err := cfg.ValidateFileList(); err != nil {
		return err
	}

	// a remote source may share branch names with the local worktree
	if cfg.GitHub == nil && cfg.TargetBranch != "" && cfg.TargetBranch == cfg.SourceBranch {
		return errors.Errorf("source and target branch are both %q", cfg.SourceBranch)
	}

	if len(backends) > 0 && !contains(backends, cfg.Backend) {
		return errors.Errorf("unknown backend %q (available: %s)", cfg.Backend, strings.Join(backends, ", "))
	}

	if cfg.GitHub != nil && cfg.GitHub.Repo == "" {
		return errors.Errorf("github.repo is required when github is set")
	}

	return nil
}

// ValidateFileList applies defaults and checks only what reading and
// classifying the file list needs. Branches and backends are not looked at.
func (cfg *Config) ValidateFileList() error {
	cfg.applyDefaults()

	if strings.TrimSpace(cfg.FileList) == "" {
		return errors.WithStack(ErrMissingFileList)
	}

	// Clean up paths
	cfg.FileList = filepath.Clean(cfg.FileList)
	cfg.Repository = filepath.Clean(cfg.Repository)

	if _, err := content.LookupCodec(cfg.Encoding); err != nil {
		return errors.Errorf("encoding: %w", err)
	}

	for _, pattern := range cfg.IgnorePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	for i, r := range cfg.Replacements {
		if r.Old == "" {
			return errors.Errorf("replacement %d: old is required", i+1)
		}
		if r.File != nil && !doublestar.ValidatePattern(*r.File) {
			return errors.Errorf("replacement %d: invalid file glob %q", i+1, *r.File)
		}
	}

	return nil
}

// ShouldStage reports whether synced files get staged.
func (cfg *Config) ShouldStage() bool {
	return !cfg.DryRun && (cfg.Stage == nil || *cfg.Stage)
}

// Ignored reports whether path matches one of the ignore patterns.
func (cfg *Config) Ignored(path string) bool {
	path = filepath.ToSlash(path)
	for _, pattern := range cfg.IgnorePatterns {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	target := cfg.TargetBranch
	if target == "" {
		target = "(current)"
	}
	source := cfg.SourceBranch
	if source == "" {
		source = DefaultSourceBranch
	}
	if cfg.GitHub != nil {
		source = cfg.GitHub.Repo + "@" + source
	}
	return fmt.Sprintf("%s: %s -> %s", cfg.FileList, source, target)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

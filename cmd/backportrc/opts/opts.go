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

package opts

import (
	"context"
	"io"
	"os"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/walteh/backportrc/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// RootOpts holds the command-line flags shared by every command
type RootOpts struct {
	ConfigFile string
	FileList   string
	Source     string
	Target     string
	Encoding   string
	Backend    string
	NoStage    bool
	DryRun     bool
	Debug      bool
	Version    bool

	Stdout io.Writer
	Stderr io.Writer
}

// AddPersistentFlags registers flags every subcommand understands.
func (o *RootOpts) AddPersistentFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigFile, "config", "c", config.DefaultFile, "config file path (yaml, json or hcl); ignored when the default is absent")
	fs.StringVarP(&o.FileList, "file-list", "f", "", "path of the file list document")
	fs.StringVarP(&o.Encoding, "encoding", "e", "", "text encoding of the file list and text files (default utf-8)")
	fs.BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// AddSyncFlags registers flags only the sync command understands.
func (o *RootOpts) AddSyncFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Source, "source", "s", "", "branch to read files from (default main)")
	fs.StringVarP(&o.Target, "target", "t", "", "branch to write files to (default current branch)")
	fs.StringVarP(&o.Backend, "backend", "b", "", "version control backend: git or go-git")
	fs.BoolVar(&o.NoStage, "no-stage", false, "do not stage synced files")
	fs.BoolVar(&o.DryRun, "dry-run", false, "fetch and report without writing or staging")
	fs.BoolVarP(&o.Version, "version", "v", false, "print version information")
}

// 🎯 LoadConfig reads the config file, applies flags that were set on the
// command line and validates the result. A positional argument names the file
// list only when --file-list was not given. backends lists accepted backend
// names.
func (o *RootOpts) LoadConfig(ctx context.Context, fs *pflag.FlagSet, args []string, backends ...string) (*config.Config, error) {
	return o.loadConfig(ctx, fs, args, func(cfg *config.Config) error {
		return cfg.Validate(backends...)
	})
}

// LoadFileListConfig is LoadConfig for commands that only read the file list.
// Branch and backend settings are not validated.
func (o *RootOpts) LoadFileListConfig(ctx context.Context, fs *pflag.FlagSet, args []string) (*config.Config, error) {
	return o.loadConfig(ctx, fs, args, (*config.Config).ValidateFileList)
}

func (o *RootOpts) loadConfig(ctx context.Context, fs *pflag.FlagSet, args []string, validate func(*config.Config) error) (*config.Config, error) {
	cfg, err := o.readConfig(ctx, fs)
	if err != nil {
		return nil, err
	}

	switch {
	case changed(fs, "file-list"):
		cfg.FileList = o.FileList
	case len(args) > 0:
		cfg.FileList = args[0]
	}

	if changed(fs, "source") {
		cfg.SourceBranch = o.Source
	}
	if changed(fs, "target") {
		cfg.TargetBranch = o.Target
	}
	if changed(fs, "encoding") {
		cfg.Encoding = o.Encoding
	}
	if changed(fs, "backend") {
		cfg.Backend = o.Backend
	}
	if changed(fs, "no-stage") {
		stage := !o.NoStage
		cfg.Stage = &stage
	}
	if changed(fs, "dry-run") {
		cfg.DryRun = o.DryRun
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// UserConfigFile is looked up under the XDG config directories when the
// default config file is absent from the working directory.
const UserConfigFile = "backportrc/config.yaml"

// readConfig loads the config file. A file named with --config must exist;
// otherwise the default file is tried, then the user config file, and with
// neither present only flags apply.
func (o *RootOpts) readConfig(ctx context.Context, fs *pflag.FlagSet) (*config.Config, error) {
	logger := zerolog.Ctx(ctx)

	path := o.ConfigFile
	if path == "" {
		return &config.Config{}, nil
	}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) || changed(fs, "config") {
			return nil, errors.Errorf("config file %s: %w", path, err)
		}

		user, serr := xdg.SearchConfigFile(UserConfigFile)
		if serr != nil {
			logger.Debug().Str("path", path).Msg("no config file, using flags only")
			return &config.Config{}, nil
		}
		path = user
	}

	logger.Debug().Str("path", path).Msg("using config file")

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func changed(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed
}

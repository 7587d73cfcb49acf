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

package commands

import (
	"context"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/pflag"
	"github.com/walteh/backportrc/cmd/backportrc/opts"
	"github.com/walteh/backportrc/pkg/config"
	"github.com/walteh/backportrc/pkg/content"
	"github.com/walteh/backportrc/pkg/filelist"
	"github.com/walteh/backportrc/pkg/log"
	"github.com/walteh/backportrc/pkg/operation"
	"github.com/walteh/backportrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// ErrSyncFailed is returned when at least one file failed or staging failed.
// The summary has already been printed.
var ErrSyncFailed = errors.Base("sync finished with failures")

// 🔄 RunSync loads the configuration and file list, backports every listed
// file and prints the summary.
func RunSync(ctx context.Context, o *opts.RootOpts, fs *pflag.FlagSet, args []string) error {
	logger := log.FromContext(ctx)

	cfg, err := o.LoadConfig(ctx, fs, args, Backends()...)
	if err != nil {
		return err
	}

	logger.Header(cfg.String())

	list, err := LoadFileList(ctx, cfg)
	if err != nil {
		return err
	}

	p, err := OpenProvider(ctx, cfg)
	if err != nil {
		return err
	}

	report, err := operation.Sync(ctx, operation.Options{
		Config:   cfg,
		List:     list,
		Worktree: p,
		Source:   p,
		Files:    status.New(osfs.New(p.Root())),
		Logger:   logger,
	})
	if err != nil {
		return errors.Errorf("syncing files: %w", err)
	}

	logger.Summary(report)

	if report.Failed() {
		return errors.WithStack(ErrSyncFailed)
	}
	return nil
}

// 📥 LoadFileList reads the configured file list relative to the working
// directory.
func LoadFileList(ctx context.Context, cfg *config.Config) (*filelist.List, error) {
	codec, err := content.LookupCodec(cfg.Encoding)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(cfg.FileList)
	if err != nil {
		return nil, errors.Errorf("resolving file list path: %w", err)
	}

	return filelist.Load(ctx, osfs.New(filepath.Dir(abs)), filepath.Base(abs), codec)
}

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

package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/backportrc/cmd/backportrc/commands"
	"github.com/walteh/backportrc/cmd/backportrc/opts"
	"github.com/walteh/backportrc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

func newRootCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backportrc [file-list]",
		Short: "Backport a curated list of files from one branch into another",
		Long: `backportrc reads a file list, fetches every listed file from the source
branch and writes it into the working tree of the target branch.

The file list is plain text: lines starting with "-" or ending in a known
extension are paths, an optional trailing "(comment)" annotates a path, lines
starting with "#" are ignored and any other line opens a section.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd, o)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.Version {
				fmt.Fprint(o.Stdout, FormatVersion())
				return nil
			}
			return commands.RunSync(cmd.Context(), o, cmd.Flags(), args)
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return errors.Errorf("%w (see %s --help)", err, c.CommandPath())
	})

	o.AddPersistentFlags(cmd.PersistentFlags())
	o.AddSyncFlags(cmd.Flags())

	cmd.AddCommand(commands.NewListCmd(o))

	return cmd
}

// setupLogging raises the structured logger to debug when --debug is set.
// Console lines are then mirrored as structured events too.
func setupLogging(cmd *cobra.Command, o *opts.RootOpts) {
	if !o.Debug {
		return
	}
	ctx := cmd.Context()
	zlog := zerolog.Ctx(ctx).Level(zerolog.DebugLevel)
	ctx = zlog.WithContext(ctx)
	ctx = log.NewContext(ctx, log.New(o.Stdout, zlog))
	cmd.SetContext(ctx)
}

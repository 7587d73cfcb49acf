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
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/backportrc/cmd/backportrc/opts"
	"github.com/walteh/backportrc/pkg/content"
	"github.com/walteh/backportrc/pkg/filelist"
	"gitlab.com/tozd/go/errors"
)

// NewListCmd creates the list command, which parses a file list and prints
// what a sync would process without touching the repository.
func NewListCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [file-list]",
		Short: "Print the sections and files of a file list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := o.LoadFileListConfig(ctx, cmd.Flags(), args)
			if err != nil {
				return err
			}

			list, err := LoadFileList(ctx, cfg)
			if err != nil {
				return err
			}

			out, err := RenderList(list, cfg.BinaryExtensions...)
			if err != nil {
				return err
			}

			fmt.Fprint(o.Stdout, out)
			return nil
		},
	}

	return cmd
}

// RenderList formats a parsed list as one table row per entry followed by
// the per-section counts.
func RenderList(list *filelist.List, binaryExtensions ...string) (string, error) {
	data := pterm.TableData{{"Section", "Path", "Type", "Comment"}}
	for _, e := range list.Entries {
		kind := "text"
		if content.IsBinary(e.Path, binaryExtensions...) {
			kind = "binary"
		}
		data = append(data, []string{e.Section, e.Path, kind, e.Comment})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", errors.Errorf("rendering file list: %w", err)
	}

	out := table + "\n\n"
	for _, s := range list.NonEmptySections() {
		out += fmt.Sprintf("%s %s\n", color.New(color.Bold).Sprint(s.Name), color.New(color.Faint).Sprint(strconv.Itoa(len(s.Files))+" files"))
	}
	out += fmt.Sprintf("%d files in %d sections\n", list.Len(), len(list.NonEmptySections()))
	return out, nil
}

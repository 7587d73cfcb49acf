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

package log

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/walteh/backportrc/pkg/status"
)

// 📊 Summary prints the end-of-run report: a table of sections that received
// files, the totals, and every failure with its section.
func (l *Logger) Summary(r *status.Report) {
	table := sectionTable(r)

	l.mu.Lock()
	fmt.Fprintln(l.console)
	if table != "" {
		fmt.Fprint(l.console, table)
		fmt.Fprintln(l.console)
	}
	for _, f := range r.Failures {
		where := ""
		if f.Section != "" {
			where = color.New(color.Faint).Sprintf(" [%s]", f.Section)
		}
		fmt.Fprintf(l.console, "%*s%s %s%s: %v\n", fileIndent, "",
			color.RedString("✗"), f.Path, where, f.Err)
	}
	l.mu.Unlock()

	l.zlog.Info().
		Int("processed", r.Processed).
		Int("skipped", r.Skipped).
		Int("failed", len(r.Failures)).
		Int("created", r.Created).
		Int("modified", r.Modified).
		Int("unchanged", r.Unchanged).
		Bool("dry_run", r.DryRun).
		Msg("sync summary")

	totals := fmt.Sprintf("%d processed, %d skipped, %d failed", r.Processed, r.Skipped, len(r.Failures))
	if r.DryRun {
		totals += " (dry run, nothing written)"
	}

	switch {
	case r.StageErr != nil:
		l.Errorf("%s; staging failed: %v", totals, r.StageErr)
	case len(r.Failures) > 0:
		l.Error(totals)
	default:
		l.Success(totals)
	}
}

func sectionTable(r *status.Report) string {
	if len(r.Sections) == 0 {
		return ""
	}

	data := pterm.TableData{{"Section", "Synced", "Listed"}}
	for _, s := range r.Sections {
		data = append(data, []string{s.Name, strconv.Itoa(s.Processed), strconv.Itoa(s.Total)})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return ""
	}
	return out
}

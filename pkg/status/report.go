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

package status

import "context"

// ❌ Failure is one file that could not be synced
type Failure struct {
	Path    string
	Section string
	Err     error
}

// SectionCount is the number of processed files in one section
type SectionCount struct {
	Name      string
	Processed int
	Total     int
}

// 📊 Report summarizes a run
type Report struct {
	Processed int
	Skipped   int
	Created   int
	Modified  int
	Unchanged int
	Failures  []Failure
	// Sections in first-seen order; files outside any section are not counted here
	Sections []SectionCount
	// StageErr is set when staging the written files failed
	StageErr error
	DryRun   bool
}

// Failed reports whether the run should exit non-zero.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0 || r.StageErr != nil
}

// Total returns the number of files the report covers.
func (r *Report) Total() int {
	return r.Processed + r.Skipped + len(r.Failures)
}

// Report builds a summary of everything tracked so far.
func (m *Manager) Report(ctx context.Context) *Report {
	r := &Report{}
	sections := map[string]int{}

	for _, f := range m.ListFiles(ctx) {
		switch f.Status {
		case StatusNew:
			r.Created++
		case StatusModified:
			r.Modified++
		case StatusUnchanged:
			r.Unchanged++
		case StatusSkipped:
			r.Skipped++
		case StatusFailed:
			r.Failures = append(r.Failures, Failure{Path: f.Path, Section: f.Section, Err: f.Error})
		}
		if f.Status.Processed() {
			r.Processed++
		}

		if f.Section == "" {
			continue
		}
		i, ok := sections[f.Section]
		if !ok {
			i = len(r.Sections)
			sections[f.Section] = i
			r.Sections = append(r.Sections, SectionCount{Name: f.Section})
		}
		r.Sections[i].Total++
		if f.Status.Processed() {
			r.Sections[i].Processed++
		}
	}

	return r
}

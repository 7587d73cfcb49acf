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

/*
Package status is the filesystem collaborator and the record keeper of a run.

	+-----------+      +-----------+      +-----------+
	| operation | ---> |  Manager  | ---> |  billy.FS |
	+-----------+      +-----+-----+      +-----------+
	                         |
	                         v
	                   +-----------+
	                   |  Report   |
	                   +-----------+

🎯 Purpose:
- Writes fetched content into the working tree (parents created, temp file
  renamed into place)
- Tracks a FileInfo per listed path, in list order
- Reports progress and builds the end-of-run Report

📊 File states:
  - new: the path did not exist in the working tree
  - modified: it existed with different content
  - unchanged: it existed with identical content
  - skipped: an ignore pattern excluded it before fetching
  - failed: fetching or writing failed; the run continues

A Report counts processed vs skipped files, lists every failure with its
section, and gives per-section counts for sections that received files.

🔍 Example:

	mgr := status.New(osfs.New(root))

	st, err := mgr.Compare(ctx, "src/app.js", content)
	if err := mgr.WriteFile(ctx, "src/app.js", content); err != nil {
		mgr.TrackFile(ctx, status.FileInfo{Path: "src/app.js", Status: status.StatusFailed, Error: err})
	}

	report := mgr.Report(ctx)
	if report.Failed() {
		os.Exit(1)
	}
*/
package status

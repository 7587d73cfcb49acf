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
Package operation runs a backport: it moves the working tree onto the target
branch, copies every listed file from the source branch and stages what it
wrote.

	+-----------+     +--------+     +---------+
	| checkout  | --> |  copy  | --> |  stage  |
	+-----------+     +--------+     +---------+
	      |               |               |
	  Worktree      Source + Files     Worktree

🎯 Steps:
  - checkout resolves the current branch, defaults the target to it and
    switches when they differ
  - copy walks the file list in order; ignored entries are skipped, every
    other entry is fetched at the source branch, run through the configured
    encoding and replacements (text only) and written when it changed
  - stage adds the written files unless staging is off or the run is dry

⚡ Failure model:
A file that cannot be fetched or written is tracked as failed and the loop
continues. Only setup problems (resolving or switching branches) abort the
run. A staging failure is carried on the report so the summary can still be
printed.

🔍 Example:

	report, err := operation.Sync(ctx, operation.Options{
		Config:   cfg,
		List:     list,
		Worktree: repo,
		Source:   repo,
		Files:    status.New(osfs.New(repo.Root())),
		Logger:   log.FromContext(ctx),
	})
*/
package operation

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
Package provider defines the version-control collaborators backportrc drives.

	        +-----------------+
	        |    Provider     |
	        | Worktree+Source |
	        +--------+--------+
	                 |
	    +------------+------------+
	    |            |            |
	+---+----+  +----+----+  +----+-----+
	| gitcli |  |  gogit  |  |  github  |
	|  git   |  | go-git  |  | (Source) |
	+--------+  +---------+  +----------+

🎯 Purpose:
- Worktree: the local checkout files are written into (current branch,
  checkout, staging)
- Source: where historical content comes from (a revision + a path)

🔄 Flow:
 1. The CLI picks a backend by name ("git" or "go-git")
 2. The operation layer asks the Worktree for the current branch and
    switches to the target branch when they differ
 3. Each listed path is read from the Source at the source branch
 4. Written paths are staged through the Worktree

Backends register themselves from init, so importing a backend package is
enough to make it available through New:

	import _ "github.com/walteh/backportrc/pkg/provider/gitcli"

	p, err := provider.New(ctx, "git", provider.Args{Dir: "."})

A Source may differ from the Worktree; Split combines a local Worktree with
a remote Source such as the GitHub contents API.

⚠️ ReadFile must wrap ErrNotFound when the path does not exist at the
revision so callers can tell "missing in source" apart from backend failures.
*/
package provider

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

// Package config loads backportrc settings from a file and validates them after
// command-line flags have been merged in.
//
// 🎯 Formats (picked by extension through the Parser registry):
//   - .yaml / .yml: unknown keys are rejected
//   - .json: unknown fields are rejected
//   - .hcl: attributes plus repeated replacement blocks and an optional github
//     block; expressions may call env("NAME")
//
// 🔄 Flow:
//  1. Load parses the file (no validation yet)
//  2. The CLI overrides fields with any flags the user set
//  3. Validate applies defaults and rejects bad combinations
//
// 📝 Defaults:
//   - source_branch: main
//   - target_branch: the branch currently checked out
//   - encoding: utf-8
//   - backend: git
//   - repository: .
//   - stage: true
//
// 🔍 Example (.backportrc.yaml):
//
//	file_list: backport.txt
//	source_branch: main
//	ignore_patterns:
//	  - "dist/**"
//	replacements:
//	  - old: "v2 beta"
//	    new: "v1"
//	    file: "src/**/*.svelte"
//
// Or the same in HCL:
//
//	file_list     = "backport.txt"
//	source_branch = "main"
//
//	replacement {
//	  old  = "v2 beta"
//	  new  = "v1"
//	  file = "src/**/*.svelte"
//	}
//
//	github {
//	  repo      = "walteh/site"
//	  token_env = "SITE_TOKEN"
//	}
package config

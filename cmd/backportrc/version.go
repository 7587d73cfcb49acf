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
	"runtime"
	"runtime/debug"
	"strings"
)

// buildInfo is what --version reports
type buildInfo struct {
	Module   string
	Version  string
	Revision string
	Time     string
	Dirty    bool
	Go       string
	Platform string
}

func readBuildInfo() buildInfo {
	info := buildInfo{
		Module:   "github.com/walteh/backportrc",
		Version:  "dev",
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	if bi.Main.Path != "" {
		info.Module = bi.Main.Path
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.time":
			info.Time = s.Value
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}

	return info
}

// FormatVersion renders the build information for --version.
func FormatVersion() string {
	info := readBuildInfo()

	rev := info.Revision
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if rev == "" {
		rev = "unknown"
	}
	if info.Dirty {
		rev += " (dirty)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🚀 backportrc %s\n", info.Version)
	fmt.Fprintf(&b, "Module:    %s\n", info.Module)
	fmt.Fprintf(&b, "Revision:  %s\n", rev)
	if info.Time != "" {
		fmt.Fprintf(&b, "Built:     %s\n", info.Time)
	}
	fmt.Fprintf(&b, "Go:        %s (%s)\n", info.Go, info.Platform)
	return b.String()
}

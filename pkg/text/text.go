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

// Package text rewrites backported text files with literal replacements,
// for example import paths that differ between branches.
package text

import (
	"context"
	"io"

	"github.com/bmatcuk/doublestar/v4"
)

// 🔄 ReplacementRule replaces every occurrence of FromText with ToText in
// files matching FileFilterGlob. An empty glob matches every file.
type ReplacementRule struct {
	FromText       string
	ToText         string
	FileFilterGlob string
}

// 📦 ReplacementResult describes the outcome of applying rules to one file
type ReplacementResult struct {
	OriginalContent  []byte
	ModifiedContent  []byte
	WasModified      bool
	ReplacementCount int
	// RuleCounts holds the replacements made by each rule, indexed like the rules
	RuleCounts []int
}

// 🔧 TextReplacer applies replacement rules to content
type TextReplacer interface {
	// ReplaceText applies rules in order to content
	ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error)
	// ValidateRules checks rules before any file is touched
	ValidateRules(rules []ReplacementRule) error
}

// Matches reports whether the rule applies to path.
func (r ReplacementRule) Matches(path string) bool {
	if r.FileFilterGlob == "" {
		return true
	}
	ok, err := doublestar.Match(r.FileFilterGlob, path)
	return err == nil && ok
}

// RulesFor returns the rules that apply to path, keeping their order.
func RulesFor(path string, rules []ReplacementRule) []ReplacementRule {
	var out []ReplacementRule
	for _, r := range rules {
		if r.Matches(path) {
			out = append(out, r)
		}
	}
	return out
}

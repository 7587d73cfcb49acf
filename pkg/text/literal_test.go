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

package text

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestLiteralReplacer_ReplaceText(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		rules        []ReplacementRule
		want         string
		wantCount    int
		wantRules    []int
		wantModified bool
	}{
		{
			name:         "import_path",
			content:      `import { Button } from "@site/ui-next";`,
			rules:        []ReplacementRule{{FromText: "@site/ui-next", ToText: "@site/ui"}},
			want:         `import { Button } from "@site/ui";`,
			wantCount:    1,
			wantRules:    []int{1},
			wantModified: true,
		},
		{
			name:    "rules_apply_in_order",
			content: "api/v3 api/v3",
			rules: []ReplacementRule{
				{FromText: "v3", ToText: "v2"},
				{FromText: "api/v2", ToText: "legacy-api/v2"},
			},
			want:         "legacy-api/v2 legacy-api/v2",
			wantCount:    4,
			wantRules:    []int{2, 2},
			wantModified: true,
		},
		{
			name:         "no_match",
			content:      "body { color: red; }",
			rules:        []ReplacementRule{{FromText: "--brand", ToText: "--color"}},
			want:         "body { color: red; }",
			wantRules:    []int{0},
			wantModified: false,
		},
		{
			name:    "swap_back_is_not_a_modification",
			content: "stable",
			rules: []ReplacementRule{
				{FromText: "stable", ToText: "next"},
				{FromText: "next", ToText: "stable"},
			},
			want:         "stable",
			wantCount:    2,
			wantRules:    []int{1, 1},
			wantModified: false,
		},
		{
			name:      "empty_content",
			content:   "",
			rules:     []ReplacementRule{{FromText: "x", ToText: "y"}},
			want:      "",
			wantRules: []int{0},
		},
		{
			name:      "no_rules",
			content:   "unchanged",
			want:      "unchanged",
			wantRules: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewLiteralReplacer().ReplaceText(context.Background(), strings.NewReader(tt.content), tt.rules)
			require.NoError(t, err)

			assert.Equal(t, tt.content, string(result.OriginalContent), "original content should be kept")
			assert.Equal(t, tt.want, string(result.ModifiedContent))
			assert.Equal(t, tt.wantCount, result.ReplacementCount)
			assert.Equal(t, tt.wantRules, result.RuleCounts)
			assert.Equal(t, tt.wantModified, result.WasModified)
		})
	}
}

func TestLiteralReplacer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLiteralReplacer().ReplaceText(ctx, strings.NewReader("a"), []ReplacementRule{{FromText: "a", ToText: "b"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLiteralReplacer_ValidateRules(t *testing.T) {
	tests := []struct {
		name    string
		rules   []ReplacementRule
		wantErr string
	}{
		{
			name:  "valid",
			rules: []ReplacementRule{{FromText: "next", ToText: "stable", FileFilterGlob: "src/**/*.ts"}},
		},
		{
			name:  "glob_optional",
			rules: []ReplacementRule{{FromText: "next", ToText: "stable"}},
		},
		{
			name:    "missing_old_text",
			rules:   []ReplacementRule{{FromText: "ok", ToText: "fine"}, {ToText: "stable"}},
			wantErr: "replacement 2: old text is required",
		},
		{
			name:    "no_op_rule",
			rules:   []ReplacementRule{{FromText: "same", ToText: "same"}},
			wantErr: `old and new text are both "same"`,
		},
		{
			name:    "bad_glob",
			rules:   []ReplacementRule{{FromText: "a", ToText: "b", FileFilterGlob: "src/["}},
			wantErr: "invalid file glob",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewLiteralReplacer().ValidateRules(tt.rules)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRulesFor(t *testing.T) {
	rules := []ReplacementRule{
		{FromText: "@app/v2", ToText: "@app/v1", FileFilterGlob: "src/**/*.ts"},
		{FromText: "2025", ToText: "2024"},
		{FromText: "brand-new", ToText: "brand", FileFilterGlob: "**/*.css"},
	}

	tests := []struct {
		name string
		path string
		want []string
	}{
		{name: "nested_ts", path: "src/lib/util/index.ts", want: []string{"@app/v2", "2025"}},
		{name: "css", path: "styles/site.css", want: []string{"2025", "brand-new"}},
		{name: "other", path: "README.md", want: []string{"2025"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []string{}
			for _, r := range RulesFor(tt.path, rules) {
				got = append(got, r.FromText)
			}
			assert.Equal(t, tt.want, got, "matching rules should keep their order")
		})
	}
}

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

package filelist

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/backportrc/pkg/content"
	"gitlab.com/tozd/go/errors"
)

func sectionNames(l *List) []string {
	names := make([]string, 0, len(l.Sections))
	for _, s := range l.Sections {
		names = append(names, s.Name)
	}
	return names
}

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantPaths    []string
		wantComments map[string]string
		wantSections map[string][]string
		wantNames    []string
	}{
		{
			name:         "dashed_with_comment",
			input:        "- foo.js (hello)",
			wantPaths:    []string{"foo.js"},
			wantComments: map[string]string{"foo.js": "hello"},
		},
		{
			name:         "undashed_with_comment",
			input:        "foo.js (hello)",
			wantPaths:    []string{"foo.js"},
			wantComments: map[string]string{"foo.js": "hello"},
		},
		{
			name:         "plain_path_with_extension",
			input:        "plain/path/without/bullet.js",
			wantPaths:    []string{"plain/path/without/bullet.js"},
			wantComments: map[string]string{},
		},
		{
			name:         "header_only",
			input:        "Random Header Text",
			wantPaths:    nil,
			wantComments: map[string]string{},
			wantNames:    []string{"Random Header Text"},
		},
		{
			name: "two_sections",
			input: `Section A
- a.js
- b.css
Section B
- c.png (binary)`,
			wantPaths:    []string{"a.js", "b.css", "c.png"},
			wantComments: map[string]string{"c.png": "binary"},
			wantSections: map[string][]string{
				"Section A": {"a.js", "b.css"},
				"Section B": {"c.png"},
			},
			wantNames: []string{"Section A", "Section B"},
		},
		{
			name: "duplicate_path_last_comment_wins",
			input: `- x.js (first)
- y.js
- x.js (second)`,
			wantPaths:    []string{"x.js", "y.js", "x.js"},
			wantComments: map[string]string{"x.js": "second"},
		},
		{
			name: "comments_never_affect_sections",
			input: `# leading comment
Section A
# between header and file
- a.js
# between files
- b.js
  # indented comment
Section B
- c.js`,
			wantPaths:    []string{"a.js", "b.js", "c.js"},
			wantComments: map[string]string{},
			wantSections: map[string][]string{
				"Section A": {"a.js", "b.js"},
				"Section B": {"c.js"},
			},
			wantNames: []string{"Section A", "Section B"},
		},
		{
			name: "consecutive_headers_keep_empty_section",
			input: `Heading
Subheading
- a.js`,
			wantPaths:    []string{"a.js"},
			wantComments: map[string]string{},
			wantSections: map[string][]string{
				"Heading":    nil,
				"Subheading": {"a.js"},
			},
			wantNames: []string{"Heading", "Subheading"},
		},
		{
			name: "unsectioned_then_sectioned",
			input: `top.js
Later
- later.js`,
			wantPaths:    []string{"top.js", "later.js"},
			wantComments: map[string]string{},
			wantSections: map[string][]string{
				"Later": {"later.js"},
			},
			wantNames: []string{"Later"},
		},
		{
			name: "blank_and_bare_dash_skipped",
			input: `

-
-
- real.ts
`,
			wantPaths:    []string{"real.ts"},
			wantComments: map[string]string{},
		},
		{
			name:         "dash_makes_any_line_a_path",
			input:        "- Makefile",
			wantPaths:    []string{"Makefile"},
			wantComments: map[string]string{},
		},
		{
			name:         "case_insensitive_extension",
			input:        "assets/LOGO.SVG",
			wantPaths:    []string{"assets/LOGO.SVG"},
			wantComments: map[string]string{},
		},
		{
			name:         "crlf_and_surrounding_whitespace",
			input:        "Section\r\n   - a.js   (note)  \r\n",
			wantPaths:    []string{"a.js"},
			wantComments: map[string]string{"a.js": "note"},
			wantSections: map[string][]string{"Section": {"a.js"}},
			wantNames:    []string{"Section"},
		},
		{
			name:         "nested_parentheses_not_a_comment",
			input:        "- weird (a (b)).js",
			wantPaths:    []string{"weird (a (b)).js"},
			wantComments: map[string]string{},
		},
		{
			name:         "last_parenthesized_group_is_comment",
			input:        "- dir (old)/file.js (moved)",
			wantPaths:    []string{"dir (old)/file.js"},
			wantComments: map[string]string{"dir (old)/file.js": "moved"},
		},
		{
			name:         "byte_order_mark",
			input:        "\uFEFFSection\n- a.js",
			wantPaths:    []string{"a.js"},
			wantComments: map[string]string{},
			wantSections: map[string][]string{"Section": {"a.js"}},
			wantNames:    []string{"Section"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := ParseString(tt.input)
			require.NoError(t, err, "ParseString should succeed")

			assert.Equal(t, tt.wantPaths, list.Paths, "flattened paths should match")
			assert.Equal(t, tt.wantComments, list.Comments, "comments should match")
			if tt.wantNames == nil {
				assert.Empty(t, list.Sections, "no sections expected")
			} else {
				assert.Equal(t, tt.wantNames, sectionNames(list), "section order should match")
			}
			for _, s := range list.Sections {
				assert.Equal(t, tt.wantSections[s.Name], s.Files, "files of section %q should match", s.Name)
			}
			require.Len(t, list.Entries, len(list.Paths), "entries should mirror paths")
			for i, e := range list.Entries {
				assert.Equal(t, list.Paths[i], e.Path, "entry %d path should match", i)
			}
		})
	}
}

func TestParseEntryMetadata(t *testing.T) {
	list, err := ParseString(`loose.md (top)
Section A
- a.js (alpha)
- b.js
`)
	require.NoError(t, err)

	assert.Equal(t, []Entry{
		{Path: "loose.md", Comment: "top"},
		{Path: "a.js", Comment: "alpha", Section: "Section A"},
		{Path: "b.js", Section: "Section A"},
	}, list.Entries)
}

func TestSectionPathsAppearInFlattenedList(t *testing.T) {
	list, err := ParseString(`One
- a.js
- b.js
Two
Three
- c.js
- a.js`)
	require.NoError(t, err)

	for _, s := range list.Sections {
		for _, f := range s.Files {
			assert.Contains(t, list.Paths, f, "section path %q should appear in flattened list", f)
		}
	}
	assert.Equal(t, []string{"One", "Two", "Three"}, sectionNames(list))
	assert.Len(t, list.NonEmptySections(), 2, "empty section should be filtered")

	name, ok := list.SectionOf("a.js")
	require.True(t, ok)
	assert.Equal(t, "One", name, "first section listing the path wins")

	_, ok = list.SectionOf("missing.js")
	assert.False(t, ok)
}

func TestHeadersOnlyIsEmpty(t *testing.T) {
	list, err := ParseString(strings.Join([]string{"Header A", "Header B", "# nothing", "Header C"}, "\n"))
	require.NoError(t, err, "empty lists are not a parse error")
	assert.Equal(t, 0, list.Len())
	assert.Len(t, list.Sections, 3)
	assert.Empty(t, list.NonEmptySections())
}

func TestIsFileLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"- anything", true},
		{"src/index.tsx", true},
		{"component.svelte", true},
		{"styles.SCSS", true},
		{"fonts/a.woff2", true},
		{"foo.js (hello)", true},
		{"main.go", false},
		{"Random Header Text", false},
		{"Version 1.2", false},
		{"README", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFileLine(tt.line))
		})
	}
}

func TestSplitComment(t *testing.T) {
	tests := []struct {
		in          string
		wantPath    string
		wantComment string
		wantOK      bool
	}{
		{"foo.js (hello)", "foo.js", "hello", true},
		{"foo.js   ( spaced out )  ", "foo.js", "spaced out", true},
		{"foo.js(hello)", "foo.js(hello)", "", false},
		{"foo.js", "foo.js", "", false},
		{"foo.js ()", "foo.js", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			path, comment, ok := SplitComment(tt.in)
			assert.Equal(t, tt.wantPath, path)
			assert.Equal(t, tt.wantComment, comment)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestLoad(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	t.Run("ok", func(t *testing.T) {
		fs := memfs.New()
		require.NoError(t, util.WriteFile(fs, "list.txt", []byte("Section\n- a.js\n"), 0o644))

		list, err := Load(ctx, fs, "list.txt", content.UTF8())
		require.NoError(t, err)
		assert.Equal(t, []string{"a.js"}, list.Paths)
	})

	t.Run("not_found", func(t *testing.T) {
		_, err := Load(ctx, memfs.New(), "missing.txt", content.UTF8())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound), "error should be ErrNotFound")
	})

	t.Run("empty", func(t *testing.T) {
		fs := memfs.New()
		require.NoError(t, util.WriteFile(fs, "list.txt", []byte("Only\nHeaders\n"), 0o644))

		_, err := Load(ctx, fs, "list.txt", content.UTF8())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEmpty), "error should be ErrEmpty")
	})

	t.Run("latin1_document", func(t *testing.T) {
		fs := memfs.New()
		doc := []byte("Caf\xe9\n- menu.html (r\xe9sum\xe9)\n")
		require.NoError(t, util.WriteFile(fs, "list.txt", doc, os.FileMode(0o644)))

		codec, err := content.LookupCodec("latin1")
		require.NoError(t, err)

		list, err := Load(ctx, fs, "list.txt", codec)
		require.NoError(t, err)
		assert.Equal(t, "Café", list.Sections[0].Name)
		assert.Equal(t, "résumé", list.Comments["menu.html"])
	})
}

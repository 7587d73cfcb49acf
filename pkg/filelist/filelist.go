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
	"bufio"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// maxLineSize bounds a single line of the document
const maxLineSize = 1024 * 1024

// 🏷️ knownExtensions marks a non-bulleted line as a file path
var knownExtensions = map[string]struct{}{
	"js": {}, "ts": {}, "jsx": {}, "tsx": {}, "svelte": {}, "vue": {},
	"css": {}, "scss": {}, "sass": {}, "html": {}, "json": {}, "md": {}, "txt": {},
	"png": {}, "jpg": {}, "jpeg": {}, "svg": {}, "gif": {}, "ico": {},
	"woff": {}, "woff2": {}, "ttf": {}, "otf": {}, "eot": {}, "pdf": {}, "zip": {},
}

// inlineComment matches "path (comment)" with no parentheses inside the comment
var inlineComment = regexp.MustCompile(`^(.+?)\s+\(([^()]*)\)\s*$`)

// 📄 Entry is one file-path line of the document
type Entry struct {
	Path    string // Path relative to the working tree root
	Comment string // Inline comment on this line, if any
	Section string // Name of the section open when the line was read, if any
}

// 📂 Section is a named group of paths
type Section struct {
	Name  string
	Files []string
}

// 📚 List is the parsed form of a file-list document
type List struct {
	// Sections in document order, including sections that never received a file
	Sections []*Section
	// Paths in document order, duplicates preserved
	Paths []string
	// Comments maps a path to its last inline comment
	Comments map[string]string
	// Entries mirrors Paths with per-line metadata
	Entries []Entry
}

// Len returns the number of file entries.
func (l *List) Len() int {
	return len(l.Paths)
}

// NonEmptySections returns the sections that received at least one file.
func (l *List) NonEmptySections() []*Section {
	out := make([]*Section, 0, len(l.Sections))
	for _, s := range l.Sections {
		if len(s.Files) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// SectionOf returns the name of the first section listing path.
func (l *List) SectionOf(path string) (string, bool) {
	for _, s := range l.Sections {
		for _, f := range s.Files {
			if f == path {
				return s.Name, true
			}
		}
	}
	return "", false
}

// parseState tracks where the parser is relative to the open section
type parseState int

const (
	awaitingFirstFile parseState = iota // a section (or nothing) is open and has no files yet
	inFileRun                           // the open section has received at least one file
)

type parser struct {
	list    *List
	current *Section
	state   parseState
}

// 📝 Parse reads a file-list document and returns its structure.
//
// Semantics:
//   - blank lines and lines starting with "#" are ignored
//   - lines starting with "-", or ending in a known file extension, are file paths
//   - a file path may carry a trailing "(comment)"
//   - every other line opens a new section
//
// An empty result is not an error here; see Load.
func Parse(r io.Reader) (*List, error) {
	p := &parser{
		list: &List{
			Comments: map[string]string{},
		},
		state: awaitingFirstFile,
	}

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	first := true
	for s.Scan() {
		line := s.Text()
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
			first = false
		}
		p.line(line)
	}

	if err := s.Err(); err != nil {
		return nil, errors.Errorf("scanning file list: %w", err)
	}

	return p.list, nil
}

// ParseString parses a document held in memory.
func ParseString(src string) (*List, error) {
	return Parse(strings.NewReader(src))
}

func (p *parser) line(raw string) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	if IsFileLine(line) {
		p.file(line)
		return
	}

	p.header(line)
}

func (p *parser) file(line string) {
	line = strings.TrimSpace(strings.TrimPrefix(line, "-"))

	path, comment, _ := SplitComment(line)
	if path == "" {
		return
	}

	entry := Entry{Path: path, Comment: comment}
	if comment != "" {
		p.list.Comments[path] = comment
	}
	if p.current != nil {
		p.current.Files = append(p.current.Files, path)
		entry.Section = p.current.Name
	}

	p.list.Paths = append(p.list.Paths, path)
	p.list.Entries = append(p.list.Entries, entry)
	p.state = inFileRun
}

// header opens a new section from either state. Leaving awaitingFirstFile
// this way keeps the previous section in the list with zero files.
func (p *parser) header(line string) {
	p.current = &Section{Name: line}
	p.list.Sections = append(p.list.Sections, p.current)
	p.state = awaitingFirstFile
}

// 🔍 IsFileLine reports whether a trimmed, non-comment line names a file.
func IsFileLine(trimmed string) bool {
	if strings.HasPrefix(trimmed, "-") {
		return true
	}
	path, _, _ := SplitComment(trimmed)
	return HasKnownExtension(path)
}

// HasKnownExtension reports whether s ends in a recognized file extension,
// ignoring case.
func HasKnownExtension(s string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(strings.TrimSpace(s)), "."))
	if ext == "" {
		return false
	}
	_, ok := knownExtensions[ext]
	return ok
}

// SplitComment separates a trailing "(comment)" from a path. ok is false when
// the line carries no comment, in which case path is the trimmed input.
func SplitComment(s string) (path, comment string, ok bool) {
	m := inlineComment.FindStringSubmatch(s)
	if m == nil {
		return strings.TrimSpace(s), "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}

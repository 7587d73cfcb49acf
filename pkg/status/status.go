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

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents the outcome for one listed file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusNew                  // File doesn't exist in the working tree
	StatusModified             // File exists but content differs
	StatusUnchanged            // File exists and content matches
	StatusSkipped              // File was excluded before fetching
	StatusFailed               // Fetching or writing failed
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Processed reports whether the file made it through fetch and write.
func (s FileStatus) Processed() bool {
	return s == StatusNew || s == StatusModified || s == StatusUnchanged
}

// 📄 FileInfo contains metadata about a file
type FileInfo struct {
	Path         string     // Relative path to the file
	Section      string     // Section the file was listed under
	Comment      string     // Inline comment from the file list
	Status       FileStatus // Current status
	Size         int64      // Written size in bytes
	Binary       bool       // Whether content bypassed text encoding
	Checksum     string     // Content hash of what was written
	Replacements int        // Number of text replacements applied
	Error        error      // Any error associated with this file
}

// 💾 FileManager handles all file system operations
type FileManager interface {
	WriteFile(ctx context.Context, path string, content []byte) error
	WriteFileAtomic(ctx context.Context, path string, content []byte) error
	ReadFile(ctx context.Context, path string) ([]byte, error)
	FileExists(ctx context.Context, path string) (bool, error)
	CreateDir(ctx context.Context, path string) error
}

// 📈 StatusReporter tracks file status and reports progress
type StatusReporter interface {
	// Status tracking
	TrackFile(ctx context.Context, info FileInfo)
	GetFileInfo(ctx context.Context, path string) (FileInfo, error)
	ListFiles(ctx context.Context) []FileInfo

	// Progress reporting
	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

// 🔧 Manager implements both FileManager and StatusReporter
type Manager struct {
	fs        billy.Filesystem // Working tree all paths are relative to
	formatter FileFormatter    // Formatter for status messages

	// Status tracking, in the order files were tracked
	mu    sync.RWMutex
	files []FileInfo
	index map[string]int

	// Progress tracking
	total     int
	processed int
}

var (
	_ FileManager    = (*Manager)(nil)
	_ StatusReporter = (*Manager)(nil)
)

// 🏭 New creates a new status manager rooted at fs
func New(fs billy.Filesystem) *Manager {
	return &Manager{
		fs:        fs,
		formatter: NewDefaultFileFormatter(),
		index:     make(map[string]int),
	}
}

// Filesystem returns the underlying filesystem.
func (m *Manager) Filesystem() billy.Filesystem {
	return m.fs
}

// 🔒 relPath normalizes a listed path for the filesystem
func relPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

// 🔍 Checksum generates a SHA-256 hash of the content
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// FileManager interface implementation

// WriteFile writes content at path, creating parent directories as needed.
func (m *Manager) WriteFile(ctx context.Context, p string, content []byte) error {
	p = relPath(p)

	if dir := path.Dir(p); dir != "." {
		if err := m.fs.MkdirAll(dir, 0755); err != nil {
			return errors.Errorf("creating parent directories: %w", err)
		}
	}

	return m.WriteFileAtomic(ctx, p, content)
}

// WriteFileAtomic writes to a temp file next to path and renames it into place.
// An existing file keeps its permission bits.
func (m *Manager) WriteFileAtomic(ctx context.Context, p string, content []byte) error {
	p = relPath(p)
	tempPath := p + ".tmp"

	perm := os.FileMode(0644)
	if fi, err := m.fs.Stat(p); err == nil {
		perm = fi.Mode().Perm()
	} else if !os.IsNotExist(err) {
		return errors.Errorf("checking existing file: %w", err)
	}

	if err := util.WriteFile(m.fs, tempPath, content, perm); err != nil {
		_ = m.fs.Remove(tempPath)
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := m.fs.Rename(tempPath, p); err != nil {
		_ = m.fs.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", p).Int("bytes", len(content)).Msg("wrote file")

	return nil
}

func (m *Manager) ReadFile(ctx context.Context, p string) ([]byte, error) {
	content, err := util.ReadFile(m.fs, relPath(p))
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

func (m *Manager) FileExists(ctx context.Context, p string) (bool, error) {
	_, err := m.fs.Stat(relPath(p))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}

func (m *Manager) CreateDir(ctx context.Context, p string) error {
	if err := m.fs.MkdirAll(relPath(p), 0755); err != nil {
		return errors.Errorf("creating directory: %w", err)
	}
	return nil
}

// 🔍 Compare reports how content differs from what is on disk at path.
func (m *Manager) Compare(ctx context.Context, p string, content []byte) (FileStatus, error) {
	existing, err := util.ReadFile(m.fs, relPath(p))
	if err != nil {
		if os.IsNotExist(err) {
			return StatusNew, nil
		}
		return StatusUnknown, errors.Errorf("reading existing file: %w", err)
	}

	if bytes.Equal(existing, content) {
		return StatusUnchanged, nil
	}
	return StatusModified, nil
}

// StatusReporter interface implementation

// TrackFile records info. Tracking the same path again replaces the earlier
// record but keeps its position.
func (m *Manager) TrackFile(ctx context.Context, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i, ok := m.index[info.Path]; ok {
		m.files[i] = info
	} else {
		m.index[info.Path] = len(m.files)
		m.files = append(m.files, info)
	}

	msg := m.formatter.FormatFileOperation(info.Path, info.Status)
	ev := zerolog.Ctx(ctx).Debug()
	if info.Error != nil {
		msg = m.formatter.FormatError(info.Error)
		ev = zerolog.Ctx(ctx).Warn()
	}
	ev.Str("path", info.Path).
		Str("section", info.Section).
		Stringer("status", info.Status).
		Msg(msg)
}

func (m *Manager) GetFileInfo(ctx context.Context, p string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.index[p]
	if !ok {
		return FileInfo{}, errors.Errorf("file not tracked: %s", p)
	}
	return m.files[i], nil
}

// ListFiles returns tracked files in tracking order.
func (m *Manager) ListFiles(ctx context.Context) []FileInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, len(m.files))
	copy(files, m.files)
	return files
}

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	msg := m.formatter.FormatProgress(0, total)
	zerolog.Ctx(ctx).Debug().Int("total", total).Msg(msg)
}

func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = processed
	msg := m.formatter.FormatProgress(processed, m.total)
	zerolog.Ctx(ctx).Debug().
		Int("processed", processed).
		Int("total", m.total).
		Msg(msg)
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = m.total
	msg := m.formatter.FormatProgress(m.total, m.total)
	zerolog.Ctx(ctx).Debug().
		Int("processed", m.total).
		Int("total", m.total).
		Msg(msg)
}

// Progress returns the processed and total counters.
func (m *Manager) Progress() (processed, total int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.processed, m.total
}

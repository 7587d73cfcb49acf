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
	"fmt"
)

// 🎨 progress message parts
const (
	EmojiProgress = "⏳"
	EmojiComplete = "✅"
	MsgProgress   = "%s Progress: %d/%d (%.0f%%)"
)

// FileFormatter defines how file operations and status should be formatted
type FileFormatter interface {
	// FormatFileOperation formats a file status message
	FormatFileOperation(path string, status FileStatus) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileOperation formats a file status message with emojis
func (f *DefaultFileFormatter) FormatFileOperation(path string, status FileStatus) string {
	switch status {
	case StatusNew:
		return fmt.Sprintf("✨ Created %s", path)
	case StatusModified:
		return fmt.Sprintf("📝 Modified %s", path)
	case StatusSkipped:
		return fmt.Sprintf("⏭️  Skipped %s", path)
	case StatusFailed:
		return fmt.Sprintf("❌ Failed %s", path)
	default:
		return fmt.Sprintf("👍 Unchanged %s", path)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	if current < 0 {
		current = 0
	}
	if total < 0 {
		total = 0
	}

	var percentage float64
	if total > 0 {
		percentage = float64(current) / float64(total) * 100
		if percentage > 100 {
			percentage = 100
		}
	}

	emoji := EmojiProgress
	if current >= total {
		emoji = EmojiComplete
	}
	return fmt.Sprintf(MsgProgress, emoji, current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}

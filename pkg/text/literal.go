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
	"io"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 🔤 LiteralReplacer applies rules as plain substring replacements, in order.
// Each rule sees the output of the rules before it.
type LiteralReplacer struct{}

var _ TextReplacer = (*LiteralReplacer)(nil)

// NewLiteralReplacer creates a new LiteralReplacer
func NewLiteralReplacer() *LiteralReplacer {
	return &LiteralReplacer{}
}

func (r *LiteralReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	original, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &ReplacementResult{
		OriginalContent: original,
		ModifiedContent: original,
		RuleCounts:      make([]int, len(rules)),
	}

	current := string(original)
	for i, rule := range rules {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("replacing text: %w", err)
		}
		if rule.FromText == "" {
			continue
		}

		n := strings.Count(current, rule.FromText)
		if n == 0 {
			continue
		}

		current = strings.ReplaceAll(current, rule.FromText, rule.ToText)
		result.RuleCounts[i] = n
		result.ReplacementCount += n
	}

	if result.ReplacementCount > 0 {
		result.ModifiedContent = []byte(current)
		result.WasModified = current != string(original)
	}

	return result, nil
}

// ValidateRules rejects rules without a search string, rules that would not
// change anything and malformed globs.
func (r *LiteralReplacer) ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		n := i + 1
		switch {
		case rule.FromText == "":
			return errors.Errorf("replacement %d: old text is required", n)
		case rule.FromText == rule.ToText:
			return errors.Errorf("replacement %d: old and new text are both %q", n, rule.FromText)
		case rule.FileFilterGlob != "" && !doublestar.ValidatePattern(rule.FileFilterGlob):
			return errors.Errorf("replacement %d: invalid file glob %q", n, rule.FileFilterGlob)
		}
	}
	return nil
}

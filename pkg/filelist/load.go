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
	"bytes"
	"context"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"github.com/walteh/backportrc/pkg/content"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNotFound is returned when the file-list document does not exist
	ErrNotFound = errors.Base("file list not found")
	// ErrEmpty is returned when the document names no files
	ErrEmpty = errors.Base("file list is empty")
)

// 📥 Load reads, decodes and parses the document at path. A missing document
// and a document without file entries are both errors.
func Load(ctx context.Context, fs billy.Filesystem, path string, codec content.Codec) (*List, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Str("encoding", codec.Name()).Msg("loading file list")

	raw, err := util.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, errors.Errorf("reading file list: %w", err)
	}

	decoded, err := codec.Decode(content.StripBOM(raw))
	if err != nil {
		return nil, errors.Errorf("decoding file list: %w", err)
	}

	list, err := Parse(bytes.NewReader(decoded))
	if err != nil {
		return nil, errors.Errorf("parsing file list: %w", err)
	}

	if list.Len() == 0 {
		return nil, errors.Errorf("%w: %s (%d sections, 0 files)", ErrEmpty, path, len(list.Sections))
	}

	logger.Debug().
		Int("files", list.Len()).
		Int("sections", len(list.NonEmptySections())).
		Msg("file list loaded")

	return list, nil
}

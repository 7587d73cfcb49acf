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

package operation

import (
	"bytes"
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/backportrc/pkg/content"
	"github.com/walteh/backportrc/pkg/filelist"
	"github.com/walteh/backportrc/pkg/log"
	"github.com/walteh/backportrc/pkg/status"
	"github.com/walteh/backportrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📦 copyOperation fetches every listed file from the source and writes it
// into the working tree
type copyOperation struct {
	*Operator
}

func (op *copyOperation) Name() string {
	return "copy"
}

// 🏃 Execute processes entries in list order. A file that cannot be fetched or
// written is recorded as failed and the loop moves on.
func (op *copyOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	entries := op.List.Entries

	op.Logger.StartSync(ctx, log.SyncOperation{
		Source:   op.Config.SourceBranch,
		Target:   op.target,
		FileList: op.Config.FileList,
		Backend:  op.Config.Backend,
		Files:    len(entries),
		DryRun:   op.Config.DryRun,
	})
	defer op.Logger.EndSync(ctx)

	op.Files.StartOperation(ctx, len(entries))
	defer op.Files.FinishOperation(ctx)

	seen := make(map[string]struct{}, len(entries))
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("copying files: %w", err)
		}

		if _, dup := seen[entry.Path]; dup {
			logger.Debug().Str("path", entry.Path).Msg("path listed more than once, already processed")
			op.Files.UpdateProgress(ctx, i+1)
			continue
		}
		seen[entry.Path] = struct{}{}

		info := op.processFile(ctx, entry)
		op.Files.TrackFile(ctx, info)
		op.Logger.LogFileOperation(ctx, fileOperation(info))
		op.Files.UpdateProgress(ctx, i+1)
	}

	return nil
}

// 📄 processFile fetches, transforms and writes a single entry
func (op *copyOperation) processFile(ctx context.Context, entry filelist.Entry) status.FileInfo {
	info := status.FileInfo{
		Path:    entry.Path,
		Section: entry.Section,
		Comment: op.List.Comments[entry.Path],
		Binary:  content.IsBinary(entry.Path, op.Config.BinaryExtensions...),
	}

	if op.Config.Ignored(entry.Path) {
		info.Status = status.StatusSkipped
		return info
	}

	data, err := op.Source.ReadFile(ctx, op.Config.SourceBranch, entry.Path)
	if err != nil {
		return failed(info, errors.Errorf("reading %s at %s: %w", entry.Path, op.Config.SourceBranch, err))
	}

	if !info.Binary {
		data, info.Replacements, err = op.transform(ctx, entry.Path, data)
		if err != nil {
			return failed(info, err)
		}
	}

	st, err := op.Files.Compare(ctx, entry.Path, data)
	if err != nil {
		return failed(info, err)
	}

	info.Status = st
	info.Size = int64(len(data))
	info.Checksum = status.Checksum(data)

	if st == status.StatusUnchanged || op.Config.DryRun {
		return info
	}

	if err := op.Files.WriteFile(ctx, entry.Path, data); err != nil {
		return failed(info, err)
	}
	op.written = append(op.written, entry.Path)

	return info
}

// 🔄 transform decodes text content, applies the replacements for path and
// encodes it again. Content without replacements is returned as fetched.
func (op *copyOperation) transform(ctx context.Context, path string, data []byte) ([]byte, int, error) {
	decoded, err := op.codec.Decode(data)
	if err != nil {
		return nil, 0, errors.Errorf("decoding %s as %s: %w", path, op.codec.Name(), err)
	}

	rules := text.RulesFor(path, op.rules)
	if len(rules) == 0 {
		return data, 0, nil
	}

	result, err := op.Replacer.ReplaceText(ctx, bytes.NewReader(decoded), rules)
	if err != nil {
		return nil, 0, errors.Errorf("replacing text in %s: %w", path, err)
	}
	if !result.WasModified {
		return data, 0, nil
	}

	encoded, err := op.codec.Encode(result.ModifiedContent)
	if err != nil {
		return nil, 0, errors.Errorf("encoding %s as %s: %w", path, op.codec.Name(), err)
	}

	return encoded, result.ReplacementCount, nil
}

func failed(info status.FileInfo, err error) status.FileInfo {
	info.Status = status.StatusFailed
	info.Error = err
	return info
}

// fileOperation maps a tracked file onto a console line
func fileOperation(info status.FileInfo) log.FileOperation {
	kind := "text"
	if info.Binary {
		kind = "binary"
	}
	return log.FileOperation{
		Path:         info.Path,
		Section:      info.Section,
		Type:         kind,
		Status:       info.Status.String(),
		IsNew:        info.Status == status.StatusNew,
		IsModified:   info.Status == status.StatusModified,
		IsSkipped:    info.Status == status.StatusSkipped,
		IsFailed:     info.Status == status.StatusFailed,
		Replacements: info.Replacements,
	}
}

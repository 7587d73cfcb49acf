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
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📌 stageOperation adds every written file to the index
type stageOperation struct {
	*Operator
}

func (op *stageOperation) Name() string {
	return "stage"
}

func (op *stageOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	if !op.Config.ShouldStage() {
		logger.Debug().Bool("dry_run", op.Config.DryRun).Msg("staging disabled")
		return nil
	}

	if len(op.written) == 0 {
		logger.Debug().Msg("nothing written, nothing to stage")
		return nil
	}

	if err := op.Worktree.Add(ctx, op.written...); err != nil {
		return errors.Errorf("staging %d files: %w", len(op.written), err)
	}

	op.Logger.Infof("staged %d files", len(op.written))
	return nil
}

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

// 🌿 checkoutOperation puts the working tree on the target branch
type checkoutOperation struct {
	*Operator
}

func (op *checkoutOperation) Name() string {
	return "checkout"
}

func (op *checkoutOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	current, err := op.Worktree.CurrentBranch(ctx)
	if err != nil {
		return errors.Errorf("resolving current branch: %w", err)
	}

	target := op.Config.TargetBranch
	if target == "" {
		target = current
	}
	op.target = target

	// content read from GitHub never comes from the local branch
	if op.Config.GitHub == nil && target == op.Config.SourceBranch {
		return errors.Errorf("%w: %q", ErrSameBranch, target)
	}

	if current == target {
		logger.Debug().Str("branch", current).Msg("already on target branch")
		return nil
	}

	if op.Config.DryRun {
		op.Logger.Warningf("dry run: staying on %s instead of switching to %s", current, target)
		return nil
	}

	op.Logger.Infof("switching from %s to %s", current, target)
	if err := op.Worktree.Checkout(ctx, target); err != nil {
		return errors.Errorf("switching to %s: %w", target, err)
	}

	return nil
}

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

// 🏃 Runner executes operations one after another
type Runner struct{}

// 🏗️ NewRunner creates a new runner
func NewRunner() *Runner {
	return &Runner{}
}

// 🏃 Run executes ops in order and stops at the first error. A cancelled
// context stops the run before the next operation starts.
func (r *Runner) Run(ctx context.Context, ops ...Operation) error {
	logger := zerolog.Ctx(ctx)

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("operation %s cancelled: %w", op.Name(), err)
		}

		logger.Debug().Str("operation", op.Name()).Msg("running operation")

		if err := op.Execute(ctx); err != nil {
			return errors.Errorf("%s: %w", op.Name(), err)
		}
	}

	return nil
}

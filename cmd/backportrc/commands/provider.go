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

package commands

import (
	"context"

	"github.com/walteh/backportrc/pkg/config"
	"github.com/walteh/backportrc/pkg/provider"
	"github.com/walteh/backportrc/pkg/provider/github"
	"gitlab.com/tozd/go/errors"

	// backends register themselves
	_ "github.com/walteh/backportrc/pkg/provider/gitcli"
	_ "github.com/walteh/backportrc/pkg/provider/gogit"
)

// Backends returns the names accepted by --backend.
func Backends() []string {
	return provider.Names()
}

// 🔌 OpenProvider opens the configured backend on the repository directory.
// With a github block, file content comes from the GitHub API while the local
// backend still owns the working tree.
func OpenProvider(ctx context.Context, cfg *config.Config) (provider.Provider, error) {
	local, err := provider.New(ctx, cfg.Backend, provider.Args{Dir: cfg.Repository})
	if err != nil {
		return nil, errors.Errorf("opening repository: %w", err)
	}

	if cfg.GitHub == nil {
		return local, nil
	}

	remote, err := github.New(ctx, github.Options{
		Repo:     cfg.GitHub.Repo,
		TokenEnv: cfg.GitHub.TokenEnv,
	})
	if err != nil {
		return nil, errors.Errorf("creating github source: %w", err)
	}

	return &provider.Split{Worktree: local, Source: remote}, nil
}

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

// Package gitcli is the default backend. It shells out to the git executable
// for every version-control operation.
package gitcli

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/backportrc/pkg/execx"
	"github.com/walteh/backportrc/pkg/provider"
	"gitlab.com/tozd/go/errors"
)

// Name is the registry name of this backend.
const Name = "git"

func init() {
	provider.Register(Name, func(ctx context.Context, args provider.Args) (provider.Provider, error) {
		return Open(ctx, execx.New("git"), args.Dir)
	})
}

// 🐙 Provider runs git commands against one working tree
type Provider struct {
	git  execx.Runner
	root string
}

var _ provider.Provider = (*Provider)(nil)

// Open resolves the working tree containing dir.
func Open(ctx context.Context, git execx.Runner, dir string) (*Provider, error) {
	if dir == "" {
		dir = "."
	}

	res, err := git.Run(ctx, []string{"rev-parse", "--show-toplevel"}, execx.WithWorkingDir(dir))
	if err != nil {
		return nil, errors.Errorf("locating repository from %s: %w", dir, err)
	}

	root := strings.TrimSpace(string(res.Stdout))
	if root == "" {
		return nil, errors.Errorf("locating repository from %s: empty toplevel", dir)
	}

	zerolog.Ctx(ctx).Debug().Str("root", root).Msg("opened git working tree")

	return &Provider{git: git, root: root}, nil
}

func (p *Provider) run(ctx context.Context, args ...string) (*execx.Result, error) {
	return p.git.Run(ctx, args, execx.WithWorkingDir(p.root))
}

// Root returns the working tree root.
func (p *Provider) Root() string {
	return p.root
}

// 🌿 CurrentBranch returns the abbreviated name of HEAD
func (p *Provider) CurrentBranch(ctx context.Context) (string, error) {
	res, err := p.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", errors.Errorf("getting current branch: %w", err)
	}

	branch := strings.TrimSpace(string(res.Stdout))
	if branch == "" || branch == "HEAD" {
		return "", errors.New("getting current branch: HEAD is detached")
	}
	return branch, nil
}

// 🔀 Checkout switches to branch
func (p *Provider) Checkout(ctx context.Context, branch string) error {
	if _, err := p.run(ctx, "checkout", branch); err != nil {
		return errors.Errorf("checking out %s: %w", branch, err)
	}
	return nil
}

// 📄 ReadFile returns the blob at rev:path
func (p *Provider) ReadFile(ctx context.Context, rev, path string) ([]byte, error) {
	res, err := p.run(ctx, "show", rev+":"+toSlash(path))
	if err != nil {
		if isMissingPath(err) {
			return nil, errors.Errorf("reading %s at %s: %w", path, rev, errors.Join(provider.ErrNotFound, err))
		}
		return nil, errors.Errorf("reading %s at %s: %w", path, rev, err)
	}
	return res.Stdout, nil
}

// ➕ Add stages paths
func (p *Provider) Add(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}

	args := append([]string{"add", "--"}, paths...)
	if _, err := p.run(ctx, args...); err != nil {
		return errors.Errorf("staging %d files: %w", len(paths), err)
	}
	return nil
}

// git reports a missing blob with one of these on stderr
var missingPathMessages = []string{
	"does not exist in",
	"exists on disk, but not in",
}

func isMissingPath(err error) bool {
	exitErr, ok := execx.AsExitError(err)
	if !ok {
		return false
	}
	for _, msg := range missingPathMessages {
		if strings.Contains(exitErr.Stderr, msg) {
			return true
		}
	}
	return false
}

func toSlash(path string) string {
	return strings.ReplaceAll(strings.TrimPrefix(path, "./"), "\\", "/")
}

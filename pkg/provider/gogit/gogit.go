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

// Package gogit is an in-process backend built on go-git. It needs no git
// executable, which also makes it the backend tests run against.
package gogit

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rs/zerolog"
	"github.com/walteh/backportrc/pkg/provider"
	"gitlab.com/tozd/go/errors"
)

// Name is the registry name of this backend.
const Name = "go-git"

// DefaultRemote is consulted when a branch only exists as a remote-tracking ref.
const DefaultRemote = "origin"

var (
	// ErrDetachedHead is returned by CurrentBranch when HEAD is not a branch
	ErrDetachedHead = errors.Base("HEAD is detached")
	// ErrBranchMissing is returned by Checkout when neither a local nor a remote branch exists
	ErrBranchMissing = errors.Base("branch does not exist")
)

func init() {
	provider.Register(Name, func(ctx context.Context, args provider.Args) (provider.Provider, error) {
		return Open(ctx, args.Dir)
	})
}

// 🌱 Provider wraps an opened go-git repository with a worktree
type Provider struct {
	repo     *git.Repository
	worktree *git.Worktree
}

var _ provider.Provider = (*Provider)(nil)

// Open finds the repository containing dir.
func Open(ctx context.Context, dir string) (*Provider, error) {
	if dir == "" {
		dir = "."
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.Errorf("opening repository at %s: %w", dir, err)
	}

	p, err := New(repo)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().Str("root", p.Root()).Msg("opened go-git repository")

	return p, nil
}

// New wraps an existing repository. It must not be bare.
func New(repo *git.Repository) (*Provider, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.Errorf("getting worktree: %w", err)
	}
	return &Provider{repo: repo, worktree: wt}, nil
}

// Root returns the worktree filesystem root.
func (p *Provider) Root() string {
	return p.worktree.Filesystem.Root()
}

// 🌿 CurrentBranch returns the short name of HEAD
func (p *Provider) CurrentBranch(ctx context.Context) (string, error) {
	head, err := p.repo.Head()
	if err != nil {
		return "", errors.Errorf("getting HEAD reference: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", errors.WithStack(ErrDetachedHead)
	}

	return head.Name().Short(), nil
}

// 🔀 Checkout switches to branch, creating it from the remote-tracking ref
// when only that exists.
func (p *Provider) Checkout(ctx context.Context, branch string) error {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("checking out %s: %w", branch, err)
	}

	local := plumbing.NewBranchReferenceName(branch)

	if _, err := p.repo.Reference(local, true); err != nil {
		remote, rerr := p.repo.Reference(plumbing.NewRemoteReferenceName(DefaultRemote, branch), true)
		if rerr != nil {
			return errors.Errorf("checking out %s: %w", branch, ErrBranchMissing)
		}

		if err := p.repo.Storer.SetReference(plumbing.NewHashReference(local, remote.Hash())); err != nil {
			return errors.Errorf("creating local branch %s: %w", branch, err)
		}

		zerolog.Ctx(ctx).Debug().Str("branch", branch).Str("remote", DefaultRemote).Msg("created local branch from remote")
	}

	if err := p.worktree.Checkout(&git.CheckoutOptions{Branch: local}); err != nil {
		return errors.Errorf("checking out %s: %w", branch, err)
	}

	return nil
}

// 📄 ReadFile returns the content of name in the commit rev resolves to
func (p *Provider) ReadFile(ctx context.Context, rev, name string) ([]byte, error) {
	commit, err := p.commit(rev)
	if err != nil {
		return nil, err
	}

	f, err := commit.File(cleanPath(name))
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, errors.Errorf("reading %s at %s: %w", name, rev, provider.ErrNotFound)
		}
		return nil, errors.Errorf("reading %s at %s: %w", name, rev, err)
	}

	r, err := f.Reader()
	if err != nil {
		return nil, errors.Errorf("opening blob %s: %w", f.Hash, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Errorf("reading blob %s: %w", f.Hash, err)
	}
	return data, nil
}

func (p *Provider) commit(rev string) (*object.Commit, error) {
	hash, err := p.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		// a source branch that was never checked out locally
		hash, err = p.repo.ResolveRevision(plumbing.Revision(DefaultRemote + "/" + rev))
		if err != nil {
			return nil, errors.Errorf("resolving revision %s: %w", rev, err)
		}
	}

	commit, err := p.repo.CommitObject(*hash)
	if err != nil {
		return nil, errors.Errorf("loading commit %s: %w", hash, err)
	}
	return commit, nil
}

// ➕ Add stages paths
func (p *Provider) Add(ctx context.Context, paths ...string) error {
	for _, name := range paths {
		if _, err := p.worktree.Add(cleanPath(name)); err != nil {
			return errors.Errorf("staging %s: %w", name, err)
		}
	}
	return nil
}

func cleanPath(name string) string {
	return strings.TrimPrefix(path.Clean(strings.ReplaceAll(name, "\\", "/")), "/")
}

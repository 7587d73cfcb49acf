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

package provider

import (
	"context"
	"sort"
	"sync"

	"gitlab.com/tozd/go/errors"
)

// ErrNotFound is returned by Source.ReadFile when the path does not exist at
// the requested revision.
var ErrNotFound = errors.Base("file not found at revision")

// ErrUnknownBackend is returned by New for a name nothing registered.
var ErrUnknownBackend = errors.Base("unknown backend")

// 🌳 Worktree is the local working tree files are written into
type Worktree interface {
	// 📁 Root returns the absolute path of the working tree root
	Root() string

	// 🌿 CurrentBranch returns the checked out branch name
	CurrentBranch(ctx context.Context) (string, error)

	// 🔀 Checkout switches the working tree to branch
	Checkout(ctx context.Context, branch string) error

	// ➕ Add stages paths relative to Root
	Add(ctx context.Context, paths ...string) error
}

// 📦 Source reads historical file content
type Source interface {
	// 📄 ReadFile returns the content of path at rev
	ReadFile(ctx context.Context, rev, path string) ([]byte, error)
}

// 🔌 Provider is a version-control backend serving both roles
type Provider interface {
	Worktree
	Source
}

// Args are handed to a Factory
type Args struct {
	// Dir is any directory inside the working tree
	Dir string
}

// 🏭 Factory creates a new provider
type Factory func(ctx context.Context, args Args) (Provider, error)

var (
	mu sync.RWMutex
	// 🗺️ providers is a map of provider names to factories
	providers = make(map[string]Factory)
)

// 📝 Register registers a provider factory
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	providers[name] = factory
}

// 🎯 Get returns a provider factory by name
func Get(name string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := providers[name]
	return f, ok
}

// Names returns the registered backend names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the named backend.
func New(ctx context.Context, name string, args Args) (Provider, error) {
	factory, ok := Get(name)
	if !ok {
		return nil, errors.Errorf("%w: %q (registered: %v)", ErrUnknownBackend, name, Names())
	}

	p, err := factory(ctx, args)
	if err != nil {
		return nil, errors.Errorf("creating %s backend: %w", name, err)
	}
	return p, nil
}

// Split pairs a worktree with a different content source, e.g. a local
// checkout reading file content from a hosted repository.
type Split struct {
	Worktree
	Source Source
}

// ReadFile delegates to the configured source.
func (s *Split) ReadFile(ctx context.Context, rev, path string) ([]byte, error) {
	return s.Source.ReadFile(ctx, rev, path)
}

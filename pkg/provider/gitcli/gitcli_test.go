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

package gitcli

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/backportrc/pkg/execx"
	"github.com/walteh/backportrc/pkg/provider"
	"gitlab.com/tozd/go/errors"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, args []string, opts ...execx.Option) (*execx.Result, error) {
	ret := m.Called(args)
	var res *execx.Result
	if r := ret.Get(0); r != nil {
		res = r.(*execx.Result)
	}
	return res, ret.Error(1)
}

func stdout(s string) *execx.Result {
	return &execx.Result{Stdout: []byte(s)}
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func openMock(t *testing.T) (*Provider, *mockRunner) {
	t.Helper()
	r := &mockRunner{}
	r.On("Run", []string{"rev-parse", "--show-toplevel"}).Return(stdout("/work/repo\n"), nil).Once()

	p, err := Open(testContext(t), r, "/work/repo/sub")
	require.NoError(t, err, "Open should succeed")
	assert.Equal(t, "/work/repo", p.Root())
	return p, r
}

func TestCurrentBranch(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		err     error
		want    string
		wantErr bool
	}{
		{name: "branch", out: "feature/x\n", want: "feature/x"},
		{name: "detached", out: "HEAD\n", wantErr: true},
		{name: "command_fails", err: &execx.ExitError{Program: "git", ExitCode: 128, Stderr: "not a git repository"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, r := openMock(t)
			r.On("Run", []string{"rev-parse", "--abbrev-ref", "HEAD"}).Return(stdout(tt.out), tt.err)

			got, err := p.CurrentBranch(testContext(t))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			r.AssertExpectations(t)
		})
	}
}

func TestReadFile(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		p, r := openMock(t)
		r.On("Run", []string{"show", "main:src/app.js"}).Return(stdout("console.log(1)\n"), nil)

		data, err := p.ReadFile(testContext(t), "main", "./src/app.js")
		require.NoError(t, err)
		assert.Equal(t, "console.log(1)\n", string(data))
	})

	t.Run("missing_path", func(t *testing.T) {
		p, r := openMock(t)
		r.On("Run", []string{"show", "main:gone.js"}).Return(&execx.Result{ExitCode: 128}, &execx.ExitError{
			Program:  "git",
			Args:     []string{"show", "main:gone.js"},
			ExitCode: 128,
			Stderr:   "fatal: path 'gone.js' does not exist in 'main'",
		})

		_, err := p.ReadFile(testContext(t), "main", "gone.js")
		require.Error(t, err)
		assert.True(t, errors.Is(err, provider.ErrNotFound), "missing path should wrap ErrNotFound")
		assert.Contains(t, err.Error(), "exit")
	})

	t.Run("bad_revision", func(t *testing.T) {
		p, r := openMock(t)
		r.On("Run", []string{"show", "nope:a.js"}).Return(nil, &execx.ExitError{
			Program:  "git",
			ExitCode: 128,
			Stderr:   "fatal: invalid object name 'nope'.",
		})

		_, err := p.ReadFile(testContext(t), "nope", "a.js")
		require.Error(t, err)
		assert.False(t, errors.Is(err, provider.ErrNotFound), "bad revision is not a missing file")
	})
}

func TestCheckoutAndAdd(t *testing.T) {
	p, r := openMock(t)
	r.On("Run", []string{"checkout", "release"}).Return(stdout(""), nil)
	r.On("Run", []string{"add", "--", "a.js", "b/c.css"}).Return(stdout(""), nil)

	ctx := testContext(t)
	require.NoError(t, p.Checkout(ctx, "release"))
	require.NoError(t, p.Add(ctx, "a.js", "b/c.css"))
	require.NoError(t, p.Add(ctx), "adding nothing is a no-op")
	r.AssertExpectations(t)
}

func TestRegistered(t *testing.T) {
	_, ok := provider.Get(Name)
	assert.True(t, ok, "git backend should be registered")
}

// TestAgainstRealGit exercises the backend end to end when git is installed.
func TestAgainstRealGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	ctx := testContext(t)
	dir := t.TempDir()
	git := execx.New("git",
		execx.WithWorkingDir(dir),
		execx.WithEnvVar("GIT_AUTHOR_NAME", "test"),
		execx.WithEnvVar("GIT_AUTHOR_EMAIL", "test@example.com"),
		execx.WithEnvVar("GIT_COMMITTER_NAME", "test"),
		execx.WithEnvVar("GIT_COMMITTER_EMAIL", "test@example.com"),
	)

	mustGit := func(args ...string) {
		t.Helper()
		_, err := git.Run(ctx, args)
		require.NoError(t, err, "git %v", args)
	}

	mustGit("init", "-q", "-b", "main")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.js"), []byte("one\n"), 0o644))
	mustGit("add", "a.js")
	mustGit("commit", "-q", "-m", "init")
	mustGit("checkout", "-q", "-b", "release")

	p, err := Open(ctx, git, dir)
	require.NoError(t, err)

	branch, err := p.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "release", branch)

	data, err := p.ReadFile(ctx, "main", "a.js")
	require.NoError(t, err)
	assert.Equal(t, "one\n", string(data))

	_, err = p.ReadFile(ctx, "main", "missing.js")
	require.Error(t, err)
	assert.True(t, errors.Is(err, provider.ErrNotFound))

	require.NoError(t, p.Checkout(ctx, "main"))
	branch, err = p.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

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

// Package github reads historical file content from the GitHub contents API.
// It only implements provider.Source; branch switching and staging stay with a
// local backend.
package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/backportrc/pkg/provider"
	"gitlab.com/tozd/go/errors"
)

// DefaultTokenEnv names the variable holding the API token.
const DefaultTokenEnv = "GITHUB_TOKEN"

// Options configures a Source
type Options struct {
	// Repo is "owner/name", optionally prefixed with github.com/ or a URL
	Repo string
	// TokenEnv names the environment variable holding the token
	TokenEnv string
}

// 🎯 Source implements provider.Source for one GitHub repository
type Source struct {
	client *github.Client
	owner  string
	name   string
}

var _ provider.Source = (*Source)(nil)

// 🏭 New creates a Source. The token is optional; public repositories can be
// read anonymously at a lower rate limit.
func New(ctx context.Context, opts Options) (*Source, error) {
	env := opts.TokenEnv
	if env == "" {
		env = DefaultTokenEnv
	}

	client := github.NewClient(nil)
	if token := os.Getenv(env); token != "" {
		client = client.WithAuthToken(token)
	} else {
		zerolog.Ctx(ctx).Debug().Str("env", env).Msg("no GitHub token set, reading anonymously")
	}

	return NewWithClient(client, opts.Repo)
}

// NewWithClient creates a Source around an existing client.
func NewWithClient(client *github.Client, repo string) (*Source, error) {
	owner, name, err := parseRepo(repo)
	if err != nil {
		return nil, errors.Errorf("parsing repo: %w", err)
	}
	return &Source{client: client, owner: owner, name: name}, nil
}

// 🔍 parseRepo parses a GitHub repository reference
func parseRepo(repo string) (owner, name string, err error) {
	trimmed := strings.TrimSpace(repo)
	trimmed = strings.TrimPrefix(trimmed, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	trimmed = strings.TrimPrefix(trimmed, "github.com/")
	trimmed = strings.TrimSuffix(strings.TrimSuffix(trimmed, "/"), ".git")

	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("invalid GitHub repository URL: %s", repo)
	}

	return parts[0], parts[1], nil
}

// String returns owner/name.
func (s *Source) String() string {
	return s.owner + "/" + s.name
}

// 🔗 Permalink returns the web URL of path at rev
func (s *Source) Permalink(rev, path string) string {
	return fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s", s.owner, s.name, rev, strings.TrimPrefix(path, "/"))
}

// 📄 ReadFile retrieves a single file's contents at rev
func (s *Source) ReadFile(ctx context.Context, rev, path string) ([]byte, error) {
	path = strings.TrimPrefix(strings.TrimPrefix(path, "./"), "/")

	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.name, path, &github.RepositoryContentGetOptions{
		Ref: rev,
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, errors.Errorf("reading %s at %s: %w", path, rev, provider.ErrNotFound)
		}
		return nil, errors.Errorf("getting file content: %w", err)
	}

	if file == nil {
		return nil, errors.Errorf("reading %s at %s: path is a directory", path, rev)
	}

	// the contents API leaves content empty for files over 1MB
	if file.GetEncoding() == "none" || (file.Content == nil && file.GetSize() > 0) {
		return s.download(ctx, file)
	}

	data, err := file.GetContent()
	if err != nil {
		return nil, errors.Errorf("decoding content: %w", err)
	}

	return []byte(data), nil
}

func (s *Source) download(ctx context.Context, file *github.RepositoryContent) ([]byte, error) {
	url := file.GetDownloadURL()
	if url == "" {
		return nil, errors.Errorf("downloading %s: no download url", file.GetPath())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Client().Do(req)
	if err != nil {
		return nil, errors.Errorf("downloading file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("downloading %s: unexpected status code: %d", file.GetPath(), resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Errorf("reading download body: %w", err)
	}
	return data, nil
}

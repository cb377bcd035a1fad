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

package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/boxsync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

func init() {
	remote.RegisterProvider("github", func(ctx context.Context, s remote.Settings) (remote.FolderClient, error) {
		return New(ctx, s.Token, s.BaseURL)
	})
}

// GitHubClient is the slice of the GitHub API the provider needs
type GitHubClient interface {
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
	DownloadContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (io.ReadCloser, *github.Response, error)
}

// githubClientWrapper wraps the GitHub client to implement our interface
type githubClientWrapper struct {
	client *github.Client
}

func (w *githubClientWrapper) GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error) {
	return w.client.Repositories.GetContents(ctx, owner, repo, path, opts)
}

func (w *githubClientWrapper) DownloadContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (io.ReadCloser, *github.Response, error) {
	return w.client.Repositories.DownloadContents(ctx, owner, repo, path, opts)
}

// 🐙 Provider serves repository directories as remote folders.
// Folder and item identifiers look like "owner/repo/some/path@ref"; path and ref are optional.
type Provider struct {
	client GitHubClient
}

var _ remote.FolderClient = (*Provider)(nil)

// New creates a GitHub provider. An empty token falls back to GITHUB_TOKEN, an empty baseURL to api.github.com.
func New(ctx context.Context, token, baseURL string) (*Provider, error) {
	client := github.NewClient(nil)
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token != "" {
		client = client.WithAuthToken(token)
	} else {
		zerolog.Ctx(ctx).Debug().Msg("no github token, using unauthenticated client")
	}

	if baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
		if err != nil {
			return nil, errors.Errorf("parsing github base url: %w", err)
		}
		client.BaseURL = u
	}

	return NewWithClient(client), nil
}

// NewWithClient wraps an existing go-github client
func NewWithClient(client *github.Client) *Provider {
	return &Provider{client: &githubClientWrapper{client: client}}
}

// location is a parsed identifier
type location struct {
	owner string
	repo  string
	path  string
	ref   string
}

func (l location) id(p string) string {
	s := fmt.Sprintf("%s/%s/%s", l.owner, l.repo, strings.TrimPrefix(p, "/"))
	s = strings.TrimSuffix(s, "/")
	if l.ref != "" {
		s += "@" + l.ref
	}
	return s
}

func (l location) opts() *github.RepositoryContentGetOptions {
	if l.ref == "" {
		return nil
	}
	return &github.RepositoryContentGetOptions{Ref: l.ref}
}

// parseID splits "owner/repo[/path][@ref]".
// The ref follows the last "@" that does not open a path segment, so "pkgs/@scope/x" stays a path.
// An identifier that cannot name anything is reported as not found.
func parseID(id string) (location, error) {
	var loc location
	rest := strings.TrimSpace(id)
	emptyRef := false
	if i := refIndex(rest); i >= 0 {
		loc.ref = rest[i+1:]
		rest = rest[:i]
		emptyRef = loc.ref == ""
	}

	parts := strings.SplitN(strings.Trim(rest, "/"), "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" || emptyRef {
		return location{}, remote.NotFoundError("parsing identifier",
			errors.Errorf("invalid github identifier %q, want owner/repo[/path][@ref]", id))
	}
	loc.owner, loc.repo = parts[0], parts[1]
	if len(parts) == 3 {
		loc.path = parts[2]
	}
	return loc, nil
}

func refIndex(s string) int {
	for i := len(s) - 1; i > 0; i-- {
		if s[i] == '@' && s[i-1] != '/' {
			return i
		}
	}
	return -1
}

// classify maps a go-github failure onto the remote taxonomy
func classify(op string, resp *github.Response, err error) error {
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return remote.NotFoundError(op, err)
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
		return remote.NotFoundError(op, err)
	}
	return remote.TransportError(op, err)
}

// ListFolderItems implements remote.FolderClient.
// The contents API returns a whole directory at once, so pages are cut locally.
func (p *Provider) ListFolderItems(ctx context.Context, folderID string, limit, offset int) (remote.Page, error) {
	loc, err := parseID(folderID)
	if err != nil {
		return remote.Page{}, err
	}

	op := fmt.Sprintf("listing folder %s", folderID)
	file, dir, resp, err := p.client.GetContents(ctx, loc.owner, loc.repo, loc.path, loc.opts())
	if err != nil {
		return remote.Page{}, classify(op, resp, err)
	}
	if file != nil {
		return remote.Page{}, remote.NotFoundError(op, errors.New("identifier names a file, not a folder"))
	}

	if offset >= len(dir) {
		return remote.Page{NextOffset: offset}, nil
	}
	end := len(dir)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	entries := make([]remote.Entry, 0, end-offset)
	for _, c := range dir[offset:end] {
		entries = append(entries, remote.Entry{
			ID:   loc.id(c.GetPath()),
			Name: c.GetName(),
			Kind: remote.ParseKind(c.GetType()),
		})
	}

	return remote.Page{Entries: entries, NextOffset: end, HasMore: end < len(dir)}, nil
}

// ItemMetadata implements remote.FolderClient
func (p *Provider) ItemMetadata(ctx context.Context, id string) (remote.ItemMetadata, error) {
	loc, err := parseID(id)
	if err != nil {
		return remote.ItemMetadata{}, err
	}

	op := fmt.Sprintf("getting file %s", id)
	file, _, resp, err := p.client.GetContents(ctx, loc.owner, loc.repo, loc.path, loc.opts())
	if err != nil {
		return remote.ItemMetadata{}, classify(op, resp, err)
	}
	if file == nil {
		return remote.ItemMetadata{}, remote.NotFoundError(op, errors.New("identifier names a folder, not a file"))
	}

	name := file.GetName()
	if name == "" {
		name = path.Base(loc.path)
	}
	return remote.ItemMetadata{ID: id, Name: name, Size: int64(file.GetSize())}, nil
}

// ItemContent implements remote.FolderClient
func (p *Provider) ItemContent(ctx context.Context, id string) (io.ReadCloser, error) {
	loc, err := parseID(id)
	if err != nil {
		return nil, err
	}

	rc, resp, err := p.client.DownloadContents(ctx, loc.owner, loc.repo, loc.path, loc.opts())
	if err != nil {
		return nil, classify(fmt.Sprintf("downloading file %s", id), resp, err)
	}
	return rc, nil
}

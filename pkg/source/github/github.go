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
	"os"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/csvexpand/pkg/source"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/oauth2"
)

// Scheme is the uri scheme served by this source
const Scheme = "github"

func init() {
	source.Register(Scheme, New)
}

// 📍 Location is a parsed github://owner/repo/path@ref uri
type Location struct {
	Owner string
	Repo  string
	Path  string
	Ref   string // empty means the default branch
}

// String returns the uri form
func (l Location) String() string {
	s := fmt.Sprintf("%s://%s/%s/%s", Scheme, l.Owner, l.Repo, l.Path)
	if l.Ref != "" {
		s += "@" + l.Ref
	}
	return s
}

// Permalink returns the browser url of the file
func (l Location) Permalink() string {
	ref := l.Ref
	if ref == "" {
		ref = "HEAD"
	}
	return fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s", l.Owner, l.Repo, ref, l.Path)
}

// 🔍 ParseURI parses github://owner/repo/path/to/file@ref
func ParseURI(uri string) (Location, error) {
	rest, ok := strings.CutPrefix(uri, Scheme+"://")
	if !ok {
		return Location{}, errors.Errorf("invalid GitHub uri %q: missing %s:// prefix", uri, Scheme)
	}

	var loc Location
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		loc.Ref = rest[i+1:]
		rest = rest[:i]
	}

	parts := strings.SplitN(strings.Trim(rest, "/"), "/", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Location{}, errors.Errorf("invalid GitHub uri %q: want %s://owner/repo/path[@ref]", uri, Scheme)
	}

	loc.Owner = parts[0]
	loc.Repo = parts[1]
	loc.Path = parts[2]
	return loc, nil
}

// 🎯 Source reads files from GitHub repositories
type Source struct {
	client *github.Client
	logger zerolog.Logger
}

// 🏭 New creates a GitHub source. GITHUB_TOKEN is used when set, otherwise
// requests are anonymous and limited to public repositories.
func New(ctx context.Context) (source.Source, error) {
	var httpClient *http.Client
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		httpClient = oauth2.NewClient(ctx, ts)
	}

	return NewWithClient(ctx, github.NewClient(httpClient)), nil
}

// 🏭 NewWithClient wraps an existing client
func NewWithClient(ctx context.Context, client *github.Client) *Source {
	return &Source{
		client: client,
		logger: *zerolog.Ctx(ctx),
	}
}

// 📄 Open fetches the file behind a github:// uri
func (s *Source) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	opts := &github.RepositoryContentGetOptions{Ref: loc.Ref}

	content, _, _, err := s.client.Repositories.GetContents(ctx, loc.Owner, loc.Repo, loc.Path, opts)
	if err != nil {
		return nil, errors.Errorf("getting file content: %w", err)
	}
	if content == nil {
		return nil, errors.Errorf("%s is a directory", loc.Permalink())
	}

	// files over 1MB come back without inline content
	if content.GetEncoding() == "none" {
		s.logger.Debug().Str("path", loc.Path).Msg("downloading large file")
		rc, _, err := s.client.Repositories.DownloadContents(ctx, loc.Owner, loc.Repo, loc.Path, opts)
		if err != nil {
			return nil, errors.Errorf("downloading file content: %w", err)
		}
		return rc, nil
	}

	data, err := content.GetContent()
	if err != nil {
		return nil, errors.Errorf("decoding content: %w", err)
	}

	s.logger.Debug().Str("permalink", loc.Permalink()).Int("bytes", len(data)).Msg("fetched file from github")

	return io.NopCloser(strings.NewReader(data)), nil
}

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

package source

import (
	"context"
	"io"
	"net/http"

	"gitlab.com/tozd/go/errors"
)

// 🌐 HTTP downloads files over http and https
type HTTP struct {
	Client *http.Client
}

// 🏭 NewHTTP creates an http source using the default client
func NewHTTP(ctx context.Context) (Source, error) {
	return &HTTP{Client: http.DefaultClient}, nil
}

// 📄 Open downloads uri
func (h *HTTP) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	return DownloadFile(ctx, h.Client, uri)
}

// 📥 DownloadFile downloads a file from a URL with context support
func DownloadFile(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Errorf("downloading file: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}

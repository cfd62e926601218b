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
	"os"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// FileScheme is the scheme used for local paths
const FileScheme = "file"

// 📁 File opens local files
type File struct{}

// 🏭 NewFile creates a local file source
func NewFile(ctx context.Context) (Source, error) {
	return &File{}, nil
}

// 📄 Open opens a plain path or a file:// uri
func (f *File) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	p := strings.TrimPrefix(uri, FileScheme+"://")
	fh, err := os.Open(p)
	if err != nil {
		return nil, errors.Errorf("opening file: %w", err)
	}
	return fh, nil
}

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
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrUnknownScheme is returned when no source is registered for a uri scheme
var ErrUnknownScheme = errors.Base("unknown source scheme")

// 🔌 Source opens template and list files
type Source interface {
	// 📄 Open returns the content behind uri
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}

// 🏭 Factory creates a new source
type Factory func(ctx context.Context) (Source, error)

var (
	mu sync.RWMutex

	// 🗺️ sources is a map of uri schemes to factories
	sources = make(map[string]Factory)
)

func init() {
	Register(FileScheme, NewFile)
	Register("http", NewHTTP)
	Register("https", NewHTTP)
}

// 📝 Register registers a source factory for a scheme
func Register(scheme string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	sources[scheme] = factory
}

// 🎯 Get returns the factory for a scheme
func Get(scheme string) Factory {
	mu.RLock()
	defer mu.RUnlock()
	return sources[scheme]
}

// Schemes returns the registered schemes, sorted
func Schemes() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(sources))
	for s := range sources {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Scheme returns the uri scheme, defaulting to file for plain paths
func Scheme(uri string) string {
	scheme, _, ok := strings.Cut(uri, "://")
	if !ok || scheme == "" {
		return FileScheme
	}
	return strings.ToLower(scheme)
}

// IsRemote reports whether uri names something other than a local path
func IsRemote(uri string) bool {
	return Scheme(uri) != FileScheme
}

// BaseName returns the file name part of uri without any @ref suffix
func BaseName(uri string) string {
	p := uri
	if _, rest, ok := strings.Cut(uri, "://"); ok {
		p = rest
	}
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	if i := strings.LastIndex(base, "@"); i > 0 {
		base = base[:i]
	}
	return base
}

// 📥 Open resolves the source for uri and opens it
func Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	scheme := Scheme(uri)

	factory := Get(scheme)
	if factory == nil {
		return nil, errors.Errorf("opening %q (known: %s): %w", uri, strings.Join(Schemes(), ", "), ErrUnknownScheme)
	}

	src, err := factory(ctx)
	if err != nil {
		return nil, errors.Errorf("creating %s source: %w", scheme, err)
	}

	zerolog.Ctx(ctx).Debug().Str("scheme", scheme).Str("uri", uri).Msg("opening source")

	rc, err := src.Open(ctx, uri)
	if err != nil {
		return nil, errors.Errorf("opening %q: %w", uri, err)
	}

	return rc, nil
}

// ReadAll opens uri and reads it fully
func ReadAll(ctx context.Context, uri string) ([]byte, error) {
	rc, err := Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Errorf("reading %q: %w", uri, err)
	}
	return data, nil
}

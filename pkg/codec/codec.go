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

// Package codec reads and writes tables in the supported file formats.
package codec

import (
	"context"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/walteh/csvexpand/pkg/table"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrUnparsable marks input that could not be turned into a table
	ErrUnparsable = errors.Base("unparsable table")

	// ErrUnknownFormat is returned when no codec handles a name or file
	ErrUnknownFormat = errors.Base("unknown table format")
)

// DecodeError wraps a decoder failure and matches ErrUnparsable
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return "decoding " + e.Format + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrUnparsable
}

func unparsable(format string, err error) error {
	return errors.WithStack(&DecodeError{Format: format, Err: err})
}

// 🔌 Codec converts between a byte stream and a table
type Codec interface {
	// Name is the format name used in configs and flags
	Name() string

	// Extension is the file extension written for this format, with the dot
	Extension() string

	// 🔍 CanHandle reports whether the file looks like this format
	CanHandle(filename string) bool

	// 📥 Decode reads a whole table
	Decode(ctx context.Context, r io.Reader) (table.Table, error)

	// 📤 Encode writes a whole table
	Encode(ctx context.Context, w io.Writer, t table.Table) error
}

var (
	// 🗺️ codecs is the list of available codecs, in registration order
	codecs []Codec
)

func init() {
	Register(&CSV{})
	Register(&XLSX{})
	Register(&JSON{})
}

// 📝 Register registers a codec
func Register(c Codec) {
	codecs = append(codecs, c)
}

// 🎯 ForFile returns the codec that handles the given file name
func ForFile(filename string) (Codec, error) {
	for _, c := range codecs {
		if c.CanHandle(filename) {
			return c, nil
		}
	}
	return nil, errors.Errorf("no codec for %q: %w", filepath.Base(filename), ErrUnknownFormat)
}

// 🎯 ByName returns the codec registered under name
func ByName(name string) (Codec, error) {
	for _, c := range codecs {
		if strings.EqualFold(c.Name(), name) {
			return c, nil
		}
	}
	return nil, errors.Errorf("no codec named %q (known: %s): %w", name, strings.Join(Names(), ", "), ErrUnknownFormat)
}

// Names returns the registered codec names, sorted
func Names() []string {
	names := make([]string, 0, len(codecs))
	for _, c := range codecs {
		names = append(names, c.Name())
	}
	sort.Strings(names)
	return names
}

// Resolve picks the codec for a file, preferring an explicit format name
func Resolve(format, filename string) (Codec, error) {
	if format != "" {
		return ByName(format)
	}
	return ForFile(filename)
}

// WithDelimiter returns c configured with the given CSV separator. Codecs
// without a separator are returned unchanged.
func WithDelimiter(c Codec, comma rune) Codec {
	if csvCodec, ok := c.(*CSV); ok && comma != 0 {
		cp := *csvCodec
		cp.Comma = comma
		return &cp
	}
	return c
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

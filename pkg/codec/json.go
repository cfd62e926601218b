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

package codec

import (
	"context"
	"encoding/json"
	"io"

	"github.com/walteh/csvexpand/pkg/table"
	"gitlab.com/tozd/go/errors"
)

// 🧾 JSON reads and writes an array of row arrays. Strings become text
// cells; numbers, booleans, nulls and nested values stay opaque.
type JSON struct{}

func (j *JSON) Name() string      { return "json" }
func (j *JSON) Extension() string { return ".json" }

// 🔍 CanHandle checks for .json files
func (j *JSON) CanHandle(filename string) bool {
	return hasExt(filename, ".json")
}

// 📥 Decode reads the whole document
func (j *JSON) Decode(ctx context.Context, r io.Reader) (table.Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw [][]any
	if err := dec.Decode(&raw); err != nil {
		return nil, unparsable("json", err)
	}

	out := make(table.Table, len(raw))
	for i, rec := range raw {
		row := make(table.Row, len(rec))
		for k, v := range rec {
			if s, ok := v.(string); ok {
				row[k] = table.Text(s)
				continue
			}
			row[k] = table.Other(v)
		}
		out[i] = row
	}

	return out, nil
}

// 📤 Encode writes indented JSON without HTML escaping
func (j *JSON) Encode(ctx context.Context, w io.Writer, t table.Table) error {
	raw := make([][]any, len(t))
	for i, row := range t {
		rec := make([]any, len(row))
		for k, cell := range row {
			rec[k] = cell.Value()
		}
		raw[i] = rec
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(raw); err != nil {
		return errors.Errorf("encoding json: %w", err)
	}

	return nil
}

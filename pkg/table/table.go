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

// Package table holds the in-memory tabular model shared by the codecs and
// the expander.
package table

import (
	"fmt"
)

// 🏷️ Kind tags the variant stored in a Cell
type Kind int

const (
	KindText  Kind = iota // plain string cell, subject to substitution
	KindOther             // opaque value (number, bool, null) passed through
)

// 📦 Cell is a tagged variant: either Text or an opaque Other value
type Cell struct {
	kind  Kind
	text  string
	value any
}

// Text builds a text cell
func Text(s string) Cell {
	return Cell{kind: KindText, text: s}
}

// Other builds an opaque cell. A nil value models an empty/null cell.
func Other(v any) Cell {
	return Cell{kind: KindOther, value: v}
}

// IsText reports whether the cell carries text
func (c Cell) IsText() bool {
	return c.kind == KindText
}

// Kind returns the variant tag
func (c Cell) Kind() Kind {
	return c.kind
}

// Value returns the raw value: the string for text cells, the opaque value otherwise
func (c Cell) Value() any {
	if c.kind == KindText {
		return c.text
	}
	return c.value
}

// String renders the cell the way the encoders write it. Nil renders empty.
func (c Cell) String() string {
	if c.kind == KindText {
		return c.text
	}
	if c.value == nil {
		return ""
	}
	return fmt.Sprint(c.value)
}

// 📝 Row is an ordered sequence of cells
type Row []Cell

// Clone returns an independent copy of the row
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Strings renders every cell with Cell.String
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.String()
	}
	return out
}

// 📚 Table is an ordered sequence of rows. Row 0 is the header.
type Table []Row

// Header returns row 0, or nil for an empty table
func (t Table) Header() Row {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

// Data returns rows 1..N
func (t Table) Data() []Row {
	if len(t) < 2 {
		return nil
	}
	return t[1:]
}

// Width returns the header width
func (t Table) Width() int {
	return len(t.Header())
}

// Clone returns a deep copy of the table
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for i, r := range t {
		out[i] = r.Clone()
	}
	return out
}

// Strings renders the table as a matrix of strings
func (t Table) Strings() [][]string {
	out := make([][]string, len(t))
	for i, r := range t {
		out[i] = r.Strings()
	}
	return out
}

// FromStrings builds a table where every cell is text
func FromStrings(records [][]string) Table {
	out := make(Table, len(records))
	for i, rec := range records {
		row := make(Row, len(rec))
		for j, s := range rec {
			row[j] = Text(s)
		}
		out[i] = row
	}
	return out
}

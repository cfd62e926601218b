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

package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell(t *testing.T) {
	tests := []struct {
		name       string
		cell       Cell
		wantText   bool
		wantString string
		wantValue  any
	}{
		{
			name:       "text_cell",
			cell:       Text("Toledo"),
			wantText:   true,
			wantString: "Toledo",
			wantValue:  "Toledo",
		},
		{
			name:       "empty_text_cell",
			cell:       Text(""),
			wantText:   true,
			wantString: "",
			wantValue:  "",
		},
		{
			name:       "number_cell",
			cell:       Other(42.5),
			wantText:   false,
			wantString: "42.5",
			wantValue:  42.5,
		},
		{
			name:       "null_cell",
			cell:       Other(nil),
			wantText:   false,
			wantString: "",
			wantValue:  nil,
		},
		{
			name:       "zero_value_is_empty_text",
			cell:       Cell{},
			wantText:   true,
			wantString: "",
			wantValue:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantText, tt.cell.IsText(), "IsText should match")
			assert.Equal(t, tt.wantString, tt.cell.String(), "String should match")
			assert.Equal(t, tt.wantValue, tt.cell.Value(), "Value should match")
		})
	}
}

func TestTableAccessors(t *testing.T) {
	tbl := FromStrings([][]string{
		{"Permalink", "Title"},
		{"/toledo-guia", "Guía de Toledo"},
		{"/toledo-mapa"},
	})

	assert.Equal(t, Row{Text("Permalink"), Text("Title")}, tbl.Header(), "header should be row 0")
	assert.Len(t, tbl.Data(), 2, "should have 2 data rows")
	assert.Equal(t, 2, tbl.Width(), "width should follow the header")
	assert.Equal(t, [][]string{
		{"Permalink", "Title"},
		{"/toledo-guia", "Guía de Toledo"},
		{"/toledo-mapa"},
	}, tbl.Strings(), "ragged rows should render as-is")

	var empty Table
	assert.Nil(t, empty.Header(), "empty table has no header")
	assert.Nil(t, empty.Data(), "empty table has no data")
	assert.Nil(t, Table{Row{Text("h")}}.Data(), "header-only table has no data")
}

func TestTableCloneIsIndependent(t *testing.T) {
	orig := Table{
		Row{Text("h1"), Text("h2")},
		Row{Text("a"), Other(1)},
	}

	clone := orig.Clone()
	require.Equal(t, orig, clone, "clone should be equal")

	clone[1][0] = Text("changed")
	clone[0] = append(clone[0], Text("h3"))

	assert.Equal(t, "a", orig[1][0].String(), "original cell should not change")
	assert.Len(t, orig[0], 2, "original header should not grow")
	assert.Nil(t, Table(nil).Clone(), "nil clone should stay nil")
	assert.Nil(t, Row(nil).Clone(), "nil row clone should stay nil")
}

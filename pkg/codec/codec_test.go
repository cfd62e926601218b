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
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/csvexpand/pkg/table"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding/charmap"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func TestRegistry(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
		wantErr  bool
	}{
		{name: "csv", filename: "plantilla.csv", want: "csv"},
		{name: "csv_upper", filename: "PLANTILLA.CSV", want: "csv"},
		{name: "txt_as_csv", filename: "export.txt", want: "csv"},
		{name: "xlsx", filename: "dir/plantilla.xlsx", want: "xlsx"},
		{name: "json", filename: "rows.json", want: "json"},
		{name: "unknown", filename: "doc.docx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ForFile(tt.filename)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name())
		})
	}

	t.Run("by_name", func(t *testing.T) {
		c, err := ByName("XLSX")
		require.NoError(t, err)
		assert.Equal(t, ".xlsx", c.Extension())

		_, err = ByName("ods")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownFormat))
	})

	t.Run("resolve_prefers_format", func(t *testing.T) {
		c, err := Resolve("json", "plantilla.csv")
		require.NoError(t, err)
		assert.Equal(t, "json", c.Name())

		c, err = Resolve("", "plantilla.csv")
		require.NoError(t, err)
		assert.Equal(t, "csv", c.Name())
	})

	t.Run("names", func(t *testing.T) {
		assert.Equal(t, []string{"csv", "json", "xlsx"}, Names())
	})
}

func TestWithDelimiter(t *testing.T) {
	base, err := ByName("csv")
	require.NoError(t, err)

	semi := WithDelimiter(base, ';')
	assert.Equal(t, ';', semi.(*CSV).Comma)
	assert.Equal(t, rune(0), base.(*CSV).Comma, "registered codec should not change")

	js, _ := ByName("json")
	assert.Same(t, js, WithDelimiter(js, ';'))
}

func TestCSVDecode(t *testing.T) {
	tests := []struct {
		name  string
		codec *CSV
		input []byte
		want  [][]string
	}{
		{
			name:  "simple",
			codec: &CSV{},
			input: []byte("Permalink,Title\n/toledo,Guía de Toledo\n"),
			want:  [][]string{{"Permalink", "Title"}, {"/toledo", "Guía de Toledo"}},
		},
		{
			name:  "quoted_cells",
			codec: &CSV{},
			input: []byte("a,b\n\"Toledo, España\",\"dice \"\"hola\"\"\"\n\"multi\nline\",x\n"),
			want:  [][]string{{"a", "b"}, {"Toledo, España", "dice \"hola\""}, {"multi\nline", "x"}},
		},
		{
			name:  "blank_lines_skipped",
			codec: &CSV{},
			input: []byte("a,b\n\n1,2\n\n\n3,4\n"),
			want:  [][]string{{"a", "b"}, {"1", "2"}, {"3", "4"}},
		},
		{
			name:  "ragged_rows",
			codec: &CSV{},
			input: []byte("a,b,c\n1\n1,2,3,4\n"),
			want:  [][]string{{"a", "b", "c"}, {"1"}, {"1", "2", "3", "4"}},
		},
		{
			name:  "bom_stripped",
			codec: &CSV{},
			input: append([]byte{0xEF, 0xBB, 0xBF}, []byte("Permalink,Title\n")...),
			want:  [][]string{{"Permalink", "Title"}},
		},
		{
			name:  "crlf",
			codec: &CSV{},
			input: []byte("a,b\r\n1,2\r\n"),
			want:  [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:  "semicolon_sniffed",
			codec: &CSV{},
			input: []byte("Permalink;Title;Precio\n/toledo;Toledo;1,5\n"),
			want:  [][]string{{"Permalink", "Title", "Precio"}, {"/toledo", "Toledo", "1,5"}},
		},
		{
			name:  "explicit_comma",
			codec: &CSV{Comma: ','},
			input: []byte("a;b;c,d\n"),
			want:  [][]string{{"a;b;c", "d"}},
		},
		{
			name:  "empty_input",
			codec: &CSV{},
			input: []byte(""),
			want:  [][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.codec.Decode(testContext(t), bytes.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Strings())
			for _, row := range got {
				for _, cell := range row {
					assert.True(t, cell.IsText(), "csv cells should always be text")
				}
			}
		})
	}
}

func TestCSVDecodeLegacyCharset(t *testing.T) {
	src := "Permalink,Título\n/guia-caceres,Guía de Cáceres y Córdoba en España\n"
	encoded, err := charmap.Windows1252.NewEncoder().String(src)
	require.NoError(t, err)
	require.NotEqual(t, src, encoded, "fixture should not be utf-8")

	got, err := (&CSV{}).Decode(testContext(t), strings.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Permalink", "Título"},
		{"/guia-caceres", "Guía de Cáceres y Córdoba en España"},
	}, got.Strings())
}

func TestCSVDecodeUnparsable(t *testing.T) {
	_, err := (&CSV{}).Decode(testContext(t), strings.NewReader("a,b\n\"unterminated,1\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnparsable), "decode errors should be marked unparsable")
}

func TestCSVEncode(t *testing.T) {
	in := table.Table{
		table.Row{table.Text("Permalink"), table.Text("Title"), table.Text("Precio")},
		table.Row{table.Text("/toledo"), table.Text("Toledo, España"), table.Other(12.5)},
		table.Row{table.Text("/madrid"), table.Text("dice \"hola\""), table.Other(nil)},
	}

	t.Run("default_comma", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&CSV{}).Encode(testContext(t), &buf, in))
		assert.Equal(t,
			"Permalink,Title,Precio\n/toledo,\"Toledo, España\",12.5\n/madrid,\"dice \"\"hola\"\"\",\n",
			buf.String())
	})

	t.Run("semicolon", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&CSV{Comma: ';'}).Encode(testContext(t), &buf, in))
		assert.Equal(t,
			"Permalink;Title;Precio\n/toledo;Toledo, España;12.5\n/madrid;\"dice \"\"hola\"\"\";\n",
			buf.String())
	})

	t.Run("round_trip", func(t *testing.T) {
		text := table.FromStrings([][]string{{"a", "b"}, {"x,y", "multi\nline"}, {"solo"}})
		var buf bytes.Buffer
		require.NoError(t, (&CSV{}).Encode(testContext(t), &buf, text))

		got, err := (&CSV{}).Decode(testContext(t), &buf)
		require.NoError(t, err)
		assert.Equal(t, text, got)
	})
}

func TestXLSXRoundTrip(t *testing.T) {
	ctx := testContext(t)
	in := table.Table{
		table.Row{table.Text("Permalink"), table.Text("Title"), table.Text("Stock")},
		table.Row{table.Text("/toledo"), table.Text("Guía de Toledo"), table.Other(7)},
		table.Row{table.Text("/ceuta"), table.Text(""), table.Other(nil)},
	}

	var buf bytes.Buffer
	require.NoError(t, (&XLSX{}).Encode(ctx, &buf, in))
	require.NotZero(t, buf.Len())

	got, err := (&XLSX{}).Decode(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Permalink", "Title", "Stock"},
		{"/toledo", "Guía de Toledo", "7"},
		{"/ceuta"},
	}, got.Strings())
}

func TestXLSXSkipsEmptyRows(t *testing.T) {
	ctx := testContext(t)
	in := table.FromStrings([][]string{{"a", "b"}, {"", ""}, {"1", "2"}})

	var buf bytes.Buffer
	require.NoError(t, (&XLSX{}).Encode(ctx, &buf, in))

	got, err := (&XLSX{}).Decode(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, got.Strings())
}

func TestXLSXDecodeUnparsable(t *testing.T) {
	_, err := (&XLSX{}).Decode(testContext(t), strings.NewReader("not a zip"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnparsable))
}

func TestJSONDecode(t *testing.T) {
	input := `[
		["Permalink", "Title", "Stock", "Active", "Note"],
		["/toledo", "Guía de Toledo", 7, true, null],
		[12]
	]`

	got, err := (&JSON{}).Decode(testContext(t), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.True(t, got[1][0].IsText())
	assert.False(t, got[1][2].IsText(), "numbers should be opaque")
	assert.Equal(t, json.Number("7"), got[1][2].Value())
	assert.Equal(t, true, got[1][3].Value())
	assert.Nil(t, got[1][4].Value())
	assert.False(t, got[2][0].IsText(), "numeric identifier should be opaque")
}

func TestJSONDecodeUnparsable(t *testing.T) {
	for _, input := range []string{`{"a": 1}`, `[["a"`, `"text"`} {
		_, err := (&JSON{}).Decode(testContext(t), strings.NewReader(input))
		require.Error(t, err, "input %q should fail", input)
		assert.True(t, errors.Is(err, ErrUnparsable))
	}
}

func TestJSONRoundTrip(t *testing.T) {
	ctx := testContext(t)
	input := `[["Permalink","Stock"],["/toledo",7],["/a<b>",null]]`

	got, err := (&JSON{}).Decode(ctx, strings.NewReader(input))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, (&JSON{}).Encode(ctx, &buf, got))
	assert.JSONEq(t, input, buf.String())
	assert.Contains(t, buf.String(), "<b>", "html should not be escaped")
}

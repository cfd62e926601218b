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
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/saintfish/chardet"
	"github.com/walteh/csvexpand/pkg/table"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// 📄 CSV reads and writes comma separated files. Every field decodes as text.
type CSV struct {
	// Comma is the field separator. Zero sniffs ',' or ';' from the first
	// line when decoding and writes ',' when encoding.
	Comma rune

	// LazyQuotes tolerates bare quotes inside unquoted fields
	LazyQuotes bool
}

func (c *CSV) Name() string      { return "csv" }
func (c *CSV) Extension() string { return ".csv" }

// 🔍 CanHandle checks for .csv and .txt files
func (c *CSV) CanHandle(filename string) bool {
	return hasExt(filename, ".csv", ".txt")
}

// 📥 Decode reads every record. Blank lines are skipped, ragged records are
// kept as they are and legacy single-byte encodings are converted to UTF-8.
func (c *CSV) Decode(ctx context.Context, r io.Reader) (table.Table, error) {
	logger := zerolog.Ctx(ctx)

	br := bufio.NewReaderSize(r, sniffSize)
	peek, _ := br.Peek(sniffSize)

	if bytes.HasPrefix(peek, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, errors.Errorf("skipping byte order mark: %w", err)
		}
		peek = peek[len(utf8BOM):]
	}

	var src io.Reader = br
	if dec, charset := detectDecoder(peek); dec != nil {
		logger.Debug().Str("charset", charset).Msg("transcoding csv to utf-8")
		src = transform.NewReader(br, dec.NewDecoder())
		converted, err := dec.NewDecoder().Bytes(peek)
		if err == nil {
			peek = converted
		}
	}

	comma := c.Comma
	if comma == 0 {
		comma = sniffComma(peek)
	}

	cr := csv.NewReader(src)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = c.LazyQuotes

	var out table.Table
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, unparsable("csv", err)
		}
		row := make(table.Row, len(rec))
		for i, s := range rec {
			row[i] = table.Text(s)
		}
		out = append(out, row)
	}

	logger.Debug().Int("rows", len(out)).Str("comma", string(comma)).Msg("decoded csv")

	return out, nil
}

// 📤 Encode writes the table with standard quoting. Opaque cells are
// rendered with Cell.String.
func (c *CSV) Encode(ctx context.Context, w io.Writer, t table.Table) error {
	cw := csv.NewWriter(w)
	if c.Comma != 0 {
		cw.Comma = c.Comma
	}

	for _, row := range t {
		if err := cw.Write(row.Strings()); err != nil {
			return errors.Errorf("writing csv record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Errorf("flushing csv: %w", err)
	}

	return nil
}

// detectDecoder returns a decoder for input that is not valid UTF-8
func detectDecoder(peek []byte) (encoding.Encoding, string) {
	if len(peek) == 0 || validUTF8Prefix(peek) {
		return nil, ""
	}

	charset := "windows-1252"
	if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
		charset = strings.ToLower(det.Charset)
	}

	switch charset {
	case "iso-8859-1":
		return charmap.ISO8859_1, charset
	case "iso-8859-15":
		return charmap.ISO8859_15, charset
	default:
		// spreadsheet exports on Windows are the common case
		return charmap.Windows1252, "windows-1252"
	}
}

// validUTF8Prefix accepts a buffer whose only defect is a rune cut at the end
func validUTF8Prefix(b []byte) bool {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return true
		}
		b = b[:len(b)-1]
	}
	return utf8.Valid(b)
}

// sniffComma picks ';' when the first line has more semicolons than commas
func sniffComma(peek []byte) rune {
	line := peek
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

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
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/csvexpand/pkg/table"
	"github.com/xuri/excelize/v2"
	"gitlab.com/tozd/go/errors"
)

// DefaultSheet is the sheet name written by the xlsx encoder
const DefaultSheet = "Sheet1"

// 📊 XLSX reads the first sheet of a workbook and writes a single sheet
type XLSX struct{}

func (x *XLSX) Name() string      { return "xlsx" }
func (x *XLSX) Extension() string { return ".xlsx" }

// 🔍 CanHandle checks for .xlsx files
func (x *XLSX) CanHandle(filename string) bool {
	return hasExt(filename, ".xlsx")
}

// 📥 Decode reads the first sheet as text cells, skipping empty rows
func (x *XLSX) Decode(ctx context.Context, r io.Reader) (table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, unparsable("xlsx", errors.Errorf("opening workbook: %w", err))
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, unparsable("xlsx", errors.New("workbook has no sheets"))
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, unparsable("xlsx", errors.Errorf("reading sheet %q: %w", sheetName, err))
	}

	out := make(table.Table, 0, len(rows))
	for _, rec := range rows {
		if isEmptyRecord(rec) {
			continue
		}
		row := make(table.Row, len(rec))
		for i, s := range rec {
			row[i] = table.Text(s)
		}
		out = append(out, row)
	}

	zerolog.Ctx(ctx).Debug().Str("sheet", sheetName).Int("rows", len(out)).Msg("decoded workbook")

	return out, nil
}

// 📤 Encode writes the table to a new workbook. Opaque cells keep their
// native value so numbers stay numeric.
func (x *XLSX) Encode(ctx context.Context, w io.Writer, t table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range t {
		values := make([]any, len(row))
		for j, cell := range row {
			if cell.IsText() || cell.Value() == nil {
				values[j] = cell.String()
				continue
			}
			values[j] = cell.Value()
		}

		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Errorf("addressing row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(DefaultSheet, axis, &values); err != nil {
			return errors.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Errorf("writing workbook: %w", err)
	}

	return nil
}

func isEmptyRecord(rec []string) bool {
	for _, s := range rec {
		if s != "" {
			return false
		}
	}
	return true
}

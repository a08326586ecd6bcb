package extractor

import (
	"bytes"
	"context"
	"fmt"

	"github.com/extrame/xls"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sanjeevkumarraob/file-extractor-service/internal/document"
)

// XLSXExtractor reads Office Open XML workbooks.
type XLSXExtractor struct{}

// NewXLSXExtractor creates a new XLSX extractor
func NewXLSXExtractor() *XLSXExtractor {
	return &XLSXExtractor{}
}

// DecodeSheets returns every sheet with its rows, in workbook order.
func (e *XLSXExtractor) DecodeSheets(ctx context.Context, content []byte) ([]document.Table, error) {
	f, err := xlsx.OpenBinary(content)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open workbook")
	}

	tables := make([]document.Table, 0, len(f.Sheets))
	for _, sheet := range f.Sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows := make([][]string, 0, len(sheet.Rows))
		for _, row := range sheet.Rows {
			if row == nil {
				rows = append(rows, []string{})
				continue
			}
			rows = append(rows, xlsxRowToStrings(row))
		}
		tables = append(tables, document.Table{Name: sheet.Name, Rows: trimTrailingEmpty(rows)})
	}

	return tables, nil
}

func xlsxRowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		if cell == nil {
			continue
		}
		cells[j] = cell.String()
	}
	return cells
}

// XLSExtractor reads legacy BIFF (Excel 97-2003) workbooks.
type XLSExtractor struct {
	charset string
}

// NewXLSExtractor creates a new XLS extractor
func NewXLSExtractor() *XLSExtractor {
	return &XLSExtractor{charset: "utf-8"}
}

// DecodeSheets returns every sheet with its rows, in workbook order.
func (e *XLSExtractor) DecodeSheets(ctx context.Context, content []byte) ([]document.Table, error) {
	wb, err := xls.OpenReader(bytes.NewReader(content), e.charset)
	if err != nil {
		return nil, eris.Wrap(err, "xls: open workbook")
	}

	tables := make([]document.Table, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}

		name := sheet.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}

		var rows [][]string
		for r := 0; r <= int(sheet.MaxRow); r++ {
			rows = append(rows, xlsRowToStrings(sheet, r))
		}
		tables = append(tables, document.Table{Name: name, Rows: trimTrailingEmpty(rows)})
	}

	return tables, nil
}

// xlsRowToStrings tolerates rows the workbook never stored; the library
// dereferences them without a nil check.
func xlsRowToStrings(sheet *xls.WorkSheet, r int) (cells []string) {
	defer func() {
		if recover() != nil {
			cells = []string{}
		}
	}()

	row := sheet.Row(r)
	if row == nil {
		return []string{}
	}

	last := row.LastCol()
	cells = make([]string, 0, last)
	for c := 0; c < last; c++ {
		cells = append(cells, row.Col(c))
	}
	return cells
}

func trimTrailingEmpty(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && isEmptyRow(rows[end-1]) {
		end--
	}
	return rows[:end]
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

package export

import (
	"fmt"
	"io"
	"strings"

	"go-sirh/internal/store"

	"github.com/xuri/excelize/v2"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Column maps a record field to a spreadsheet column.
// Field may reach into an enrichment with a dotted path such as "employee.lastName".
type Column struct {
	Header string
	Field  string
}

// ColumnsFor builds one column per field, using the field name as header.
func ColumnsFor(fields ...string) []Column {
	cols := make([]Column, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, Column{Header: f, Field: f})
	}
	return cols
}

func WriteXLSX(w io.Writer, sheet string, columns []Column, rows []store.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for r, rec := range rows {
		for i, col := range columns {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, cellValue(lookup(rec, col.Field))); err != nil {
				return fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}

	return f.Write(w)
}

func lookup(rec store.Record, path string) any {
	var cur any = rec
	for _, part := range strings.Split(path, ".") {
		switch m := cur.(type) {
		case store.Record:
			cur = m[part]
		case map[string]any:
			cur = m[part]
		default:
			return nil
		}
	}
	return cur
}

func cellValue(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case string, float64, bool:
		return t
	default:
		return store.Stringify(t)
	}
}

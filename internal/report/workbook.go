package report

import (
	"io"
	"strconv"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/pkg/errors"

	"github.com/talkincode/realtydesk/internal/domain"
)

const defaultSheet = "Sheet1"

// Sheet is one worksheet of a workbook.
type Sheet struct {
	Name    string
	Fields  []string
	Records []Record
}

// WriteWorkbook renders each sheet with the same projection as GenerateCSV.
// Numeric cells keep their type.
func WriteWorkbook(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return domain.NewValidationError("sheets", "at least one sheet is required")
	}
	xlsx := excelize.NewFile()
	for i, sh := range sheets {
		if sh.Name == "" {
			return domain.NewValidationError("sheets", "sheet %d has no name", i)
		}
		if _, err := Project(sh.Records, sh.Fields); err != nil {
			return err
		}
		if i == 0 {
			xlsx.SetSheetName(defaultSheet, sh.Name)
		} else {
			xlsx.NewSheet(sh.Name)
		}
		for col, name := range sh.Fields {
			xlsx.SetCellValue(sh.Name, cellName(col, 1), name)
		}
		for row, rec := range sh.Records {
			for col, name := range sh.Fields {
				v, _ := rec.Field(name)
				xlsx.SetCellValue(sh.Name, cellName(col, row+2), cellValue(v))
			}
		}
	}
	return errors.Wrap(xlsx.Write(w), "write workbook")
}

func cellValue(v interface{}) interface{} {
	switch t := v.(type) {
	case int, int64, float64:
		return t
	}
	return FormatCell(v)
}

// cellName converts a zero-based column and one-based row to "A1" notation.
func cellName(col, row int) string {
	return excelize.ToAlphaString(col) + strconv.Itoa(row)
}

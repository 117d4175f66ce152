package printing

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Workbook is a two-sheet export: label/value summary pairs and a detail table
type Workbook struct {
	Title        string
	SummarySheet string
	Summary      [][2]any
	DetailSheet  string
	Header       []string
	Rows         [][]any
}

// BuildXLSX renders the workbook as an .xlsx file
func BuildXLSX(wb Workbook) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	summary := wb.SummarySheet
	if summary == "" {
		summary = "Ringkasan"
	}
	detail := wb.DetailSheet
	if detail == "" {
		detail = "Rincian"
	}
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(detail); err != nil {
		return nil, fmt.Errorf("create detail sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	_ = f.SetCellValue(summary, "A1", wb.Title)
	_ = f.SetCellStyle(summary, "A1", "A1", bold)
	for i, pair := range wb.Summary {
		row := i + 3
		_ = f.SetCellValue(summary, fmt.Sprintf("A%d", row), pair[0])
		_ = f.SetCellValue(summary, fmt.Sprintf("B%d", row), pair[1])
	}
	_ = f.SetColWidth(summary, "A", "A", 32)
	_ = f.SetColWidth(summary, "B", "B", 20)

	for col, h := range wb.Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(detail, cell, h)
		_ = f.SetCellStyle(detail, cell, cell, bold)
	}
	for r, values := range wb.Rows {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return nil, err
			}
			_ = f.SetCellValue(detail, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

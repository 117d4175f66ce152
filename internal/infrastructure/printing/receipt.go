package printing

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Receipt is a single-page proof of payment
type Receipt struct {
	Title    string
	Number   string
	IssuedAt time.Time
	Lines    [][2]string
	Total    int64
	Footer   string
}

// BuildReceiptPDF renders the receipt as an A5 PDF
func BuildReceiptPDF(r Receipt) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetTitle(r.Title, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, tr(r.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("No. %s", r.Number)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, r.IssuedAt.Format("02-01-2006 15:04 MST"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	for _, line := range r.Lines {
		pdf.CellFormat(45, 7, tr(line[0]), "B", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, tr(line[1]), "B", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(45, 8, "Total", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 8, FormatRupiah(r.Total), "", 1, "R", false, 0, "")

	if r.Footer != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "I", 8)
		pdf.MultiCell(0, 4, tr(r.Footer), "", "C", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

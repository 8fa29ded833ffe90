package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders hour statements into a tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF statement with a summary header and an entry table.
func (e *PDFExporter) Render(st Statement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "INTERNSHIP HOUR STATEMENT", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Student: %s", st.StudentName), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Position: %s", st.PositionTitle), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Unit: %s", st.UnitID), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", st.GeneratedAt.Format("2006-01-02 15:04")), "", 1, "", false, 0, "")
	pdf.Ln(4)

	widths := []float64{35, 25, 90, 40}
	headers := []string{"Date", "Hours", "Reason", "Approver"}
	pdf.SetFont("Arial", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, line := range st.Lines {
		pdf.CellFormat(widths[0], 7, line.RecordedAt.Format("2006-01-02"), "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%+.2f", line.Hours), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, line.Reason, "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[3], 7, line.ApproverID, "1", 0, "", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(widths[0]+widths[1], 8, fmt.Sprintf("Total: %.2f", st.TotalHours), "1", 1, "R", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf statement: %w", err)
	}
	return buf.Bytes(), nil
}

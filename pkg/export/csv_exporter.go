package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// CSVExporter renders hour statements into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the statement entries plus a total row.
func (e *CSVExporter) Render(st Statement) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write([]string{"date", "hours", "reason", "approver"}); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, line := range st.Lines {
		record := []string{
			line.RecordedAt.Format("2006-01-02"),
			strconv.FormatFloat(line.Hours, 'f', 2, 64),
			line.Reason,
			line.ApproverID,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	if err := writer.Write([]string{"total", strconv.FormatFloat(st.TotalHours, 'f', 2, 64), "", ""}); err != nil {
		return nil, fmt.Errorf("write csv total: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

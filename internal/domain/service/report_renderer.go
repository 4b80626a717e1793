package service

import "io"

// ReportTable is a tabular report ready for rendering.
type ReportTable struct {
	Title    string
	Subtitle string
	Columns  []ReportColumn
	Rows     [][]string
	Footer   []string
}

type ReportColumn struct {
	Header string
	Width  float64
	Align  string
}

// PDFRenderer writes a report table as a PDF document.
type PDFRenderer interface {
	Render(w io.Writer, table *ReportTable) error
}

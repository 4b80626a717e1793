// Package report renders tabular admin reports as PDF with go-pdf/fpdf.
package report

import (
	"fmt"
	"io"
	"time"

	"ministry/internal/domain/service"
	"ministry/internal/errors"

	"github.com/go-pdf/fpdf"
)

const (
	margin     = 10.0
	rowHeight  = 7.0
	headHeight = 8.0
)

type pdfRenderer struct {
	now func() time.Time
}

func NewPDFRenderer() service.PDFRenderer {
	return &pdfRenderer{now: time.Now}
}

// Render lays the table out on landscape A4, repeating the header row on each page.
func (r *pdfRenderer) Render(w io.Writer, table *service.ReportTable) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	generated := r.now().UTC().Format("2006-01-02 15:04 UTC")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-margin)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("Generated %s - page %d/{nb}", generated, pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pageW, pageH := pdf.GetPageSize()
	widths := columnWidths(table.Columns, pageW-2*margin)

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 235)
		for i, col := range table.Columns {
			pdf.CellFormat(widths[i], headHeight, tr(col.Header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(table.Title), "", 1, "L", false, 0, "")
	if table.Subtitle != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr(table.Subtitle), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	header()

	if len(table.Rows) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, rowHeight, "No records", "1", 1, "C", false, 0, "")
	}

	for _, row := range table.Rows {
		if pdf.GetY()+rowHeight > pageH-2*margin {
			pdf.AddPage()
			header()
		}
		for i, col := range table.Columns {
			cell := ""
			if i < len(row) {
				cell = fit(pdf, tr(row[i]), widths[i]-2)
			}
			pdf.CellFormat(widths[i], rowHeight, cell, "1", 0, align(col.Align), false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(table.Footer) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 10)
		for _, line := range table.Footer {
			pdf.CellFormat(0, 6, tr(line), "", 1, "R", false, 0, "")
		}
	}

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "render pdf")
	}

	return nil
}

// columnWidths keeps explicit widths and shares the remaining space among the rest.
func columnWidths(cols []service.ReportColumn, total float64) []float64 {
	widths := make([]float64, len(cols))
	fixed, flexible := 0.0, 0
	for i, c := range cols {
		widths[i] = c.Width
		if c.Width > 0 {
			fixed += c.Width
		} else {
			flexible++
		}
	}

	if flexible > 0 {
		share := (total - fixed) / float64(flexible)
		if share < 10 {
			share = 10
		}
		for i := range widths {
			if widths[i] <= 0 {
				widths[i] = share
			}
		}
	}

	return widths
}

func align(a string) string {
	switch a {
	case "R", "C":
		return a
	default:
		return "L"
	}
}

// fit truncates s with an ellipsis so it stays inside width.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}

	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}

	return string(runes) + "..."
}

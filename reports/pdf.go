package reports

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

var pdfWidths = []float64{16, 16, 16, 44, 32, 14, 22, 30}

// RenderPDF writes a single-document day sheet. The core fonts only cover
// Latin-1, so other characters are replaced.
func RenderPDF(w io.Writer, r DayReport) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("%s %s", r.Restaurant, r.Date), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("%s, %s", r.Restaurant, r.Date)), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	for i, col := range reservationColumns {
		pdf.CellFormat(pdfWidths[i], 7, col, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, res := range r.Reservations {
		for i, v := range reservationRow(res) {
			pdf.CellFormat(pdfWidths[i], 6, tr(v), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(r.Reservations) == 0 {
		pdf.CellFormat(0, 6, "No reservations", "1", 1, "C", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, "Hourly load", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, seg := range r.Load {
		line := fmt.Sprintf("%02d:00  %3d%%  %-6s  %d reservations", seg.Hour, seg.Load, seg.Level, seg.ReservationsCount)
		pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

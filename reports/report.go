// Package reports renders the day sheet of a restaurant: every reservation of
// the day plus the hourly load, as XLSX or PDF.
package reports

import (
	"fmt"
	"io"
	"strings"

	"github.com/yeremiapane/restoadmin/models"
	"github.com/yeremiapane/restoadmin/scheduling"
)

// DayReport is the input of both renderers.
type DayReport struct {
	Restaurant   string
	Date         string
	Reservations []models.Reservation
	Load         []scheduling.HourlyLoad
}

// Format selects a renderer.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat defaults to xlsx.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", &scheduling.ValidationError{Field: "format", Message: fmt.Sprintf("unsupported report format %q", s)}
}

// ContentType returns the MIME type of the rendered file.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// FileName builds the attachment name, e.g. day-main-restaurant-2025-03-14.xlsx.
func (r DayReport) FileName(f Format) string {
	return fmt.Sprintf("day-%s-%s.%s", r.Restaurant, r.Date, f)
}

// Render writes the report in format f.
func Render(w io.Writer, r DayReport, f Format) error {
	switch f {
	case FormatPDF:
		return RenderPDF(w, r)
	default:
		return RenderXLSX(w, r)
	}
}

var reservationColumns = []string{"Start", "End", "Table", "Guest", "Phone", "People", "Status", "Comment"}

func reservationRow(res models.Reservation) []string {
	table, guest, phone := "", "", ""
	if res.Table != nil {
		table = res.Table.Name
	}
	if res.Guest != nil {
		guest = res.Guest.Name
		phone = "+" + res.Guest.Phone
	}
	return []string{
		res.StartTime.Format("15:04"),
		res.EndTime.Format("15:04"),
		table,
		guest,
		phone,
		fmt.Sprintf("%d", res.PeopleCount),
		string(res.Status),
		res.Comment,
	}
}

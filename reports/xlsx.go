package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	reservationsSheet = "Reservations"
	loadSheet         = "Load"
)

// RenderXLSX writes a workbook with a reservations sheet and a load sheet.
func RenderXLSX(w io.Writer, r DayReport) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", reservationsSheet)
	if _, err := f.NewSheet(loadSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", loadSheet, err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := f.SetCellValue(reservationsSheet, "A1", fmt.Sprintf("%s, %s", r.Restaurant, r.Date)); err != nil {
		return err
	}
	if err := writeRow(f, reservationsSheet, 2, toInterfaces(reservationColumns)); err != nil {
		return err
	}
	_ = f.SetCellStyle(reservationsSheet, "A2", "H2", bold)
	for i, res := range r.Reservations {
		if err := writeRow(f, reservationsSheet, i+3, toInterfaces(reservationRow(res))); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(reservationsSheet, "D", "E", 22)

	if err := writeRow(f, loadSheet, 1, []interface{}{"Hour", "Reservations", "Load %", "Level"}); err != nil {
		return err
	}
	_ = f.SetCellStyle(loadSheet, "A1", "D1", bold)
	for i, seg := range r.Load {
		row := []interface{}{fmt.Sprintf("%02d:00", seg.Hour), seg.ReservationsCount, seg.Load, string(seg.Level)}
		if err := writeRow(f, loadSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// Package report renders the schedule usage report as an Excel workbook.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Nixie-Tech-LLC/dqdash/internal/model"
)

const SheetSchedules = "Schedules"

var scheduleColumns = []string{
	"Schedule ID", "Title", "Enabled", "Active now",
	"Checks enabled", "Checks disabled", "Checks active",
	"Emails enabled", "Emails disabled", "Emails active",
}

// Writer appends rows to the sheets of a single workbook.
type Writer struct {
	file         *excelize.File
	currentSheet string
	currentRow   int
}

func NewWriter() *Writer {
	return &Writer{file: excelize.NewFile()}
}

// AddSheet starts a new sheet; the first call renames the default one.
func (w *Writer) AddSheet(name string) error {
	// Excel limit
	if len(name) > 31 {
		name = name[:31]
	}

	if w.currentSheet == "" {
		if err := w.file.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename sheet %s: %w", name, err)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}

	w.currentSheet = name
	w.currentRow = 1
	return nil
}

func (w *Writer) WriteHeader(columns []string) error {
	if err := w.WriteRow(toRow(columns)); err != nil {
		return err
	}

	style, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	start, _ := excelize.CoordinatesToCellName(1, w.currentRow-1)
	end, _ := excelize.CoordinatesToCellName(len(columns), w.currentRow-1)
	return w.file.SetCellStyle(w.currentSheet, start, end, style)
}

func (w *Writer) WriteRow(row []interface{}) error {
	if w.currentSheet == "" {
		return fmt.Errorf("no active sheet")
	}
	cell, err := excelize.CoordinatesToCellName(1, w.currentRow)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetRow(w.currentSheet, cell, &row); err != nil {
		return err
	}
	w.currentRow++
	return nil
}

func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	return w.file.WriteTo(out)
}

func (w *Writer) Close() error {
	return w.file.Close()
}

// WriteSchedules renders the report rows, stamped with generatedAt, to out.
func WriteSchedules(out io.Writer, rows []model.ScheduleReport, generatedAt time.Time) error {
	w := NewWriter()
	defer w.Close()

	if err := w.AddSheet(SheetSchedules); err != nil {
		return err
	}
	if err := w.WriteHeader(scheduleColumns); err != nil {
		return err
	}
	for _, r := range rows {
		err := w.WriteRow([]interface{}{
			r.ScheduleID, r.Title, r.IsEnabled, r.ActiveNow,
			r.ChecksEnabled, r.ChecksDisabled, r.ChecksActive,
			r.EmailsEnabled, r.EmailsDisabled, r.EmailsActive,
		})
		if err != nil {
			return fmt.Errorf("write schedule %d: %w", r.ScheduleID, err)
		}
	}
	if err := w.WriteRow(nil); err != nil {
		return err
	}
	if err := w.WriteRow([]interface{}{"Generated at", generatedAt.Format(time.RFC3339)}); err != nil {
		return err
	}

	_, err := w.WriteTo(out)
	return err
}

func toRow(columns []string) []interface{} {
	row := make([]interface{}, len(columns))
	for i, c := range columns {
		row[i] = c
	}
	return row
}

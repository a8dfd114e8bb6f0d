package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Nixie-Tech-LLC/dqdash/internal/model"
)

func TestWriteSchedules(t *testing.T) {
	rows := []model.ScheduleReport{
		{
			ScheduleLinkCounts: model.ScheduleLinkCounts{
				ScheduleID: 3, Title: "office hours", IsEnabled: true,
				ChecksEnabled: 2, ChecksDisabled: 1, EmailsEnabled: 1,
			},
			ActiveNow:    true,
			ChecksActive: 2,
			EmailsActive: 1,
		},
	}

	var buf bytes.Buffer
	at := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	require.NoError(t, WriteSchedules(&buf, rows, at))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSchedules}, f.GetSheetList())

	got, err := f.GetRows(SheetSchedules)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(got), 4)
	assert.Equal(t, scheduleColumns, got[0])
	assert.Equal(t, []string{"3", "office hours", "TRUE", "TRUE", "2", "1", "2", "1", "0", "1"}, got[1])
	assert.Equal(t, []string{"Generated at", "2024-06-12T10:00:00Z"}, got[len(got)-1])
}

func TestWriterRequiresSheet(t *testing.T) {
	w := NewWriter()
	defer w.Close()
	assert.Error(t, w.WriteRow([]interface{}{1}))
}

func TestAddSheetTruncatesName(t *testing.T) {
	w := NewWriter()
	defer w.Close()
	require.NoError(t, w.AddSheet("a sheet name that is far longer than excel allows"))
	assert.Len(t, w.currentSheet, 31)
}

package holiday

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bank_holidays.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
holidays:
  - date: "2024-12-26"
    name: Boxing Day
  - date: "2024-12-25"
    name: Christmas Day
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.True(t, c.IsBankHoliday(time.Date(2024, 12, 25, 10, 0, 0, 0, time.UTC)))
	assert.True(t, c.IsBankHoliday(time.Date(2024, 12, 26, 0, 0, 0, 0, time.UTC)))
	assert.False(t, c.IsBankHoliday(time.Date(2024, 12, 27, 0, 0, 0, 0, time.UTC)))

	list := c.List()
	require.Len(t, list, 2)
	assert.Equal(t, "2024-12-25", list[0].Date)
	assert.Equal(t, "Christmas Day", list[0].Name)
}

func TestLoadEmptyPath(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, c.List())
	assert.False(t, c.IsBankHoliday(time.Now()))
}

func TestLoadRejectsBadTables(t *testing.T) {
	tests := map[string]string{
		"bad date":  "holidays:\n  - date: \"25/12/2024\"\n    name: x\n",
		"duplicate": "holidays:\n  - date: \"2024-12-25\"\n  - date: \"2024-12-25\"\n",
		"not yaml":  "holidays: [",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNilCalendar(t *testing.T) {
	var c *Calendar
	assert.False(t, c.IsBankHoliday(time.Now()))
}

// Package holiday loads the bank holiday table used when a schedule opts in
// to running on bank holidays.
package holiday

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/Nixie-Tech-LLC/dqdash/internal/schedule"
)

// Holiday is one entry of the bank holiday table.
type Holiday struct {
	Date string `yaml:"date" json:"date"` // "2024-12-25"
	Name string `yaml:"name" json:"name"`
}

// File is the root of the YAML document.
type File struct {
	Holidays []Holiday `yaml:"holidays"`
}

// Calendar is an immutable set of bank holiday dates.
type Calendar struct {
	byDate map[string]Holiday
}

var _ schedule.BankHolidays = (*Calendar)(nil)

// Load reads the YAML table at path. An empty path yields an empty calendar.
func Load(path string) (*Calendar, error) {
	if path == "" {
		log.Warn().Msg("no bank holiday table configured, bank holidays will never match")
		return New(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank holidays %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse bank holidays %s: %w", path, err)
	}

	c, err := New(f.Holidays)
	if err != nil {
		return nil, fmt.Errorf("validate bank holidays %s: %w", path, err)
	}

	log.Info().Str("path", path).Int("count", len(c.byDate)).Msg("loaded bank holidays")
	return c, nil
}

// New builds a calendar from entries, rejecting bad or duplicate dates.
func New(entries []Holiday) (*Calendar, error) {
	c := &Calendar{byDate: make(map[string]Holiday, len(entries))}
	for i, h := range entries {
		d, err := time.Parse("2006-01-02", h.Date)
		if err != nil {
			return nil, fmt.Errorf("holidays[%d]: invalid date %q", i, h.Date)
		}
		key := schedule.FormatDate(d)
		if _, dup := c.byDate[key]; dup {
			return nil, fmt.Errorf("holidays[%d]: duplicate date %s", i, key)
		}
		c.byDate[key] = Holiday{Date: key, Name: h.Name}
	}
	return c, nil
}

// IsBankHoliday reports whether the calendar date of t is in the table.
func (c *Calendar) IsBankHoliday(t time.Time) bool {
	if c == nil {
		return false
	}
	_, ok := c.byDate[schedule.FormatDate(t)]
	return ok
}

// List returns the entries ordered by date.
func (c *Calendar) List() []Holiday {
	if c == nil {
		return []Holiday{}
	}
	out := make([]Holiday, 0, len(c.byDate))
	for _, h := range c.byDate {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

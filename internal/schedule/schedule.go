// Package schedule decides whether a DQ schedule is active at a given
// instant. It is a pure predicate over the three schedule records and a bank
// holiday lookup; nothing here talks to storage or reads the clock.
package schedule

import (
	"time"

	"github.com/pkg/errors"
)

const (
	DaysInWeek = 7
	HoursInDay = 24

	dateLayout = "2006-01-02"
)

var (
	ErrInvalidDayMask  = errors.New("day mask must have exactly 7 flags (monday..sunday)")
	ErrInvalidHourMask = errors.New("hour mask must have exactly 24 flags (0..23)")
	ErrInvalidWindow   = errors.New("activeTo must not be before activeFrom")
	ErrInvalidHour     = errors.New("hour must be within 0..23")
)

// Window is the date envelope and master switch of a schedule.
type Window struct {
	Enabled    bool
	ActiveFrom time.Time
	// ActiveTo is inclusive. nil means open-ended.
	ActiveTo *time.Time
}

// Days holds the weekday flags indexed monday=0 .. sunday=6.
type Days struct {
	Flags           []bool
	IncludeBankHols bool
}

// Hours holds one flag per hour of the day, index 0 is 00:00-00:59.
type Hours []bool

// Instant is a calendar date plus an hour already expressed in the
// schedule's local time.
type Instant struct {
	Date time.Time
	Hour int
}

// BankHolidays reports whether a date is a bank holiday.
type BankHolidays interface {
	IsBankHoliday(date time.Time) bool
}

// NoBankHolidays is a BankHolidays with no entries.
var NoBankHolidays BankHolidays = noHolidays{}

type noHolidays struct{}

func (noHolidays) IsBankHoliday(time.Time) bool { return false }

// DateOf strips the clock from t, keeping the calendar date as seen in t's
// own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid date %q", s)
	}
	return t, nil
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return DateOf(t).Format(dateLayout)
}

// InstantAt takes the date and hour of t in t's own location. Callers convert
// t into the schedule timezone first.
func InstantAt(t time.Time) Instant {
	return Instant{Date: DateOf(t), Hour: t.Hour()}
}

// WeekdayIndex maps a time.Weekday to the monday-first index used by Days.
func WeekdayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// DefaultDays is the record provisioned for new schedules: weekdays on,
// weekend off, bank holidays excluded.
func DefaultDays() Days {
	return Days{
		Flags:           []bool{true, true, true, true, true, false, false},
		IncludeBankHols: false,
	}
}

// DefaultHours is the record provisioned for new schedules: 09:00 through
// 17:59.
func DefaultHours() Hours {
	h := make(Hours, HoursInDay)
	for i := 9; i <= 17; i++ {
		h[i] = true
	}
	return h
}

// HoursFromMask expands a bitmask (bit i = hour i) into 24 flags.
func HoursFromMask(mask int64) Hours {
	h := make(Hours, HoursInDay)
	for i := range h {
		h[i] = mask&(1<<uint(i)) != 0
	}
	return h
}

// Mask packs the flags into a bitmask. The hours must already be valid.
func (h Hours) Mask() int64 {
	var mask int64
	for i, on := range h {
		if on && i < HoursInDay {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// ValidateDays checks the day record shape.
func ValidateDays(d Days) error {
	if len(d.Flags) != DaysInWeek {
		return errors.Wrapf(ErrInvalidDayMask, "got %d", len(d.Flags))
	}
	return nil
}

// ValidateHours checks the hour record shape.
func ValidateHours(h Hours) error {
	if len(h) != HoursInDay {
		return errors.Wrapf(ErrInvalidHourMask, "got %d", len(h))
	}
	return nil
}

// ValidateWindow checks activeTo >= activeFrom.
func ValidateWindow(w Window) error {
	if w.ActiveTo != nil && DateOf(*w.ActiveTo).Before(DateOf(w.ActiveFrom)) {
		return errors.Wrapf(ErrInvalidWindow, "activeFrom %s, activeTo %s",
			FormatDate(w.ActiveFrom), FormatDate(*w.ActiveTo))
	}
	return nil
}

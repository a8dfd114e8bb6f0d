package schedule

import (
	"time"

	"github.com/pkg/errors"
)

// maxLookahead bounds NextActive. A schedule that is not active within a
// year plus a day is reported as never active.
const maxLookahead = 366 * HoursInDay

// IsActive reports whether the schedule fires at the given instant.
//
// The checks run in a fixed order: master switch, activeFrom, activeTo,
// weekday (or bank holiday when included), hour. Bank holidays can only turn
// a day on, never off. A nil holidays argument means no bank holidays.
// Malformed inputs are rejected with an error rather than coerced.
func IsActive(w Window, d Days, h Hours, holidays BankHolidays, at Instant) (bool, error) {
	if err := validate(w, d, h, at); err != nil {
		return false, err
	}
	if holidays == nil {
		holidays = NoBankHolidays
	}

	if !w.Enabled {
		return false, nil
	}

	date := DateOf(at.Date)
	if date.Before(DateOf(w.ActiveFrom)) {
		return false, nil
	}
	if w.ActiveTo != nil && date.After(DateOf(*w.ActiveTo)) {
		return false, nil
	}

	dayOn := d.Flags[WeekdayIndex(date.Weekday())]
	if !dayOn && d.IncludeBankHols && holidays.IsBankHoliday(date) {
		dayOn = true
	}
	if !dayOn {
		return false, nil
	}

	return h[at.Hour], nil
}

// NextActive returns the start of the first active hour, counting from's own
// hour, so an already active schedule yields the top of the current hour.
// Hours are evaluated in loc. ok is false when no
// such hour exists within the lookahead.
func NextActive(w Window, d Days, h Hours, holidays BankHolidays, from time.Time, loc *time.Location) (next time.Time, ok bool, err error) {
	if loc == nil {
		loc = time.UTC
	}
	local := from.In(loc)
	t := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, loc)

	for i := 0; i < maxLookahead; i++ {
		active, err := IsActive(w, d, h, holidays, InstantAt(t))
		if err != nil {
			return time.Time{}, false, err
		}
		if active {
			return t, true, nil
		}
		t = t.Add(time.Hour).In(loc)
	}
	return time.Time{}, false, nil
}

func validate(w Window, d Days, h Hours, at Instant) error {
	if err := ValidateDays(d); err != nil {
		return err
	}
	if err := ValidateHours(h); err != nil {
		return err
	}
	if err := ValidateWindow(w); err != nil {
		return err
	}
	if at.Hour < 0 || at.Hour >= HoursInDay {
		return errors.Wrapf(ErrInvalidHour, "got %d", at.Hour)
	}
	return nil
}

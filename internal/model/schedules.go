package model

import (
	"time"

	"gopkg.in/guregu/null.v3"

	"github.com/Nixie-Tech-LLC/dqdash/internal/schedule"
)

type Schedule struct {
	ID          int       `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	ActiveFrom  time.Time `db:"active_from" json:"activeFrom"`
	ActiveTo    null.Time `db:"active_to" json:"activeTo"`
	IsEnabled   bool      `db:"is_enabled" json:"isEnabled"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Window converts the row into the evaluator's date envelope.
func (s Schedule) Window() schedule.Window {
	w := schedule.Window{
		Enabled:    s.IsEnabled,
		ActiveFrom: schedule.DateOf(s.ActiveFrom),
	}
	if s.ActiveTo.Valid {
		to := schedule.DateOf(s.ActiveTo.Time)
		w.ActiveTo = &to
	}
	return w
}

type ScheduleDays struct {
	ScheduleID      int       `db:"schedule_id" json:"scheduleId"`
	Monday          bool      `db:"monday" json:"monday"`
	Tuesday         bool      `db:"tuesday" json:"tuesday"`
	Wednesday       bool      `db:"wednesday" json:"wednesday"`
	Thursday        bool      `db:"thursday" json:"thursday"`
	Friday          bool      `db:"friday" json:"friday"`
	Saturday        bool      `db:"saturday" json:"saturday"`
	Sunday          bool      `db:"sunday" json:"sunday"`
	IncludeBankHols bool      `db:"include_bank_hols" json:"includeBankHols"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// Days converts the row into the evaluator's monday-first flag record.
func (d ScheduleDays) Days() schedule.Days {
	return schedule.Days{
		Flags:           []bool{d.Monday, d.Tuesday, d.Wednesday, d.Thursday, d.Friday, d.Saturday, d.Sunday},
		IncludeBankHols: d.IncludeBankHols,
	}
}

// NewScheduleDays builds a row from an evaluator record. The flags must
// already be validated.
func NewScheduleDays(scheduleID int, d schedule.Days) ScheduleDays {
	return ScheduleDays{
		ScheduleID:      scheduleID,
		Monday:          d.Flags[0],
		Tuesday:         d.Flags[1],
		Wednesday:       d.Flags[2],
		Thursday:        d.Flags[3],
		Friday:          d.Flags[4],
		Saturday:        d.Flags[5],
		Sunday:          d.Flags[6],
		IncludeBankHols: d.IncludeBankHols,
	}
}

// ScheduleHours stores the 24 hourly flags as a bitmask, bit i = hour i.
type ScheduleHours struct {
	ScheduleID int       `db:"schedule_id" json:"scheduleId"`
	HourMask   int64     `db:"hour_mask" json:"-"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

func (h ScheduleHours) Hours() schedule.Hours {
	return schedule.HoursFromMask(h.HourMask)
}

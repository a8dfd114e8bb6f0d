// internal/db/schedules.go
package db

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/dqdash/internal/model"
	"github.com/Nixie-Tech-LLC/dqdash/internal/schedule"
)

var schedules = table{
	name:    "schedules",
	columns: "id, title, description, active_from, active_to, is_enabled, created_at, updated_at",
	fields:  Fields{"title", "description", "active_from", "active_to", "is_enabled"},
}

const (
	dayColumns  = "schedule_id, monday, tuesday, wednesday, thursday, friday, saturday, sunday, include_bank_hols, updated_at"
	hourColumns = "schedule_id, hour_mask, updated_at"
)

func (s *sqlStore) ListSchedules(ctx context.Context) ([]model.Schedule, error) {
	return selectRows[model.Schedule](ctx, s.db, schedules, "")
}

func (s *sqlStore) GetSchedule(ctx context.Context, id int) (model.Schedule, error) {
	return getRow[model.Schedule](ctx, s.db, schedules, id)
}

// CreateSchedule inserts the schedule together with its default day and hour
// records in one transaction.
func (s *sqlStore) CreateSchedule(ctx context.Context, in model.Schedule) (model.Schedule, error) {
	var out model.Schedule
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		q := tx.Rebind(`
		INSERT INTO schedules (title, description, active_from, active_to, is_enabled)
		VALUES (?, ?, ?, ?, ?)
		RETURNING ` + schedules.columns + `;`)
		err := sqlx.GetContext(ctx, tx, &out, q,
			in.Title, in.Description, schedule.DateOf(in.ActiveFrom), dateOrNull(in), in.IsEnabled)
		if err != nil {
			return translate(err)
		}
		if err := insertDays(ctx, tx, model.NewScheduleDays(out.ID, schedule.DefaultDays()), false); err != nil {
			return err
		}
		return insertHours(ctx, tx, out.ID, schedule.DefaultHours(), false)
	})
	if err != nil {
		log.Error().Err(err).Str("title", in.Title).Msg("CreateSchedule failed")
		return model.Schedule{}, err
	}
	return out, nil
}

func (s *sqlStore) UpdateSchedule(ctx context.Context, id int, changes Changes) (model.Schedule, error) {
	return updateRow[model.Schedule](ctx, s.db, schedules, id, changes)
}

// DeleteSchedule refuses with ErrInUse while any DQ check or DQ email still
// links to the schedule. Day and hour records go with it.
func (s *sqlStore) DeleteSchedule(ctx context.Context, id int) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var refs int
		q := tx.Rebind(`
		SELECT (SELECT COUNT(*) FROM dq_check_schedules WHERE schedule_id = ?)
		     + (SELECT COUNT(*) FROM dq_email_schedules WHERE schedule_id = ?);`)
		if err := sqlx.GetContext(ctx, tx, &refs, q, id, id); err != nil {
			log.Error().Err(err).Int("schedule_id", id).Msg("DeleteSchedule reference count failed")
			return translate(err)
		}
		if refs > 0 {
			return errors.Wrapf(ErrInUse, "schedule %d has %d links", id, refs)
		}
		return deleteRow(ctx, tx, schedules, id)
	})
}

// GetScheduleDays returns the day record, materialising the default record
// when the schedule has none yet.
func (s *sqlStore) GetScheduleDays(ctx context.Context, scheduleID int) (model.ScheduleDays, error) {
	var d model.ScheduleDays
	q := s.db.Rebind(`SELECT ` + dayColumns + ` FROM schedule_days WHERE schedule_id = ?;`)
	err := sqlx.GetContext(ctx, s.db, &d, q, scheduleID)
	if err == nil {
		return d, nil
	}
	if err = translate(err); !errors.Is(err, ErrNotFound) {
		log.Error().Err(err).Int("schedule_id", scheduleID).Msg("GetScheduleDays failed")
		return d, err
	}

	if _, err := s.GetSchedule(ctx, scheduleID); err != nil {
		return d, err
	}
	log.Info().Int("schedule_id", scheduleID).Msg("provisioning default schedule days")
	if err := insertDays(ctx, s.db, model.NewScheduleDays(scheduleID, schedule.DefaultDays()), false); err != nil {
		log.Error().Err(err).Int("schedule_id", scheduleID).Msg("GetScheduleDays default insert failed")
		return d, err
	}
	if err := sqlx.GetContext(ctx, s.db, &d, q, scheduleID); err != nil {
		return d, translate(err)
	}
	return d, nil
}

// UpdateScheduleDays replaces the whole day record. Concurrent writers race
// and the last one wins.
func (s *sqlStore) UpdateScheduleDays(ctx context.Context, scheduleID int, days schedule.Days) (model.ScheduleDays, error) {
	if err := schedule.ValidateDays(days); err != nil {
		return model.ScheduleDays{}, errors.Wrap(ErrInvalid, err.Error())
	}
	if _, err := s.GetSchedule(ctx, scheduleID); err != nil {
		return model.ScheduleDays{}, err
	}
	if err := insertDays(ctx, s.db, model.NewScheduleDays(scheduleID, days), true); err != nil {
		log.Error().Err(err).Int("schedule_id", scheduleID).Msg("UpdateScheduleDays failed")
		return model.ScheduleDays{}, err
	}
	return s.GetScheduleDays(ctx, scheduleID)
}

// GetScheduleHours returns the hour record, materialising the default record
// when the schedule has none yet.
func (s *sqlStore) GetScheduleHours(ctx context.Context, scheduleID int) (model.ScheduleHours, error) {
	var h model.ScheduleHours
	q := s.db.Rebind(`SELECT ` + hourColumns + ` FROM schedule_hours WHERE schedule_id = ?;`)
	err := sqlx.GetContext(ctx, s.db, &h, q, scheduleID)
	if err == nil {
		return h, nil
	}
	if err = translate(err); !errors.Is(err, ErrNotFound) {
		log.Error().Err(err).Int("schedule_id", scheduleID).Msg("GetScheduleHours failed")
		return h, err
	}

	if _, err := s.GetSchedule(ctx, scheduleID); err != nil {
		return h, err
	}
	log.Info().Int("schedule_id", scheduleID).Msg("provisioning default schedule hours")
	if err := insertHours(ctx, s.db, scheduleID, schedule.DefaultHours(), false); err != nil {
		log.Error().Err(err).Int("schedule_id", scheduleID).Msg("GetScheduleHours default insert failed")
		return h, err
	}
	if err := sqlx.GetContext(ctx, s.db, &h, q, scheduleID); err != nil {
		return h, translate(err)
	}
	return h, nil
}

// UpdateScheduleHours replaces the whole hour record, last writer wins.
func (s *sqlStore) UpdateScheduleHours(ctx context.Context, scheduleID int, hours schedule.Hours) (model.ScheduleHours, error) {
	if err := schedule.ValidateHours(hours); err != nil {
		return model.ScheduleHours{}, errors.Wrap(ErrInvalid, err.Error())
	}
	if _, err := s.GetSchedule(ctx, scheduleID); err != nil {
		return model.ScheduleHours{}, err
	}
	if err := insertHours(ctx, s.db, scheduleID, hours, true); err != nil {
		log.Error().Err(err).Int("schedule_id", scheduleID).Msg("UpdateScheduleHours failed")
		return model.ScheduleHours{}, err
	}
	return s.GetScheduleHours(ctx, scheduleID)
}

// insertDays writes a day record. With replace the existing record is
// overwritten, otherwise an existing record is left alone.
func insertDays(ctx context.Context, e sqlx.ExtContext, d model.ScheduleDays, replace bool) error {
	q := `
	INSERT INTO schedule_days (schedule_id, monday, tuesday, wednesday, thursday, friday, saturday, sunday, include_bank_hols)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if replace {
		q += `
	ON CONFLICT (schedule_id) DO UPDATE SET
		monday = excluded.monday,
		tuesday = excluded.tuesday,
		wednesday = excluded.wednesday,
		thursday = excluded.thursday,
		friday = excluded.friday,
		saturday = excluded.saturday,
		sunday = excluded.sunday,
		include_bank_hols = excluded.include_bank_hols,
		updated_at = CURRENT_TIMESTAMP;`
	} else {
		q += `
	ON CONFLICT DO NOTHING;`
	}
	_, err := e.ExecContext(ctx, e.Rebind(q), d.ScheduleID,
		d.Monday, d.Tuesday, d.Wednesday, d.Thursday, d.Friday, d.Saturday, d.Sunday, d.IncludeBankHols)
	return translate(err)
}

func insertHours(ctx context.Context, e sqlx.ExtContext, scheduleID int, h schedule.Hours, replace bool) error {
	q := `
	INSERT INTO schedule_hours (schedule_id, hour_mask)
	VALUES (?, ?)`
	if replace {
		q += `
	ON CONFLICT (schedule_id) DO UPDATE SET
		hour_mask = excluded.hour_mask,
		updated_at = CURRENT_TIMESTAMP;`
	} else {
		q += `
	ON CONFLICT DO NOTHING;`
	}
	_, err := e.ExecContext(ctx, e.Rebind(q), scheduleID, h.Mask())
	return translate(err)
}

func dateOrNull(s model.Schedule) any {
	if !s.ActiveTo.Valid {
		return nil
	}
	return schedule.DateOf(s.ActiveTo.Time)
}

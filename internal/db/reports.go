package db

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/dqdash/internal/model"
)

const linkCountsQuery = `
	SELECT s.id AS schedule_id,
	       s.title,
	       s.is_enabled,
	       COALESCE(c.enabled, 0)  AS checks_enabled,
	       COALESCE(c.disabled, 0) AS checks_disabled,
	       COALESCE(e.enabled, 0)  AS emails_enabled,
	       COALESCE(e.disabled, 0) AS emails_disabled
	  FROM schedules s
	  LEFT JOIN (
	        SELECT schedule_id,
	               SUM(CASE WHEN is_enabled THEN 1 ELSE 0 END)     AS enabled,
	               SUM(CASE WHEN is_enabled THEN 0 ELSE 1 END)     AS disabled
	          FROM dq_check_schedules
	         GROUP BY schedule_id
	  ) c ON c.schedule_id = s.id
	  LEFT JOIN (
	        SELECT schedule_id,
	               SUM(CASE WHEN is_enabled THEN 1 ELSE 0 END)     AS enabled,
	               SUM(CASE WHEN is_enabled THEN 0 ELSE 1 END)     AS disabled
	          FROM dq_email_schedules
	         GROUP BY schedule_id
	  ) e ON e.schedule_id = s.id`

// ScheduleLinkCounts counts enabled and disabled links for one schedule.
func (s *sqlStore) ScheduleLinkCounts(ctx context.Context, scheduleID int) (model.ScheduleLinkCounts, error) {
	var out model.ScheduleLinkCounts
	q := s.db.Rebind(linkCountsQuery + ` WHERE s.id = ?;`)
	if err := sqlx.GetContext(ctx, s.db, &out, q, scheduleID); err != nil {
		err = translate(err)
		logUnlessMissing(err, "schedules", scheduleID, "ScheduleLinkCounts failed")
		return out, err
	}
	return out, nil
}

func (s *sqlStore) ListScheduleLinkCounts(ctx context.Context) ([]model.ScheduleLinkCounts, error) {
	out := []model.ScheduleLinkCounts{}
	if err := sqlx.SelectContext(ctx, s.db, &out, linkCountsQuery+` ORDER BY s.id;`); err != nil {
		log.Error().Err(err).Msg("ListScheduleLinkCounts failed")
		return nil, translate(err)
	}
	return out, nil
}

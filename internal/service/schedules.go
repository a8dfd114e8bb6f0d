// Package service composes storage, the evaluator, the report cache and the
// change notifier into the operations the HTTP layer exposes.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/dqdash/internal/cache"
	"github.com/Nixie-Tech-LLC/dqdash/internal/db"
	"github.com/Nixie-Tech-LLC/dqdash/internal/metrics"
	"github.com/Nixie-Tech-LLC/dqdash/internal/model"
	"github.com/Nixie-Tech-LLC/dqdash/internal/notify"
	"github.com/Nixie-Tech-LLC/dqdash/internal/schedule"
)

const reportKeyPrefix = "reports:schedules"

type Options struct {
	// Location is the zone schedule hours are expressed in.
	Location *time.Location
	CacheTTL time.Duration
	Clock    Clock
}

type Schedules struct {
	store    db.Store
	holidays schedule.BankHolidays
	cache    cache.Cache
	notifier notify.Notifier
	loc      *time.Location
	ttl      time.Duration
	clock    Clock
}

func NewSchedules(store db.Store, holidays schedule.BankHolidays, c cache.Cache, n notify.Notifier, opts Options) *Schedules {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if holidays == nil {
		holidays = schedule.NoBankHolidays
	}
	if n == nil {
		n = notify.Nop{}
	}
	return &Schedules{
		store:    store,
		holidays: holidays,
		cache:    c,
		notifier: n,
		loc:      opts.Location,
		ttl:      opts.CacheTTL,
		clock:    opts.Clock,
	}
}

func (s *Schedules) Location() *time.Location { return s.loc }

func (s *Schedules) Now() time.Time { return s.clock.Now() }

// Status is the evaluation of one schedule at one instant.
type Status struct {
	ScheduleID   int
	Active       bool
	EvaluatedAt  time.Time
	LocalDate    time.Time
	LocalHour    int
	Timezone     string
	NextActiveAt *time.Time
}

// Status evaluates the schedule at at, or at the current time when at is
// zero, in the configured timezone.
func (s *Schedules) Status(ctx context.Context, id int, at time.Time) (Status, error) {
	if at.IsZero() {
		at = s.clock.Now()
	}
	sc, err := s.store.GetSchedule(ctx, id)
	if err != nil {
		return Status{}, err
	}
	days, hours, err := s.calendar(ctx, id)
	if err != nil {
		return Status{}, err
	}

	local := at.In(s.loc)
	instant := schedule.InstantAt(local)
	active, err := s.evaluate(sc, days, hours, instant)
	if err != nil {
		return Status{}, err
	}

	st := Status{
		ScheduleID:  id,
		Active:      active,
		EvaluatedAt: at,
		LocalDate:   instant.Date,
		LocalHour:   instant.Hour,
		Timezone:    s.loc.String(),
	}
	next, ok, err := schedule.NextActive(sc.Window(), days, hours, s.holidays, local, s.loc)
	if err != nil {
		return Status{}, err
	}
	if ok {
		st.NextActiveAt = &next
	}
	return st, nil
}

// Relationships reports link counts for one schedule and how many of those
// links are active right now.
func (s *Schedules) Relationships(ctx context.Context, id int) (model.ScheduleReport, error) {
	counts, err := s.store.ScheduleLinkCounts(ctx, id)
	if err != nil {
		return model.ScheduleReport{}, err
	}
	sc, err := s.store.GetSchedule(ctx, id)
	if err != nil {
		return model.ScheduleReport{}, err
	}
	return s.reportRow(ctx, sc, counts, schedule.InstantAt(s.clock.Now().In(s.loc)))
}

// Report builds the usage report for every schedule. Results are cached per
// local hour, since activity can only change on an hour boundary, and
// dropped on any schedule or link write.
func (s *Schedules) Report(ctx context.Context) ([]model.ScheduleReport, error) {
	instant := schedule.InstantAt(s.clock.Now().In(s.loc))
	key := reportKey(instant)

	// A write landing between buildReport and the cache fill leaves this
	// report stale until the TTL or the local hour rolls over.
	missed := false
	rows, err := cache.GetOrCompute(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]model.ScheduleReport, error) {
		missed = true
		return s.buildReport(ctx, instant)
	})
	if err != nil {
		return nil, err
	}
	if missed {
		metrics.ReportCache.WithLabelValues("miss").Inc()
	} else {
		metrics.ReportCache.WithLabelValues("hit").Inc()
	}
	return rows, nil
}

func (s *Schedules) buildReport(ctx context.Context, instant schedule.Instant) ([]model.ScheduleReport, error) {
	counts, err := s.store.ListScheduleLinkCounts(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.store.ListSchedules(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]model.Schedule, len(list))
	for _, sc := range list {
		byID[sc.ID] = sc
	}

	rows := make([]model.ScheduleReport, 0, len(counts))
	for _, c := range counts {
		sc, ok := byID[c.ScheduleID]
		if !ok {
			// deleted between the two queries
			continue
		}
		row, err := s.reportRow(ctx, sc, c, instant)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Schedules) reportRow(ctx context.Context, sc model.Schedule, c model.ScheduleLinkCounts, instant schedule.Instant) (model.ScheduleReport, error) {
	days, hours, err := s.calendar(ctx, sc.ID)
	if err != nil {
		return model.ScheduleReport{}, err
	}
	active, err := s.evaluate(sc, days, hours, instant)
	if err != nil {
		return model.ScheduleReport{}, err
	}

	row := model.ScheduleReport{ScheduleLinkCounts: c, ActiveNow: active}
	if active {
		row.ChecksActive = c.ChecksEnabled
		row.EmailsActive = c.EmailsEnabled
	}
	return row, nil
}

func (s *Schedules) calendar(ctx context.Context, id int) (schedule.Days, schedule.Hours, error) {
	d, err := s.store.GetScheduleDays(ctx, id)
	if err != nil {
		return schedule.Days{}, nil, err
	}
	h, err := s.store.GetScheduleHours(ctx, id)
	if err != nil {
		return schedule.Days{}, nil, err
	}
	return d.Days(), h.Hours(), nil
}

func (s *Schedules) evaluate(sc model.Schedule, days schedule.Days, hours schedule.Hours, at schedule.Instant) (bool, error) {
	active, err := schedule.IsActive(sc.Window(), days, hours, s.holidays, at)
	switch {
	case err != nil:
		metrics.ScheduleEvaluations.WithLabelValues("invalid").Inc()
		log.Error().Err(err).Int("schedule_id", sc.ID).Msg("schedule evaluation rejected stored records")
	case active:
		metrics.ScheduleEvaluations.WithLabelValues("active").Inc()
	default:
		metrics.ScheduleEvaluations.WithLabelValues("inactive").Inc()
	}
	return active, err
}

func (s *Schedules) CreateSchedule(ctx context.Context, in model.Schedule) (model.Schedule, error) {
	if in.ActiveFrom.IsZero() {
		in.ActiveFrom = schedule.DateOf(s.clock.Now().In(s.loc))
	}
	if err := schedule.ValidateWindow(in.Window()); err != nil {
		return model.Schedule{}, err
	}
	out, err := s.store.CreateSchedule(ctx, in)
	if err != nil {
		return out, err
	}
	s.changed(ctx, out.ID, "created")
	return out, nil
}

// UpdateSchedule applies a partial update, checking the resulting date
// window before it reaches storage.
func (s *Schedules) UpdateSchedule(ctx context.Context, id int, changes db.Changes) (model.Schedule, error) {
	_, fromSet := changes["active_from"]
	_, toSet := changes["active_to"]
	if fromSet || toSet {
		current, err := s.store.GetSchedule(ctx, id)
		if err != nil {
			return model.Schedule{}, err
		}
		if err := schedule.ValidateWindow(mergeWindow(current, changes)); err != nil {
			return model.Schedule{}, err
		}
	}

	out, err := s.store.UpdateSchedule(ctx, id, changes)
	if err != nil {
		return out, err
	}
	s.changed(ctx, id, "updated")
	return out, nil
}

func (s *Schedules) DeleteSchedule(ctx context.Context, id int) error {
	if err := s.store.DeleteSchedule(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, id, "deleted")
	return nil
}

func (s *Schedules) UpdateDays(ctx context.Context, id int, days schedule.Days) (model.ScheduleDays, error) {
	if err := schedule.ValidateDays(days); err != nil {
		return model.ScheduleDays{}, err
	}
	out, err := s.store.UpdateScheduleDays(ctx, id, days)
	if err != nil {
		return out, err
	}
	s.changed(ctx, id, "days")
	return out, nil
}

func (s *Schedules) UpdateHours(ctx context.Context, id int, hours schedule.Hours) (model.ScheduleHours, error) {
	if err := schedule.ValidateHours(hours); err != nil {
		return model.ScheduleHours{}, err
	}
	out, err := s.store.UpdateScheduleHours(ctx, id, hours)
	if err != nil {
		return out, err
	}
	s.changed(ctx, id, "hours")
	return out, nil
}

func (s *Schedules) CreateLink(ctx context.Context, kind db.LinkKind, parentID, childID int, enabled bool) (model.Link, error) {
	out, err := s.store.CreateLink(ctx, kind, parentID, childID, enabled)
	if err != nil {
		return out, err
	}
	s.linkChanged(ctx, kind, out, "link created")
	return out, nil
}

func (s *Schedules) SetLinkEnabled(ctx context.Context, kind db.LinkKind, id int, enabled bool) (model.Link, error) {
	out, err := s.store.SetLinkEnabled(ctx, kind, id, enabled)
	if err != nil {
		return out, err
	}
	s.linkChanged(ctx, kind, out, "link updated")
	return out, nil
}

func (s *Schedules) DeleteLink(ctx context.Context, kind db.LinkKind, id int) error {
	link, err := s.store.GetLink(ctx, kind, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteLink(ctx, kind, id); err != nil {
		return err
	}
	s.linkChanged(ctx, kind, link, "link deleted")
	return nil
}

func (s *Schedules) linkChanged(ctx context.Context, kind db.LinkKind, link model.Link, reason string) {
	if kind == db.CheckSchedules || kind == db.EmailSchedules {
		s.changed(ctx, link.ChildID, reason)
	}
}

// changed drops the cached report and tells subscribers.
func (s *Schedules) changed(ctx context.Context, scheduleID int, reason string) {
	s.InvalidateReport(ctx)
	s.notifier.ScheduleChanged(ctx, scheduleID, reason)
}

// InvalidateReport drops the cached usage report. Writes to linked checks
// and emails call it since they move the report's counts.
func (s *Schedules) InvalidateReport(ctx context.Context) {
	key := reportKey(schedule.InstantAt(s.clock.Now().In(s.loc)))
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to invalidate schedule report")
	}
}

func reportKey(at schedule.Instant) string {
	return fmt.Sprintf("%s:%s:%02d", reportKeyPrefix, schedule.FormatDate(at.Date), at.Hour)
}

func mergeWindow(current model.Schedule, changes db.Changes) schedule.Window {
	w := current.Window()
	if v, ok := changes["active_from"].(time.Time); ok {
		w.ActiveFrom = schedule.DateOf(v)
	}
	if v, ok := changes["active_to"]; ok {
		switch to := v.(type) {
		case time.Time:
			d := schedule.DateOf(to)
			w.ActiveTo = &d
		case nil:
			w.ActiveTo = nil
		}
	}
	return w
}

// IsValidation reports whether err is a client input problem rather than a
// storage failure.
func IsValidation(err error) bool {
	for _, target := range []error{
		schedule.ErrInvalidDayMask,
		schedule.ErrInvalidHourMask,
		schedule.ErrInvalidWindow,
		schedule.ErrInvalidHour,
		db.ErrInvalid,
		db.ErrUnknownField,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

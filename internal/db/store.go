// exposes a Store interface that is passed to API calls w/ param requirements
package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/dqdash/internal/model"
	"github.com/Nixie-Tech-LLC/dqdash/internal/schedule"
)

type Store interface {
	// source systems
	ListSourceSystems(ctx context.Context) ([]model.SourceSystem, error)
	GetSourceSystem(ctx context.Context, id int) (model.SourceSystem, error)
	CreateSourceSystem(ctx context.Context, in model.SourceSystem) (model.SourceSystem, error)
	UpdateSourceSystem(ctx context.Context, id int, changes Changes) (model.SourceSystem, error)
	DeleteSourceSystem(ctx context.Context, id int) error

	// domains and their synonyms
	ListDomains(ctx context.Context) ([]model.Domain, error)
	GetDomain(ctx context.Context, id int) (model.Domain, error)
	CreateDomain(ctx context.Context, in model.Domain) (model.Domain, error)
	UpdateDomain(ctx context.Context, id int, changes Changes) (model.Domain, error)
	DeleteDomain(ctx context.Context, id int) error

	ListSynonyms(ctx context.Context, domainID int) ([]model.Synonym, error)
	GetSynonym(ctx context.Context, id int) (model.Synonym, error)
	CreateSynonym(ctx context.Context, in model.Synonym) (model.Synonym, error)
	UpdateSynonym(ctx context.Context, id int, changes Changes) (model.Synonym, error)
	DeleteSynonym(ctx context.Context, id int) error

	// dq checks
	ListDQChecks(ctx context.Context) ([]model.DQCheck, error)
	GetDQCheck(ctx context.Context, id int) (model.DQCheck, error)
	CreateDQCheck(ctx context.Context, in model.DQCheck) (model.DQCheck, error)
	UpdateDQCheck(ctx context.Context, id int, changes Changes) (model.DQCheck, error)
	DeleteDQCheck(ctx context.Context, id int) error

	// dq emails and distribution groups
	ListDQEmails(ctx context.Context) ([]model.DQEmail, error)
	GetDQEmail(ctx context.Context, id int) (model.DQEmail, error)
	CreateDQEmail(ctx context.Context, in model.DQEmail) (model.DQEmail, error)
	UpdateDQEmail(ctx context.Context, id int, changes Changes) (model.DQEmail, error)
	DeleteDQEmail(ctx context.Context, id int) error

	ListDistributionGroups(ctx context.Context) ([]model.DistributionGroup, error)
	GetDistributionGroup(ctx context.Context, id int) (model.DistributionGroup, error)
	CreateDistributionGroup(ctx context.Context, in model.DistributionGroup) (model.DistributionGroup, error)
	UpdateDistributionGroup(ctx context.Context, id int, changes Changes) (model.DistributionGroup, error)
	DeleteDistributionGroup(ctx context.Context, id int) error

	// schedules
	ListSchedules(ctx context.Context) ([]model.Schedule, error)
	GetSchedule(ctx context.Context, id int) (model.Schedule, error)
	CreateSchedule(ctx context.Context, in model.Schedule) (model.Schedule, error)
	UpdateSchedule(ctx context.Context, id int, changes Changes) (model.Schedule, error)
	DeleteSchedule(ctx context.Context, id int) error

	GetScheduleDays(ctx context.Context, scheduleID int) (model.ScheduleDays, error)
	UpdateScheduleDays(ctx context.Context, scheduleID int, days schedule.Days) (model.ScheduleDays, error)
	GetScheduleHours(ctx context.Context, scheduleID int) (model.ScheduleHours, error)
	UpdateScheduleHours(ctx context.Context, scheduleID int, hours schedule.Hours) (model.ScheduleHours, error)

	// association rows
	ListLinks(ctx context.Context, kind LinkKind, parentID int) ([]model.Link, error)
	ListLinksByChild(ctx context.Context, kind LinkKind, childID int) ([]model.Link, error)
	GetLink(ctx context.Context, kind LinkKind, id int) (model.Link, error)
	CreateLink(ctx context.Context, kind LinkKind, parentID, childID int, enabled bool) (model.Link, error)
	SetLinkEnabled(ctx context.Context, kind LinkKind, id int, enabled bool) (model.Link, error)
	DeleteLink(ctx context.Context, kind LinkKind, id int) error

	// reporting
	ScheduleLinkCounts(ctx context.Context, scheduleID int) (model.ScheduleLinkCounts, error)
	ListScheduleLinkCounts(ctx context.Context) ([]model.ScheduleLinkCounts, error)

	Ping(ctx context.Context) error
}

type sqlStore struct {
	db *sqlx.DB
}

// compile-time check that sqlStore implements Store
var _ Store = (*sqlStore)(nil)

func NewStore(conn *sqlx.DB) Store {
	return &sqlStore{db: conn}
}

func (s *sqlStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// inTx runs fn inside a transaction, rolling back on error.
func (s *sqlStore) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return translate(err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return translate(tx.Commit())
}

package db

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/dqdash/internal/model"
)

var (
	dqChecks = table{
		name:    "dq_checks",
		columns: "id, title, description, source_system_id, domain_id, sql_text, is_enabled, created_at, updated_at",
		fields:  Fields{"title", "description", "source_system_id", "domain_id", "sql_text", "is_enabled"},
	}
	dqEmails = table{
		name:    "dq_emails",
		columns: "id, title, subject, body, is_enabled, created_at, updated_at",
		fields:  Fields{"title", "subject", "body", "is_enabled"},
	}
	distributionGroups = table{
		name:    "distribution_groups",
		columns: "id, title, recipients, is_enabled, created_at, updated_at",
		fields:  Fields{"title", "recipients", "is_enabled"},
	}
)

func (s *sqlStore) ListDQChecks(ctx context.Context) ([]model.DQCheck, error) {
	return selectRows[model.DQCheck](ctx, s.db, dqChecks, "")
}

func (s *sqlStore) GetDQCheck(ctx context.Context, id int) (model.DQCheck, error) {
	return getRow[model.DQCheck](ctx, s.db, dqChecks, id)
}

func (s *sqlStore) CreateDQCheck(ctx context.Context, in model.DQCheck) (model.DQCheck, error) {
	var out model.DQCheck
	q := s.db.Rebind(`
	INSERT INTO dq_checks (title, description, source_system_id, domain_id, sql_text, is_enabled)
	VALUES (?, ?, ?, ?, ?, ?)
	RETURNING ` + dqChecks.columns + `;`)
	err := sqlx.GetContext(ctx, s.db, &out, q,
		in.Title, in.Description, in.SourceSystemID, in.DomainID, in.SQLText, in.IsEnabled)
	if err != nil {
		log.Error().Err(err).Str("title", in.Title).Int("source_system_id", in.SourceSystemID).Msg("CreateDQCheck failed")
		return out, translate(err)
	}
	return out, nil
}

func (s *sqlStore) UpdateDQCheck(ctx context.Context, id int, changes Changes) (model.DQCheck, error) {
	return updateRow[model.DQCheck](ctx, s.db, dqChecks, id, changes)
}

// DeleteDQCheck also removes the check's schedule links.
func (s *sqlStore) DeleteDQCheck(ctx context.Context, id int) error {
	return deleteRow(ctx, s.db, dqChecks, id)
}

func (s *sqlStore) ListDQEmails(ctx context.Context) ([]model.DQEmail, error) {
	return selectRows[model.DQEmail](ctx, s.db, dqEmails, "")
}

func (s *sqlStore) GetDQEmail(ctx context.Context, id int) (model.DQEmail, error) {
	return getRow[model.DQEmail](ctx, s.db, dqEmails, id)
}

func (s *sqlStore) CreateDQEmail(ctx context.Context, in model.DQEmail) (model.DQEmail, error) {
	var out model.DQEmail
	q := s.db.Rebind(`
	INSERT INTO dq_emails (title, subject, body, is_enabled)
	VALUES (?, ?, ?, ?)
	RETURNING ` + dqEmails.columns + `;`)
	if err := sqlx.GetContext(ctx, s.db, &out, q, in.Title, in.Subject, in.Body, in.IsEnabled); err != nil {
		log.Error().Err(err).Str("title", in.Title).Msg("CreateDQEmail failed")
		return out, translate(err)
	}
	return out, nil
}

func (s *sqlStore) UpdateDQEmail(ctx context.Context, id int, changes Changes) (model.DQEmail, error) {
	return updateRow[model.DQEmail](ctx, s.db, dqEmails, id, changes)
}

func (s *sqlStore) DeleteDQEmail(ctx context.Context, id int) error {
	return deleteRow(ctx, s.db, dqEmails, id)
}

func (s *sqlStore) ListDistributionGroups(ctx context.Context) ([]model.DistributionGroup, error) {
	return selectRows[model.DistributionGroup](ctx, s.db, distributionGroups, "")
}

func (s *sqlStore) GetDistributionGroup(ctx context.Context, id int) (model.DistributionGroup, error) {
	return getRow[model.DistributionGroup](ctx, s.db, distributionGroups, id)
}

func (s *sqlStore) CreateDistributionGroup(ctx context.Context, in model.DistributionGroup) (model.DistributionGroup, error) {
	var out model.DistributionGroup
	q := s.db.Rebind(`
	INSERT INTO distribution_groups (title, recipients, is_enabled)
	VALUES (?, ?, ?)
	RETURNING ` + distributionGroups.columns + `;`)
	if err := sqlx.GetContext(ctx, s.db, &out, q, in.Title, in.Recipients, in.IsEnabled); err != nil {
		log.Error().Err(err).Str("title", in.Title).Msg("CreateDistributionGroup failed")
		return out, translate(err)
	}
	return out, nil
}

func (s *sqlStore) UpdateDistributionGroup(ctx context.Context, id int, changes Changes) (model.DistributionGroup, error) {
	return updateRow[model.DistributionGroup](ctx, s.db, distributionGroups, id, changes)
}

func (s *sqlStore) DeleteDistributionGroup(ctx context.Context, id int) error {
	return deleteRow(ctx, s.db, distributionGroups, id)
}

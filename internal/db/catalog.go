package db

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/dqdash/internal/model"
)

var (
	sourceSystems = table{
		name:    "source_systems",
		columns: "id, title, description, is_enabled, created_at, updated_at",
		fields:  Fields{"title", "description", "is_enabled"},
	}
	domains = table{
		name:    "domains",
		columns: "id, title, description, is_enabled, created_at, updated_at",
		fields:  Fields{"title", "description", "is_enabled"},
	}
	synonyms = table{
		name:    "synonyms",
		columns: "id, domain_id, title, is_enabled, created_at, updated_at",
		fields:  Fields{"title", "is_enabled"},
		order:   "domain_id, title",
	}
)

func (s *sqlStore) ListSourceSystems(ctx context.Context) ([]model.SourceSystem, error) {
	return selectRows[model.SourceSystem](ctx, s.db, sourceSystems, "")
}

func (s *sqlStore) GetSourceSystem(ctx context.Context, id int) (model.SourceSystem, error) {
	return getRow[model.SourceSystem](ctx, s.db, sourceSystems, id)
}

func (s *sqlStore) CreateSourceSystem(ctx context.Context, in model.SourceSystem) (model.SourceSystem, error) {
	var out model.SourceSystem
	q := s.db.Rebind(`
	INSERT INTO source_systems (title, description, is_enabled)
	VALUES (?, ?, ?)
	RETURNING ` + sourceSystems.columns + `;`)
	if err := sqlx.GetContext(ctx, s.db, &out, q, in.Title, in.Description, in.IsEnabled); err != nil {
		log.Error().Err(err).Str("title", in.Title).Msg("CreateSourceSystem failed")
		return out, translate(err)
	}
	return out, nil
}

func (s *sqlStore) UpdateSourceSystem(ctx context.Context, id int, changes Changes) (model.SourceSystem, error) {
	return updateRow[model.SourceSystem](ctx, s.db, sourceSystems, id, changes)
}

// DeleteSourceSystem fails with ErrConflict while DQ checks still point at it.
func (s *sqlStore) DeleteSourceSystem(ctx context.Context, id int) error {
	return deleteRow(ctx, s.db, sourceSystems, id)
}

func (s *sqlStore) ListDomains(ctx context.Context) ([]model.Domain, error) {
	return selectRows[model.Domain](ctx, s.db, domains, "")
}

func (s *sqlStore) GetDomain(ctx context.Context, id int) (model.Domain, error) {
	return getRow[model.Domain](ctx, s.db, domains, id)
}

func (s *sqlStore) CreateDomain(ctx context.Context, in model.Domain) (model.Domain, error) {
	var out model.Domain
	q := s.db.Rebind(`
	INSERT INTO domains (title, description, is_enabled)
	VALUES (?, ?, ?)
	RETURNING ` + domains.columns + `;`)
	if err := sqlx.GetContext(ctx, s.db, &out, q, in.Title, in.Description, in.IsEnabled); err != nil {
		log.Error().Err(err).Str("title", in.Title).Msg("CreateDomain failed")
		return out, translate(err)
	}
	return out, nil
}

func (s *sqlStore) UpdateDomain(ctx context.Context, id int, changes Changes) (model.Domain, error) {
	return updateRow[model.Domain](ctx, s.db, domains, id, changes)
}

// DeleteDomain also removes the domain's synonyms.
func (s *sqlStore) DeleteDomain(ctx context.Context, id int) error {
	return deleteRow(ctx, s.db, domains, id)
}

// ListSynonyms lists every synonym, or only those of one domain when
// domainID is positive.
func (s *sqlStore) ListSynonyms(ctx context.Context, domainID int) ([]model.Synonym, error) {
	if domainID > 0 {
		return selectRows[model.Synonym](ctx, s.db, synonyms, "domain_id = ?", domainID)
	}
	return selectRows[model.Synonym](ctx, s.db, synonyms, "")
}

func (s *sqlStore) GetSynonym(ctx context.Context, id int) (model.Synonym, error) {
	return getRow[model.Synonym](ctx, s.db, synonyms, id)
}

func (s *sqlStore) CreateSynonym(ctx context.Context, in model.Synonym) (model.Synonym, error) {
	var out model.Synonym
	q := s.db.Rebind(`
	INSERT INTO synonyms (domain_id, title, is_enabled)
	VALUES (?, ?, ?)
	RETURNING ` + synonyms.columns + `;`)
	if err := sqlx.GetContext(ctx, s.db, &out, q, in.DomainID, in.Title, in.IsEnabled); err != nil {
		log.Error().Err(err).Int("domain_id", in.DomainID).Str("title", in.Title).Msg("CreateSynonym failed")
		return out, translate(err)
	}
	return out, nil
}

func (s *sqlStore) UpdateSynonym(ctx context.Context, id int, changes Changes) (model.Synonym, error) {
	return updateRow[model.Synonym](ctx, s.db, synonyms, id, changes)
}

func (s *sqlStore) DeleteSynonym(ctx context.Context, id int) error {
	return deleteRow(ctx, s.db, synonyms, id)
}

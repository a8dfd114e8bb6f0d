package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/dqdash/internal/model"
)

// LinkKind selects one of the association tables.
type LinkKind int

const (
	CheckSchedules LinkKind = iota + 1
	EmailSchedules
	EmailGroups
)

type linkTable struct {
	name        string
	parent      string
	child       string
	parentTable string
	childTable  string
}

var linkTables = map[LinkKind]linkTable{
	CheckSchedules: {name: "dq_check_schedules", parent: "dq_check_id", child: "schedule_id", parentTable: "dq_checks", childTable: "schedules"},
	EmailSchedules: {name: "dq_email_schedules", parent: "dq_email_id", child: "schedule_id", parentTable: "dq_emails", childTable: "schedules"},
	EmailGroups:    {name: "dq_email_distribution_groups", parent: "dq_email_id", child: "distribution_group_id", parentTable: "dq_emails", childTable: "distribution_groups"},
}

func (k LinkKind) String() string {
	if t, ok := linkTables[k]; ok {
		return t.name
	}
	return fmt.Sprintf("LinkKind(%d)", int(k))
}

func (t linkTable) columns() string {
	return fmt.Sprintf("id, %s AS parent_id, %s AS child_id, is_enabled, created_at, updated_at", t.parent, t.child)
}

func lookupLink(kind LinkKind) (linkTable, error) {
	t, ok := linkTables[kind]
	if !ok {
		return linkTable{}, errors.Errorf("unknown link kind %d", int(kind))
	}
	return t, nil
}

func (s *sqlStore) ListLinks(ctx context.Context, kind LinkKind, parentID int) ([]model.Link, error) {
	return s.listLinks(ctx, kind, "parent", parentID)
}

func (s *sqlStore) ListLinksByChild(ctx context.Context, kind LinkKind, childID int) ([]model.Link, error) {
	return s.listLinks(ctx, kind, "child", childID)
}

func (s *sqlStore) listLinks(ctx context.Context, kind LinkKind, side string, id int) ([]model.Link, error) {
	t, err := lookupLink(kind)
	if err != nil {
		return nil, err
	}
	col := t.parent
	if side == "child" {
		col = t.child
	}

	out := []model.Link{}
	q := s.db.Rebind(fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ? ORDER BY id;`, t.columns(), t.name, col))
	if err := sqlx.SelectContext(ctx, s.db, &out, q, id); err != nil {
		log.Error().Err(err).Str("link", t.name).Int("id", id).Msg("ListLinks failed")
		return nil, translate(err)
	}
	return out, nil
}

func (s *sqlStore) GetLink(ctx context.Context, kind LinkKind, id int) (model.Link, error) {
	var out model.Link
	t, err := lookupLink(kind)
	if err != nil {
		return out, err
	}
	q := s.db.Rebind(fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?;`, t.columns(), t.name))
	if err := sqlx.GetContext(ctx, s.db, &out, q, id); err != nil {
		err = translate(err)
		logUnlessMissing(err, t.name, id, "GetLink failed")
		return out, err
	}
	return out, nil
}

// CreateLink associates parent and child. Both must exist (ErrNotFound) and
// the pair must be new (ErrConflict).
func (s *sqlStore) CreateLink(ctx context.Context, kind LinkKind, parentID, childID int, enabled bool) (model.Link, error) {
	var out model.Link
	t, err := lookupLink(kind)
	if err != nil {
		return out, err
	}

	for _, ref := range []struct {
		table string
		id    int
	}{{t.parentTable, parentID}, {t.childTable, childID}} {
		ok, err := rowExists(ctx, s.db, ref.table, ref.id)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, errors.Wrapf(ErrNotFound, "%s %d", ref.table, ref.id)
		}
	}

	q := s.db.Rebind(fmt.Sprintf(`
	INSERT INTO %s (%s, %s, is_enabled)
	VALUES (?, ?, ?)
	RETURNING %s;`, t.name, t.parent, t.child, t.columns()))
	if err := sqlx.GetContext(ctx, s.db, &out, q, parentID, childID, enabled); err != nil {
		err = translate(err)
		if !errors.Is(err, ErrConflict) {
			log.Error().Err(err).Str("link", t.name).Int("parent_id", parentID).Int("child_id", childID).Msg("CreateLink failed")
		}
		return out, err
	}
	return out, nil
}

func (s *sqlStore) SetLinkEnabled(ctx context.Context, kind LinkKind, id int, enabled bool) (model.Link, error) {
	var out model.Link
	t, err := lookupLink(kind)
	if err != nil {
		return out, err
	}
	q, args, err := NewUpdate(t.name, Fields{"is_enabled"}).Set("is_enabled", enabled).Build(id, t.columns())
	if err != nil {
		return out, err
	}
	if err := sqlx.GetContext(ctx, s.db, &out, s.db.Rebind(q), args...); err != nil {
		err = translate(err)
		logUnlessMissing(err, t.name, id, "SetLinkEnabled failed")
		return out, err
	}
	return out, nil
}

func (s *sqlStore) DeleteLink(ctx context.Context, kind LinkKind, id int) error {
	t, err := lookupLink(kind)
	if err != nil {
		return err
	}
	return deleteRow(ctx, s.db, table{name: t.name}, id)
}

package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// table describes a plain entity table for the shared CRUD helpers.
type table struct {
	name    string
	columns string
	fields  Fields
	order   string
}

func selectRows[T any](ctx context.Context, q sqlx.ExtContext, t table, where string, args ...any) ([]T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", t.columns, t.name)
	if where != "" {
		query += " WHERE " + where
	}
	order := t.order
	if order == "" {
		order = "id"
	}
	query += " ORDER BY " + order + ";"

	out := []T{}
	if err := sqlx.SelectContext(ctx, q, &out, q.Rebind(query), args...); err != nil {
		log.Error().Err(err).Str("table", t.name).Msg("select failed")
		return nil, translate(err)
	}
	return out, nil
}

func getRow[T any](ctx context.Context, q sqlx.ExtContext, t table, id int) (T, error) {
	var out T
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?;", t.columns, t.name)
	if err := sqlx.GetContext(ctx, q, &out, q.Rebind(query), id); err != nil {
		err = translate(err)
		logUnlessMissing(err, t.name, id, "get failed")
		return out, err
	}
	return out, nil
}

func updateRow[T any](ctx context.Context, q sqlx.ExtContext, t table, id int, changes Changes) (T, error) {
	var out T
	query, args, err := NewUpdate(t.name, t.fields).SetAll(changes).Build(id, t.columns)
	if err != nil {
		return out, err
	}
	if err := sqlx.GetContext(ctx, q, &out, q.Rebind(query), args...); err != nil {
		err = translate(err)
		logUnlessMissing(err, t.name, id, "update failed")
		return out, err
	}
	return out, nil
}

func deleteRow(ctx context.Context, q sqlx.ExtContext, t table, id int) error {
	res, err := q.ExecContext(ctx, q.Rebind(fmt.Sprintf("DELETE FROM %s WHERE id = ?;", t.name)), id)
	if err != nil {
		log.Error().Err(err).Str("table", t.name).Int("id", id).Msg("delete failed")
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate(err)
	}
	if n == 0 {
		return errors.WithStack(ErrNotFound)
	}
	return nil
}

func rowExists(ctx context.Context, q sqlx.ExtContext, tableName string, id int) (bool, error) {
	var n int
	query := q.Rebind(fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id = ?;", tableName))
	if err := sqlx.GetContext(ctx, q, &n, query, id); err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func logUnlessMissing(err error, tableName string, id int, msg string) {
	if errors.Is(err, ErrNotFound) {
		return
	}
	log.Error().Err(err).Str("table", tableName).Int("id", id).Msg(msg)
}

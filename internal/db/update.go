package db

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Changes maps column names to new values for a partial update.
type Changes map[string]any

// Fields is the closed set of columns an entity lets callers update.
type Fields []string

// UpdateBuilder assembles a single-row UPDATE from a whitelist of columns.
// Setting a column outside the whitelist poisons the builder and Build
// returns ErrUnknownField.
type UpdateBuilder struct {
	table   string
	allowed map[string]struct{}
	cols    []string
	args    []any
	err     error
}

func NewUpdate(table string, allowed Fields) *UpdateBuilder {
	b := &UpdateBuilder{table: table, allowed: make(map[string]struct{}, len(allowed))}
	for _, f := range allowed {
		b.allowed[f] = struct{}{}
	}
	return b
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	if b.err != nil {
		return b
	}
	if _, ok := b.allowed[column]; !ok {
		b.err = errors.Wrapf(ErrUnknownField, "%s.%s", b.table, column)
		return b
	}
	for i, c := range b.cols {
		if c == column {
			b.args[i] = value
			return b
		}
	}
	b.cols = append(b.cols, column)
	b.args = append(b.args, value)
	return b
}

// SetAll applies every change in column order.
func (b *UpdateBuilder) SetAll(changes Changes) *UpdateBuilder {
	keys := make([]string, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.Set(k, changes[k])
	}
	return b
}

func (b *UpdateBuilder) Err() error { return b.err }

func (b *UpdateBuilder) Empty() bool { return len(b.cols) == 0 }

// Build renders the statement with `?` placeholders; callers Rebind it for
// their driver. updated_at is always bumped.
func (b *UpdateBuilder) Build(id int, returning string) (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}

	sets := make([]string, 0, len(b.cols)+1)
	for _, c := range b.cols {
		sets = append(sets, c+" = ?")
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")

	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", b.table, strings.Join(sets, ", "))
	if returning != "" {
		q += " RETURNING " + returning
	}

	args := make([]any, 0, len(b.args)+1)
	args = append(args, b.args...)
	args = append(args, id)
	return q + ";", args, nil
}

package db

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateBuilder(t *testing.T) {
	b := NewUpdate("domains", Fields{"title", "description", "is_enabled"})
	b.SetAll(Changes{"title": "Customer", "is_enabled": false})

	q, args, err := b.Build(7, "id, title")
	require.NoError(t, err)
	assert.Equal(t, "UPDATE domains SET is_enabled = ?, title = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? RETURNING id, title;", q)
	assert.Equal(t, []any{false, "Customer", 7}, args)
}

func TestUpdateBuilderRejectsUnknownField(t *testing.T) {
	b := NewUpdate("domains", Fields{"title"})
	b.Set("title", "x").Set("id", 3).Set("description", "y")

	_, _, err := b.Build(1, "")
	assert.True(t, errors.Is(err, ErrUnknownField))
	assert.Contains(t, err.Error(), "domains.id")
}

func TestUpdateBuilderLastSetWins(t *testing.T) {
	b := NewUpdate("domains", Fields{"title"})
	b.Set("title", "a").Set("title", "b")

	q, args, err := b.Build(1, "")
	require.NoError(t, err)
	assert.Equal(t, "UPDATE domains SET title = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?;", q)
	assert.Equal(t, []any{"b", 1}, args)
}

func TestUpdateBuilderEmpty(t *testing.T) {
	b := NewUpdate("domains", Fields{"title"})
	assert.True(t, b.Empty())

	q, args, err := b.Build(2, "id")
	require.NoError(t, err)
	assert.Equal(t, "UPDATE domains SET updated_at = CURRENT_TIMESTAMP WHERE id = ? RETURNING id;", q)
	assert.Equal(t, []any{2}, args)
}

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt_page_studio/kickstarters"
	"prompt_page_studio/pageconfig"
)

func TestMemory_Pages(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Load(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotFound)

	rec := pageconfig.Record(`{"slug":"demo"}`)
	require.NoError(t, m.Save(ctx, "p1", rec))
	rec[2] = 'X'

	got, err := m.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, `{"slug":"demo"}`, string(got), "stored record must not alias the caller's slice")
}

func TestMemory_CustomItems(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.SaveCustomItem(ctx, "acct", kickstarters.Item{ID: "ks-b", Question: "B?", Category: kickstarters.CategoryPeople}))
	require.NoError(t, m.SaveCustomItem(ctx, "acct", kickstarters.Item{ID: "ks-a", Question: "A?", Category: kickstarters.CategoryProcess}))
	require.NoError(t, m.SaveCustomItem(ctx, "other", kickstarters.Item{ID: "ks-c", Question: "C?", Category: kickstarters.CategoryProcess}))

	items, err := m.ListCustomItems(ctx, "acct")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "ks-a", items[0].ID)

	require.NoError(t, m.DeleteCustomItem(ctx, "acct", "ks-a"))
	items, err = m.ListCustomItems(ctx, "acct")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, m.DeleteCustomItem(ctx, "nobody", "ks-z"))
}

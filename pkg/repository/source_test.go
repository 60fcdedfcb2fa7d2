package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsdigest/pkg/domain"
)

func TestSourceRepository(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	urls, err := repos.Source.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, urls)

	require.NoError(t, repos.Source.Add(ctx, "https://example.com/b.xml"))
	require.NoError(t, repos.Source.Add(ctx, "https://example.com/a.xml"))

	err = repos.Source.Add(ctx, "https://example.com/a.xml")
	require.ErrorIs(t, err, domain.ErrDuplicate)

	urls, err = repos.Source.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/b.xml", "https://example.com/a.xml"}, urls, "insertion order kept")

	sources, err := repos.Source.Sources(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "https://example.com/b.xml", sources[0].URL)
	assert.False(t, sources[0].AddedAt.IsZero())

	require.NoError(t, repos.Source.Remove(ctx, "https://example.com/b.xml"))
	err = repos.Source.Remove(ctx, "https://example.com/b.xml")
	require.ErrorIs(t, err, domain.ErrNotFound)

	urls, err = repos.Source.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/a.xml"}, urls)
}

func TestSourceRepository_Seed(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repos.Source.Add(ctx, "https://example.com/a.xml"))
	added, err := repos.Source.Seed(ctx, []string{"https://example.com/a.xml", "https://example.com/c.xml",
		"https://example.com/c.xml"})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	urls, err := repos.Source.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/a.xml", "https://example.com/c.xml"}, urls)
}

func TestSourceRepository_ClosedDB(t *testing.T) {
	repos := setupTestDB(t)
	require.NoError(t, repos.DB.Close())

	_, err := repos.Source.List(context.Background())
	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "list sources", storeErr.Op)
}

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/summaryhub/summaryhub/internal/summary"
)

func TestMemoryRepoCreateAndGet(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, &summary.Summary{
		URL:     "https://example.com/article",
		Summary: "a short recap",
		UserID:  "owner-1",
	})
	require.NoError(t, err)
	require.False(t, created.ID.IsZero())
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := repo.Get(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/article", got.URL)
	assert.Equal(t, "owner-1", got.UserID)
}

func TestMemoryRepoGetMissing(t *testing.T) {
	repo := NewMemoryRepo()

	_, err := repo.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepoListFiltersByOwner(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	for _, owner := range []string{"alice", "alice", "bob"} {
		_, err := repo.Create(ctx, &summary.Summary{URL: "https://example.com", Summary: "s", UserID: owner})
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := repo.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, s := range mine {
		assert.Equal(t, "alice", s.UserID)
	}
}

func TestMemoryRepoUpdate(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, &summary.Summary{URL: "https://old.example.com", Summary: "old", UserID: "u"})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID.Hex(), "https://new.example.com", "new")
	require.NoError(t, err)
	assert.Equal(t, "https://new.example.com", updated.URL)
	assert.Equal(t, "new", updated.Summary)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

	_, err = repo.Update(ctx, "no-such-id", "https://x", "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepoDelete(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, &summary.Summary{URL: "https://example.com", Summary: "s", UserID: "u"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID.Hex()))

	_, err = repo.Get(ctx, created.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID.Hex()), ErrNotFound)
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, &summary.Summary{URL: "https://example.com", Summary: "s", UserID: "u"})
	require.NoError(t, err)

	got, err := repo.Get(ctx, created.ID.Hex())
	require.NoError(t, err)
	got.Summary = "mutated"

	again, err := repo.Get(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "s", again.Summary)
}

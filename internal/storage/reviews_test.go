package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/code-critic/internal/config"
	"github.com/sevigo/code-critic/internal/core"
	"github.com/sevigo/code-critic/internal/db"
)

func newTestStore(t *testing.T) core.ReviewStore {
	t.Helper()

	conn, cleanup, err := db.NewDatabase(&config.DBConfig{
		Driver: "sqlite",
		Path:   ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(cleanup)

	return NewStore(conn.DB)
}

func sampleReview(language string) *core.Review {
	return &core.Review{
		CodeSnippet:   "def add(a, b):\n    return a + b",
		Language:      language,
		QualityScore:  7.5,
		ReviewText:    "Clean and readable implementation.",
		Suggestions:   core.StringList{"Add type hints", "Add a docstring"},
		PotentialBugs: core.StringList{},
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	review := sampleReview(core.LanguagePython)
	require.NoError(t, store.Create(ctx, review))

	assert.NotZero(t, review.ID)
	assert.False(t, review.CreatedAt.IsZero())

	got, err := store.Get(ctx, review.ID)
	require.NoError(t, err)

	assert.Equal(t, review.ID, got.ID)
	assert.Equal(t, review.CodeSnippet, got.CodeSnippet)
	assert.Equal(t, core.LanguagePython, got.Language)
	assert.InDelta(t, 7.5, got.QualityScore, 0.001)
	assert.Equal(t, core.StringList{"Add type hints", "Add a docstring"}, got.Suggestions)
	assert.Equal(t, core.StringList{}, got.PotentialBugs)
}

func TestStore_CreateAssignsDistinctIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		review := sampleReview(core.LanguagePython)
		require.NoError(t, store.Create(ctx, review))
		assert.False(t, seen[review.ID], "id %d assigned twice", review.ID)
		seen[review.ID] = true
	}
}

func TestStore_GetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), 9999)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	review := sampleReview(core.LanguageJava)
	require.NoError(t, store.Create(ctx, review))

	require.NoError(t, store.Delete(ctx, review.ID))

	_, err := store.Get(ctx, review.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	// Deleting the same id again must fail.
	assert.ErrorIs(t, store.Delete(ctx, review.ID), core.ErrNotFound)
}

func TestStore_ListPagination(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 7; i++ {
		review := sampleReview(core.LanguagePython)
		review.ReviewText = fmt.Sprintf("review %d", i)
		require.NoError(t, store.Create(ctx, review))
		ids = append(ids, review.ID)
	}

	page1, total, err := store.List(ctx, core.ListParams{Page: 1, PerPage: 3})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, page1, 3)

	// Newest first: the last inserted review leads the first page.
	assert.Equal(t, ids[len(ids)-1], page1[0].ID)

	page3, total, err := store.List(ctx, core.ListParams{Page: 3, PerPage: 3})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Len(t, page3, 1)

	empty, _, err := store.List(ctx, core.ListParams{Page: 4, PerPage: 3})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_ListLanguageFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, sampleReview(core.LanguagePython)))
	require.NoError(t, store.Create(ctx, sampleReview(core.LanguageJavaScript)))
	require.NoError(t, store.Create(ctx, sampleReview(core.LanguagePython)))

	reviews, total, err := store.List(ctx, core.ListParams{Page: 1, PerPage: 10, Language: core.LanguagePython})
	require.NoError(t, err)

	assert.Equal(t, 2, total)
	for _, r := range reviews {
		assert.Equal(t, core.LanguagePython, r.Language)
	}
}

func TestStore_ListDateFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, sampleReview(core.LanguageCpp)))

	today := time.Now().UTC()
	reviews, total, err := store.List(ctx, core.ListParams{Page: 1, PerPage: 10, Date: &today})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, reviews, 1)

	yesterday := today.AddDate(0, 0, -1)
	reviews, total, err = store.List(ctx, core.ListParams{Page: 1, PerPage: 10, Date: &yesterday})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, reviews)
}

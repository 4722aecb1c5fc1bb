package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maicon-romano/arrivabene-advocacia-web/internal/models"
	"github.com/maicon-romano/arrivabene-advocacia-web/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateAssignsSequentialIDsAndTimestamp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreatePost(ctx, models.Post{Title: "a", Content: "x", Category: "Empresarial"})
	require.NoError(t, err)
	second, err := s.CreatePost(ctx, models.Post{Title: "b", Content: "y", Category: "Contratos"})
	require.NoError(t, err)

	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "2", second.ID)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestListPostsOrdersByCreationTimeDescending(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	clock := time.Date(2025, time.March, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Hour)
		return clock
	}

	for _, title := range []string{"primeiro", "segundo", "terceiro"} {
		_, err := s.CreatePost(ctx, models.Post{Title: title, Content: "x", Category: "Empresarial"})
		require.NoError(t, err)
	}

	posts, err := s.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "terceiro", posts[0].Title)
	assert.Equal(t, "primeiro", posts[2].Title)
}

func TestListPostsBreaksTimestampTiesByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	fixed := time.Date(2025, time.March, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	for i := 0; i < 11; i++ {
		_, err := s.CreatePost(ctx, models.Post{Title: "t", Content: "x", Category: "Empresarial"})
		require.NoError(t, err)
	}

	posts, err := s.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 11)
	assert.Equal(t, "11", posts[0].ID, "numeric ids must not sort lexically")
	assert.Equal(t, "1", posts[10].ID)
}

func TestGetUpdateDeleteRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreatePost(ctx, models.Post{Title: "antes", Content: "x", Category: "Empresarial"})
	require.NoError(t, err)

	got, err := s.GetPost(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "antes", got.Title)

	title := "depois"
	updated, err := s.UpdatePost(ctx, created.ID, models.PostPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "depois", updated.Title)
	assert.Equal(t, created.Content, updated.Content, "unpatched fields stay put")
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt), "creation time is immutable")

	require.NoError(t, s.DeletePost(ctx, created.ID))
	_, err = s.GetPost(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMissingAndMalformedIDsAreNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetPost(ctx, "42")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetPost(ctx, "abc")
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.DeletePost(ctx, "42")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.UpdatePost(ctx, "42", models.PostPatch{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCategorySetStartsWithFallback(t *testing.T) {
	s := newTestStore(t)

	categories, err := s.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{models.FallbackCategory}, categories)
}

func TestAddCategoryRejectsDuplicatesAndSentinel(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddCategory(ctx, "LGPD"))
	assert.ErrorIs(t, s.AddCategory(ctx, "LGPD"), store.ErrDuplicateCategory)
	assert.ErrorIs(t, s.AddCategory(ctx, models.AllCategories), store.ErrDuplicateCategory)
}

func TestDeleteCategoryReassignsPostsToFallback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddCategory(ctx, "Trabalhista"))
	require.NoError(t, s.AddCategory(ctx, "LGPD"))

	inCategory, err := s.CreatePost(ctx, models.Post{Title: "a", Content: "x", Category: "Trabalhista"})
	require.NoError(t, err)
	other, err := s.CreatePost(ctx, models.Post{Title: "b", Content: "y", Category: "LGPD"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory(ctx, "Trabalhista"))

	moved, err := s.GetPost(ctx, inCategory.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FallbackCategory, moved.Category)

	untouched, err := s.GetPost(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "LGPD", untouched.Category)

	categories, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.NotContains(t, categories, "Trabalhista")

	posts, err := s.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 2, "deleting a category never deletes posts")
}

func TestDeleteCategoryRejectsSentinelAndUnknown(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.DeleteCategory(ctx, models.AllCategories), store.ErrReservedCategory)
	assert.ErrorIs(t, s.DeleteCategory(ctx, "Inexistente"), store.ErrNotFound)
}

func TestDataSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	created, err := s.CreatePost(context.Background(), models.Post{Title: "persistente", Content: "x", Category: "Empresarial"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetPost(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "persistente", got.Title)
}

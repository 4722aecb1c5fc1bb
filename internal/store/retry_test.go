package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maicon-romano/arrivabene-advocacia-web/internal/logging"
	"github.com/maicon-romano/arrivabene-advocacia-web/internal/models"
)

var errFlaky = errors.New("connection reset")

// flakyStore fails each operation a configured number of times before
// succeeding, and counts calls.
type flakyStore struct {
	failures int
	calls    map[string]int
}

func newFlakyStore(failures int) *flakyStore {
	return &flakyStore{failures: failures, calls: map[string]int{}}
}

func (f *flakyStore) attempt(op string) error {
	f.calls[op]++
	if f.calls[op] <= f.failures {
		return errFlaky
	}
	return nil
}

func (f *flakyStore) CreatePost(ctx context.Context, post models.Post) (models.Post, error) {
	return post, f.attempt("create")
}

func (f *flakyStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	if err := f.attempt("list"); err != nil {
		return nil, err
	}
	return []models.Post{{ID: "1"}}, nil
}

func (f *flakyStore) GetPost(ctx context.Context, id string) (models.Post, error) {
	if err := f.attempt("get"); err != nil {
		return models.Post{}, err
	}
	if id == "missing" {
		return models.Post{}, ErrNotFound
	}
	return models.Post{ID: id}, nil
}

func (f *flakyStore) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (models.Post, error) {
	return models.Post{ID: id}, f.attempt("update")
}

func (f *flakyStore) DeletePost(ctx context.Context, id string) error {
	return f.attempt("delete")
}

func (f *flakyStore) ListCategories(ctx context.Context) ([]string, error) {
	if err := f.attempt("categories"); err != nil {
		return nil, err
	}
	return []string{models.FallbackCategory}, nil
}

func (f *flakyStore) AddCategory(ctx context.Context, name string) error    { return f.attempt("add") }
func (f *flakyStore) DeleteCategory(ctx context.Context, name string) error { return f.attempt("del") }
func (f *flakyStore) Close() error                                          { return nil }

func quietLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func withFastRetry(s Store) Store {
	wrapped := WithRetry(s, quietLogger()).(*retryingStore)
	wrapped.backoff = time.Millisecond
	return wrapped
}

func TestReadsSurviveOneTransientFailure(t *testing.T) {
	flaky := newFlakyStore(1)
	s := withFastRetry(flaky)
	ctx := context.Background()

	posts, err := s.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, 2, flaky.calls["list"])

	_, err = s.GetPost(ctx, "1")
	require.NoError(t, err)

	_, err = s.ListCategories(ctx)
	require.NoError(t, err)
}

func TestReadsGiveUpAfterSecondFailure(t *testing.T) {
	flaky := newFlakyStore(2)
	s := withFastRetry(flaky)

	_, err := s.ListPosts(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, flaky.calls["list"], "exactly one retry")
}

func TestNotFoundIsNotRetried(t *testing.T) {
	flaky := newFlakyStore(0)
	s := withFastRetry(flaky)

	_, err := s.GetPost(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, flaky.calls["get"], "not-found is a normal result, not a transient failure")
}

func TestWritesAreNeverRetried(t *testing.T) {
	flaky := newFlakyStore(1)
	s := withFastRetry(flaky)
	ctx := context.Background()

	_, err := s.CreatePost(ctx, models.Post{Title: "t"})
	require.Error(t, err)
	assert.Equal(t, 1, flaky.calls["create"], "a retried create could duplicate a post")

	_, err = s.UpdatePost(ctx, "1", models.PostPatch{})
	require.Error(t, err)
	assert.Equal(t, 1, flaky.calls["update"])

	err = s.DeletePost(ctx, "1")
	require.Error(t, err)
	assert.Equal(t, 1, flaky.calls["delete"])
}

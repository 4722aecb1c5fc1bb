package store

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/maicon-romano/arrivabene-advocacia-web/internal/logging"
	"github.com/maicon-romano/arrivabene-advocacia-web/internal/models"
)

// retryingStore retries idempotent reads once with backoff. Writes pass
// through untouched: a retried create could duplicate a post.
type retryingStore struct {
	inner   Store
	log     logging.Logger
	backoff time.Duration
}

// WithRetry wraps s so that ListPosts, GetPost and ListCategories survive a
// single transient failure.
func WithRetry(s Store, log logging.Logger) Store {
	return &retryingStore{inner: s, log: log, backoff: 500 * time.Millisecond}
}

func (r *retryingStore) retryRead(ctx context.Context, op string, fn func(context.Context) error) error {
	b := retry.WithMaxRetries(1, retry.NewConstant(r.backoff))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil || errors.Is(err, ErrNotFound) {
			return err
		}
		r.log.Warn(ctx, "store read failed, retrying", "op", op, "error", err)
		return retry.RetryableError(err)
	})
}

func (r *retryingStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := r.retryRead(ctx, "list_posts", func(ctx context.Context) error {
		var e error
		posts, e = r.inner.ListPosts(ctx)
		return e
	})
	return posts, err
}

func (r *retryingStore) GetPost(ctx context.Context, id string) (models.Post, error) {
	var post models.Post
	err := r.retryRead(ctx, "get_post", func(ctx context.Context) error {
		var e error
		post, e = r.inner.GetPost(ctx, id)
		return e
	})
	return post, err
}

func (r *retryingStore) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.retryRead(ctx, "list_categories", func(ctx context.Context) error {
		var e error
		categories, e = r.inner.ListCategories(ctx)
		return e
	})
	return categories, err
}

func (r *retryingStore) CreatePost(ctx context.Context, post models.Post) (models.Post, error) {
	return r.inner.CreatePost(ctx, post)
}

func (r *retryingStore) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (models.Post, error) {
	return r.inner.UpdatePost(ctx, id, patch)
}

func (r *retryingStore) DeletePost(ctx context.Context, id string) error {
	return r.inner.DeletePost(ctx, id)
}

func (r *retryingStore) AddCategory(ctx context.Context, name string) error {
	return r.inner.AddCategory(ctx, name)
}

func (r *retryingStore) DeleteCategory(ctx context.Context, name string) error {
	return r.inner.DeleteCategory(ctx, name)
}

func (r *retryingStore) Close() error {
	return r.inner.Close()
}

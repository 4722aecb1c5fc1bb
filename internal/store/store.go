// Package store defines the post repository interface shared by the remote
// (postgres) and local (badger) backends, plus the sentinel errors callers
// use to tell "no data" apart from infrastructure failure.
package store

import (
	"context"
	"errors"

	"github.com/maicon-romano/arrivabene-advocacia-web/internal/models"
)

var (
	// ErrNotFound reports that no record exists with the requested id or name.
	ErrNotFound = errors.New("not found")

	// ErrReservedCategory reports an attempt to delete the "all" sentinel.
	ErrReservedCategory = errors.New("category is reserved")

	// ErrDuplicateCategory reports an attempt to add an existing category.
	ErrDuplicateCategory = errors.New("category already exists")
)

// Store is the post repository. ListPosts returns posts ordered by creation
// time descending (id descending on ties). DeleteCategory moves the posts of
// the deleted category to models.FallbackCategory; it never deletes posts.
type Store interface {
	CreatePost(ctx context.Context, post models.Post) (models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (models.Post, error)
	UpdatePost(ctx context.Context, id string, patch models.PostPatch) (models.Post, error)
	DeletePost(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]string, error)
	AddCategory(ctx context.Context, name string) error
	DeleteCategory(ctx context.Context, name string) error

	Close() error
}

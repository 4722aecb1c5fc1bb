// Package postgres implements the post store on a hosted PostgreSQL
// database via pgxpool. Schema management is handled by embedded goose
// migrations (see migrations.go).
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maicon-romano/arrivabene-advocacia-web/internal/models"
	"github.com/maicon-romano/arrivabene-advocacia-web/internal/store"
)

const uniqueViolation = "23505"

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

const postColumns = `
	id::text,
	title,
	COALESCE(excerpt, ''),
	content,
	COALESCE(image_url, ''),
	COALESCE(author, ''),
	category,
	COALESCE(read_time, ''),
	created_at
`

func scanPost(row pgx.Row) (models.Post, error) {
	var p models.Post
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Excerpt,
		&p.Content,
		&p.ImageURL,
		&p.Author,
		&p.Category,
		&p.ReadTime,
		&p.CreatedAt,
	)
	return p, err
}

func (s *Store) CreatePost(ctx context.Context, post models.Post) (models.Post, error) {
	const query = `
		INSERT INTO posts (title, excerpt, content, image_url, author, category, read_time)
		VALUES ($1, $2, $3, $4, $5, COALESCE(NULLIF($6, ''), 'Outros'), $7)
		RETURNING ` + postColumns

	created, err := scanPost(s.pool.QueryRow(
		ctx,
		query,
		post.Title,
		post.Excerpt,
		post.Content,
		post.ImageURL,
		post.Author,
		post.Category,
		post.ReadTime,
	))
	if err != nil {
		return models.Post{}, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

func (s *Store) ListPosts(ctx context.Context) ([]models.Post, error) {
	const query = `
		SELECT ` + postColumns + `
		FROM posts
		ORDER BY created_at DESC, id DESC
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return posts, nil
}

func (s *Store) GetPost(ctx context.Context, id string) (models.Post, error) {
	const query = `
		SELECT ` + postColumns + `
		FROM posts
		WHERE id = $1
	`
	post, err := scanPost(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return models.Post{}, store.ErrNotFound
		}
		return models.Post{}, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

func (s *Store) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (models.Post, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Post{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := scanPost(tx.QueryRow(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE id = $1
		FOR UPDATE
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return models.Post{}, store.ErrNotFound
		}
		return models.Post{}, fmt.Errorf("load post for update: %w", err)
	}

	patch.Apply(&current)

	updated, err := scanPost(tx.QueryRow(ctx, `
		UPDATE posts
		SET title = $2, excerpt = $3, content = $4, image_url = $5, author = $6, category = $7, read_time = $8
		WHERE id = $1
		RETURNING `+postColumns, id,
		current.Title,
		current.Excerpt,
		current.Content,
		current.ImageURL,
		current.Author,
		current.Category,
		current.ReadTime,
	))
	if err != nil {
		return models.Post{}, fmt.Errorf("update post: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Post{}, fmt.Errorf("commit update: %w", err)
	}
	return updated, nil
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		if isInvalidUUID(err) {
			return store.ErrNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return categories, nil
}

func (s *Store) AddCategory(ctx context.Context, name string) error {
	if name == models.AllCategories {
		return store.ErrDuplicateCategory
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO categories (name) VALUES ($1)`, name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return store.ErrDuplicateCategory
		}
		return fmt.Errorf("add category: %w", err)
	}
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, name string) error {
	if name == models.AllCategories {
		return store.ErrReservedCategory
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin category delete: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE posts SET category = $1 WHERE category = $2`, models.FallbackCategory, name); err != nil {
		return fmt.Errorf("reassign posts: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM categories WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return tx.Commit(ctx)
}

// isInvalidUUID treats a malformed id as not-found rather than a server
// error: callers pass ids straight from the URL.
func isInvalidUUID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

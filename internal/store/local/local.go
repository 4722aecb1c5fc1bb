// Package local implements the post store on an embedded BadgerDB, the
// fully offline variant of the blog content store. Records are JSON-encoded
// under key prefixes; post ids come from a badger sequence and are rendered
// as decimal strings so both backends share one Post shape.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/maicon-romano/arrivabene-advocacia-web/internal/models"
	"github.com/maicon-romano/arrivabene-advocacia-web/internal/store"
)

const (
	postPrefix     = "post:"
	categoryPrefix = "category:"
	postSeqKey     = "seq:post"
)

type Store struct {
	db  *badger.DB
	seq *badger.Sequence
	now func() time.Time
}

// Open opens (or creates) a persistent store rooted at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	return open(opts)
}

// OpenInMemory opens a throwaway store with no disk persistence.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	return open(opts)
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	seq, err := db.GetSequence([]byte(postSeqKey), 64)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open post sequence: %w", err)
	}
	s := &Store{db: db, seq: seq, now: time.Now}
	if err := s.ensureFallbackCategory(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.seq != nil {
		_ = s.seq.Release()
	}
	return s.db.Close()
}

func (s *Store) ensureFallbackCategory() error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := categoryKey(models.FallbackCategory)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return txn.Set(key, []byte{})
		} else if err != nil {
			return err
		}
		return nil
	})
}

func postKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%012d", postPrefix, id))
}

func categoryKey(name string) []byte {
	return []byte(categoryPrefix + name)
}

func (s *Store) CreatePost(ctx context.Context, post models.Post) (models.Post, error) {
	n, err := s.seq.Next()
	if err != nil {
		return models.Post{}, fmt.Errorf("next post id: %w", err)
	}
	id := n + 1 // sequences start at zero

	post.ID = strconv.FormatUint(id, 10)
	post.CreatedAt = s.now().UTC()
	if post.Category == "" {
		post.Category = models.FallbackCategory
	}

	value, err := json.Marshal(post)
	if err != nil {
		return models.Post{}, fmt.Errorf("encode post: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(postKey(id), value)
	})
	if err != nil {
		return models.Post{}, fmt.Errorf("store post: %w", err)
	}
	return post, nil
}

func (s *Store) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts := make([]models.Post, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(postPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var post models.Post
				if err := json.Unmarshal(val, &post); err != nil {
					return fmt.Errorf("decode post: %w", err)
				}
				posts = append(posts, post)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return numericID(posts[i].ID) > numericID(posts[j].ID)
	})
	return posts, nil
}

func (s *Store) GetPost(ctx context.Context, id string) (models.Post, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return models.Post{}, store.ErrNotFound
	}

	var post models.Post
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(postKey(n))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &post)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return models.Post{}, store.ErrNotFound
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

func (s *Store) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (models.Post, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return models.Post{}, store.ErrNotFound
	}

	var updated models.Post
	err = s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(postKey(n))
		if err != nil {
			return err
		}
		var post models.Post
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &post)
		}); err != nil {
			return err
		}

		patch.Apply(&post)
		updated = post

		value, err := json.Marshal(post)
		if err != nil {
			return fmt.Errorf("encode post: %w", err)
		}
		return txn.Set(postKey(n), value)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return models.Post{}, store.ErrNotFound
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("update post: %w", err)
	}
	return updated, nil
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return store.ErrNotFound
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(postKey(n)); err != nil {
			return err
		}
		return txn.Delete(postKey(n))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	categories := make([]string, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(categoryPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			categories = append(categories, string(key[len(categoryPrefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *Store) AddCategory(ctx context.Context, name string) error {
	if name == models.AllCategories {
		return store.ErrDuplicateCategory
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		key := categoryKey(name)
		if _, err := txn.Get(key); err == nil {
			return store.ErrDuplicateCategory
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, []byte{})
	})
	if errors.Is(err, store.ErrDuplicateCategory) {
		return store.ErrDuplicateCategory
	}
	if err != nil {
		return fmt.Errorf("add category: %w", err)
	}
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, name string) error {
	if name == models.AllCategories {
		return store.ErrReservedCategory
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		key := categoryKey(name)
		if _, err := txn.Get(key); err != nil {
			return err
		}

		// Move the category's posts to the fallback bucket before removing it.
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(postPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		type rewrite struct {
			key   []byte
			value []byte
		}
		var rewrites []rewrite
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var post models.Post
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &post)
			}); err != nil {
				return err
			}
			if post.Category != name {
				continue
			}
			post.Category = models.FallbackCategory
			value, err := json.Marshal(post)
			if err != nil {
				return err
			}
			rewrites = append(rewrites, rewrite{key: item.KeyCopy(nil), value: value})
		}
		for _, rw := range rewrites {
			if err := txn.Set(rw.key, rw.value); err != nil {
				return err
			}
		}
		return txn.Delete(key)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func numericID(id string) uint64 {
	n, _ := strconv.ParseUint(id, 10, 64)
	return n
}

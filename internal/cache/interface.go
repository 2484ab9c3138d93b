package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/online-bookstore/internal/models"
)

type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const (
	BookKeyPrefix     = "book"
	BookListKeyPrefix = "books"
	CategoriesKey     = "book_categories"
)

func BookKey(id int64) string {
	return Key(BookKeyPrefix, strconv.FormatInt(id, 10))
}

// BookListKey folds case the same way the catalogue filter does, so
// "Fantasy" and "fantasy" share an entry.
func BookListKey(filter models.BookFilter) string {
	return Key(BookListKeyPrefix, strings.ToLower(filter.Search)+"|"+strings.ToLower(filter.Category))
}

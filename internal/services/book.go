package service

import (
	"context"
	"log/slog"

	"github.com/aaravmahajanofficial/online-bookstore/internal/api/middleware"
	"github.com/aaravmahajanofficial/online-bookstore/internal/cache"
	appErrors "github.com/aaravmahajanofficial/online-bookstore/internal/errors"
	"github.com/aaravmahajanofficial/online-bookstore/internal/metrics"
	"github.com/aaravmahajanofficial/online-bookstore/internal/models"
	repository "github.com/aaravmahajanofficial/online-bookstore/internal/repositories"
)

type BookService interface {
	GetBook(ctx context.Context, id int64) (*models.Book, error)
	ListBooks(ctx context.Context, filter models.BookFilter) ([]models.Book, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// bookService reads the catalogue through a cache-aside layer. Cache faults
// are logged and the lookup falls through to the database.
type bookService struct {
	books repository.BookRepository
	cache cache.Cache
}

func NewBookService(books repository.BookRepository, c cache.Cache) BookService {
	return &bookService{books: books, cache: c}
}

func (s *bookService) GetBook(ctx context.Context, id int64) (*models.Book, error) {

	key := cache.BookKey(id)

	var cached models.Book
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	book, err := s.books.GetBookByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, appErrors.BookNotFoundError("Book not found"), "Failed to retrieve book")
	}

	s.toCache(ctx, key, book)

	return book, nil
}

// ListBooks returns BookNotFound when nothing matches the filter.
func (s *bookService) ListBooks(ctx context.Context, filter models.BookFilter) ([]models.Book, error) {

	key := cache.BookListKey(filter)

	var books []models.Book
	if s.fromCache(ctx, key, &books) && len(books) > 0 {
		return books, nil
	}

	books, err := s.books.ListBooks(ctx, filter)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list books").WithError(err)
	}

	if len(books) == 0 {
		return nil, appErrors.BookNotFoundError("No books found")
	}

	s.toCache(ctx, key, books)

	return books, nil
}

func (s *bookService) ListCategories(ctx context.Context) ([]string, error) {

	var categories []string
	if s.fromCache(ctx, cache.CategoriesKey, &categories) && len(categories) > 0 {
		return categories, nil
	}

	categories, err := s.books.ListCategories(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list categories").WithError(err)
	}

	if len(categories) == 0 {
		return nil, appErrors.NotFoundError("No categories found")
	}

	s.toCache(ctx, cache.CategoriesKey, categories)

	return categories, nil
}

func (s *bookService) fromCache(ctx context.Context, key string, dest any) bool {

	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		middleware.LoggerFromContext(ctx).Warn("Book cache read failed", slog.String("key", key), slog.Any("error", err))
		return false
	}

	metrics.ObserveBookCacheLookup(found)

	return found
}

func (s *bookService) toCache(ctx context.Context, key string, value any) {

	if err := s.cache.Set(ctx, key, value, 0); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Book cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}

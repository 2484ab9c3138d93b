package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aaravmahajanofficial/online-bookstore/internal/models"
	"github.com/aaravmahajanofficial/online-bookstore/internal/utils"
)

type BookRepository interface {
	GetBookByID(ctx context.Context, id int64) (*models.Book, error)
	ListBooks(ctx context.Context, filter models.BookFilter) ([]models.Book, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type bookRepository struct {
	DB *sql.DB
}

func NewBookRepo(db *sql.DB) BookRepository {
	return &bookRepository{DB: db}
}

const bookColumns = `b.id, b.name, b.description, b.author, b.category, b.price`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner, book *models.Book, extra ...any) error {
	dest := append(extra, &book.ID, &book.Name, &book.Description, &book.Author, &book.Category, &book.Price)
	return row.Scan(dest...)
}

func (r *bookRepository) GetBookByID(ctx context.Context, id int64) (*models.Book, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + bookColumns + ` FROM books b WHERE b.id = $1`

	book := &models.Book{}

	if err := scanBook(conn(ctx, r.DB).QueryRowContext(dbCtx, query, id), book); err != nil {
		return nil, err
	}

	return book, nil
}

func (r *bookRepository) ListBooks(ctx context.Context, filter models.BookFilter) ([]models.Book, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + bookColumns + `
		FROM books b
		WHERE ($1 = '' OR LOWER(b.name) = LOWER($1))
		AND ($2 = '' OR LOWER(b.category) = LOWER($2))
		ORDER BY b.id`

	rows, err := conn(ctx, r.DB).QueryContext(dbCtx, query, filter.Search, filter.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := []models.Book{}

	for rows.Next() {
		var book models.Book
		if err := scanBook(rows, &book); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating book rows: %w", err)
	}

	return books, nil
}

func (r *bookRepository) ListCategories(ctx context.Context) ([]string, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT DISTINCT category FROM books ORDER BY category`

	rows, err := conn(ctx, r.DB).QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}

	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	return categories, nil
}

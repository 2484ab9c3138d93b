package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/aaravmahajanofficial/online-bookstore/internal/api/middleware"
	"github.com/aaravmahajanofficial/online-bookstore/internal/models"
	service "github.com/aaravmahajanofficial/online-bookstore/internal/services"
	"github.com/aaravmahajanofficial/online-bookstore/internal/utils"
	"github.com/aaravmahajanofficial/online-bookstore/internal/utils/response"
)

type BookHandler struct {
	bookService service.BookService
}

func NewBookHandler(bookService service.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// for eg: GET /api/v1/books?search=dune&category=fiction
func (h *BookHandler) ListBooks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		filter := models.BookFilter{
			Search:   strings.TrimSpace(r.URL.Query().Get("search")),
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
		}

		logger = logger.With(slog.String("search", filter.Search), slog.String("category", filter.Category))

		books, err := h.bookService.ListBooks(r.Context(), filter)
		if err != nil {
			logger.Warn("Failed to list books", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Books listed successfully", slog.Int("count", len(books)))
		response.Success(w, http.StatusOK, books)
	}
}

func (h *BookHandler) GetBook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid book id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		book, err := h.bookService.GetBook(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get book", slog.Int64("bookId", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, book)
	}
}

func (h *BookHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		categories, err := h.bookService.ListCategories(r.Context())
		if err != nil {
			logger.Warn("Failed to list categories", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, categories)
	}
}

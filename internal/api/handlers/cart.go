package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/online-bookstore/internal/api/middleware"
	"github.com/aaravmahajanofficial/online-bookstore/internal/errors"
	"github.com/aaravmahajanofficial/online-bookstore/internal/models"
	service "github.com/aaravmahajanofficial/online-bookstore/internal/services"
	"github.com/aaravmahajanofficial/online-bookstore/internal/utils"
	"github.com/aaravmahajanofficial/online-bookstore/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

// GetCart returns the caller's cart, creating an empty one on first access.
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}
		logger = logger.With(slog.String("username", claims.Username))

		cart, err := h.cartService.GetCart(r.Context(), claims.Username)
		if err != nil {
			logger.Error("Failed to retrieve cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart retrieved successfully", slog.Int64("cartId", cart.ID))
		response.Success(w, http.StatusOK, cart)
	}
}

// AddItem adds one copy of a book to the caller's cart.
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized add to cart attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}
		logger = logger.With(slog.String("username", claims.Username))

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add item input")
			return
		}

		logger = logger.With(slog.Int64("bookId", req.BookID))

		cart, err := h.cartService.AddItem(r.Context(), claims.Username, req.BookID)
		if err != nil {
			logger.Error("Failed to add item to cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart", slog.Int64("cartId", cart.ID), slog.String("total", cart.TotalAmount.String()))
		response.Success(w, http.StatusOK, cart)
	}
}

// RemoveItem takes one copy of a book out of the caller's cart.
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized remove from cart attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}
		logger = logger.With(slog.String("username", claims.Username))

		bookID, err := utils.ParseID(r, "bookId")
		if err != nil {
			logger.Warn("Invalid book id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.Int64("bookId", bookID))

		cart, err := h.cartService.RemoveItem(r.Context(), claims.Username, bookID)
		if err != nil {
			logger.Error("Failed to remove item from cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Item removed from cart", slog.Int64("cartId", cart.ID), slog.String("total", cart.TotalAmount.String()))
		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized clear cart attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}
		logger = logger.With(slog.String("username", claims.Username))

		cart, err := h.cartService.ClearCart(r.Context(), claims.Username)
		if err != nil {
			logger.Error("Failed to clear cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart cleared", slog.Int64("cartId", cart.ID))
		response.Success(w, http.StatusOK, cart)
	}
}

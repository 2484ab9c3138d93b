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

type OrderHandler struct {
	orderService service.OrderService
	cartService  service.CartService
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderService, cartService service.CartService) *OrderHandler {
	return &OrderHandler{orderService: orderService, cartService: cartService, validator: validator.New()}
}

// CreateOrder converts the given cart into an order and then empties the cart.
// The order stands even if clearing the cart fails. Clearing is a separate
// unit of work, so a book added between the two is dropped without being ordered.
func (h *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized order creation attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}
		logger = logger.With(slog.String("username", claims.Username))

		var req models.CreateOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create order input")
			return
		}

		logger = logger.With(slog.Int64("cartId", req.CartID))

		order, err := h.orderService.CreateOrder(r.Context(), claims.Username, req.CartID)
		if err != nil {
			logger.Error("Failed to create order", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		if _, err := h.cartService.ClearCart(r.Context(), claims.Username); err != nil {
			logger.Error("Order created but cart was not cleared", slog.Int64("orderId", order.ID), slog.Any("error", err))
		}

		logger.Info("Order created successfully", slog.Int64("orderId", order.ID), slog.String("total", order.TotalAmount.String()))
		response.Success(w, http.StatusCreated, order)
	}
}

func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized order access attempt: missing user claims")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}
		logger = logger.With(slog.String("username", claims.Username))

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.Int64("orderId", id))

		order, err := h.orderService.GetOrder(r.Context(), claims.Username, id)
		if err != nil {
			logger.Error("Failed to get order", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order retrieved successfully")
		response.Success(w, http.StatusOK, order)
	}
}

// ListOrders returns the caller's orders, newest first.
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized order list attempt: missing user claims")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}
		logger = logger.With(slog.String("username", claims.Username))

		orders, err := h.orderService.ListOrders(r.Context(), claims.Username)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Orders listed successfully", slog.Int("count", len(orders)))
		response.Success(w, http.StatusOK, orders)
	}
}

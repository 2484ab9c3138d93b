package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aaravmahajanofficial/online-bookstore/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/online-bookstore/internal/errors"
	"github.com/aaravmahajanofficial/online-bookstore/internal/metrics"
	"github.com/aaravmahajanofficial/online-bookstore/internal/models"
	repository "github.com/aaravmahajanofficial/online-bookstore/internal/repositories"
)

// OrderService turns a cart into an immutable order. It never touches the
// cart itself; the caller clears it once the order exists.
type OrderService interface {
	CreateOrder(ctx context.Context, username string, cartID int64) (*models.Order, error)
	ListOrders(ctx context.Context, username string) ([]models.Order, error)
	GetOrder(ctx context.Context, username string, orderID int64) (*models.Order, error)
}

type orderService struct {
	tx     repository.Transactor
	orders repository.OrderRepository
	carts  repository.CartRepository
	books  repository.BookRepository
	users  repository.UserRepository
}

func NewOrderService(tx repository.Transactor, orders repository.OrderRepository, carts repository.CartRepository, books repository.BookRepository, users repository.UserRepository) OrderService {
	return &orderService{tx: tx, orders: orders, carts: carts, books: books, users: users}
}

func (s *orderService) CreateOrder(ctx context.Context, username string, cartID int64) (*models.Order, error) {

	logger := middleware.LoggerFromContext(ctx)

	var order *models.Order

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {

		cart, err := s.carts.GetCartByID(ctx, cartID)
		if err != nil {
			return lookupError(err, appErrors.CartNotFoundError("Cart not found"), "Failed to retrieve cart")
		}

		user, err := resolveUser(ctx, s.users, username)
		if err != nil {
			return err
		}

		// Another user's cart is reported exactly like a missing one.
		if cart.UserID != user.ID {
			return appErrors.CartNotFoundError("Cart not found")
		}

		lines := make([]models.OrderLine, 0, len(cart.Items))

		for _, item := range cart.Items {

			book, err := s.books.GetBookByID(ctx, item.Book.ID)
			if err != nil {
				return lookupError(err,
					appErrors.BookNotFoundError(fmt.Sprintf("Book %d is no longer in the catalog", item.Book.ID)),
					"Failed to retrieve book")
			}

			lines = append(lines, models.OrderLine{
				Book:        *book,
				Quantity:    item.Quantity,
				TotalAmount: models.LineTotal(book.Price, item.Quantity),
			})
		}

		created := &models.Order{
			UserID:      user.ID,
			TotalAmount: cart.TotalAmount,
			Items:       lines,
		}

		if sum := created.LinesTotal(); !sum.Equal(created.TotalAmount) {
			logger.Warn("Order total differs from its line sum",
				slog.Int64("cartId", cart.ID),
				slog.String("cartTotal", created.TotalAmount.StringFixed(2)),
				slog.String("linesTotal", sum.StringFixed(2)))
		}

		if err := s.orders.CreateOrder(ctx, created); err != nil {
			return appErrors.DatabaseError("Failed to create order").WithError(err)
		}

		order = created
		return nil
	})
	if err != nil {
		logger.Warn("Failed to create order", slog.Int64("cartId", cartID), slog.Any("error", err))
		return nil, passAppError(err, "Failed to create order")
	}

	metrics.ObserveOrderCreated(order.TotalAmount.InexactFloat64())
	logger.Info("Order created", slog.Int64("orderId", order.ID), slog.Int64("cartId", cartID), slog.Int("lines", len(order.Items)))

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, username string) ([]models.Order, error) {

	user, err := resolveUser(ctx, s.users, username)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.ListOrdersByUserID(ctx, user.ID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list orders").WithError(err)
	}

	return orders, nil
}

func (s *orderService) GetOrder(ctx context.Context, username string, orderID int64) (*models.Order, error) {

	user, err := resolveUser(ctx, s.users, username)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, lookupError(err, appErrors.OrderNotFoundError("Order not found"), "Failed to retrieve order")
	}

	if order.UserID != user.ID {
		return nil, appErrors.OrderNotFoundError("Order not found")
	}

	return order, nil
}

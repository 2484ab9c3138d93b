package service

import (
	"context"
	"log/slog"

	"github.com/aaravmahajanofficial/online-bookstore/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/online-bookstore/internal/errors"
	"github.com/aaravmahajanofficial/online-bookstore/internal/metrics"
	"github.com/aaravmahajanofficial/online-bookstore/internal/models"
	repository "github.com/aaravmahajanofficial/online-bookstore/internal/repositories"
	"github.com/shopspring/decimal"
)

// CartService owns each user's cart. Every mutation is a single unit of work:
// the cart total is recomputed from its lines and persisted with them.
type CartService interface {
	GetCart(ctx context.Context, username string) (*models.Cart, error)
	AddItem(ctx context.Context, username string, bookID int64) (*models.Cart, error)
	RemoveItem(ctx context.Context, username string, bookID int64) (*models.Cart, error)
	ClearCart(ctx context.Context, username string) (*models.Cart, error)
}

type cartService struct {
	tx    repository.Transactor
	carts repository.CartRepository
	books repository.BookRepository
	users repository.UserRepository
}

func NewCartService(tx repository.Transactor, carts repository.CartRepository, books repository.BookRepository, users repository.UserRepository) CartService {
	return &cartService{tx: tx, carts: carts, books: books, users: users}
}

// GetCart creates and persists an empty cart on first access.
func (s *cartService) GetCart(ctx context.Context, username string) (*models.Cart, error) {

	var cart *models.Cart

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {

		user, err := resolveUser(ctx, s.users, username)
		if err != nil {
			return err
		}

		cart, err = s.carts.GetOrCreateCart(ctx, user.ID)
		if err != nil {
			return appErrors.DatabaseError("Failed to retrieve cart").WithError(err)
		}

		return nil
	})
	if err != nil {
		return nil, passAppError(err, "Failed to retrieve cart")
	}

	return cart, nil
}

func (s *cartService) AddItem(ctx context.Context, username string, bookID int64) (cart *models.Cart, err error) {

	logger := middleware.LoggerFromContext(ctx)
	defer func() { metrics.ObserveCartOperation("add_item", err) }()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {

		user, err := resolveUser(ctx, s.users, username)
		if err != nil {
			return err
		}

		current, err := s.carts.GetOrCreateCart(ctx, user.ID)
		if err != nil {
			return appErrors.DatabaseError("Failed to retrieve cart").WithError(err)
		}

		book, err := s.books.GetBookByID(ctx, bookID)
		if err != nil {
			return lookupError(err, appErrors.BookNotFoundError("Book not found"), "Failed to retrieve book")
		}

		if i := current.LineIndex(book.ID); i >= 0 {
			line := &current.Items[i]
			line.Book = *book
			line.Quantity++
			line.Reprice()

			if err := s.carts.UpdateLine(ctx, line); err != nil {
				return appErrors.DatabaseError("Failed to update cart").WithError(err)
			}
		} else {
			line := models.CartLine{CartID: current.ID, Book: *book, Quantity: 1}
			line.Reprice()

			if err := s.carts.AddLine(ctx, &line); err != nil {
				return appErrors.DatabaseError("Failed to update cart").WithError(err)
			}

			current.Items = append(current.Items, line)
		}

		if err := s.saveTotal(ctx, current); err != nil {
			return err
		}

		cart = current
		return nil
	})
	if err != nil {
		logger.Warn("Failed to add book to cart", slog.Int64("bookId", bookID), slog.Any("error", err))
		return nil, passAppError(err, "Failed to update cart")
	}

	logger.Info("Book added to cart", slog.Int64("cartId", cart.ID), slog.Int64("bookId", bookID), slog.String("total", cart.TotalAmount.StringFixed(2)))

	return cart, nil
}

func (s *cartService) RemoveItem(ctx context.Context, username string, bookID int64) (cart *models.Cart, err error) {

	logger := middleware.LoggerFromContext(ctx)
	defer func() { metrics.ObserveCartOperation("remove_item", err) }()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {

		current, err := s.userCart(ctx, username)
		if err != nil {
			return err
		}

		i := current.LineIndex(bookID)
		if i < 0 {
			return appErrors.ItemNotFoundError("Item not found in the cart")
		}

		line := &current.Items[i]

		if line.Quantity-1 > 0 {
			line.Quantity--
			line.Reprice()

			if err := s.carts.UpdateLine(ctx, line); err != nil {
				return appErrors.DatabaseError("Failed to update cart").WithError(err)
			}
		} else {
			if err := s.carts.DeleteLine(ctx, line.ID); err != nil {
				return appErrors.DatabaseError("Failed to update cart").WithError(err)
			}

			current.RemoveLine(i)
		}

		if err := s.saveTotal(ctx, current); err != nil {
			return err
		}

		cart = current
		return nil
	})
	if err != nil {
		logger.Warn("Failed to remove book from cart", slog.Int64("bookId", bookID), slog.Any("error", err))
		return nil, passAppError(err, "Failed to update cart")
	}

	logger.Info("Book removed from cart", slog.Int64("cartId", cart.ID), slog.Int64("bookId", bookID), slog.String("total", cart.TotalAmount.StringFixed(2)))

	return cart, nil
}

func (s *cartService) ClearCart(ctx context.Context, username string) (cart *models.Cart, err error) {

	logger := middleware.LoggerFromContext(ctx)
	defer func() { metrics.ObserveCartOperation("clear", err) }()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {

		current, err := s.userCart(ctx, username)
		if err != nil {
			return err
		}

		if err := s.carts.DeleteLines(ctx, current.ID); err != nil {
			return appErrors.DatabaseError("Failed to clear cart").WithError(err)
		}

		current.Items = []models.CartLine{}
		current.TotalAmount = decimal.Zero

		if err := s.carts.UpdateTotal(ctx, current); err != nil {
			return appErrors.DatabaseError("Failed to clear cart").WithError(err)
		}

		cart = current
		return nil
	})
	if err != nil {
		return nil, passAppError(err, "Failed to clear cart")
	}

	logger.Info("Cart cleared", slog.Int64("cartId", cart.ID))

	return cart, nil
}

// userCart loads an existing cart without creating one.
func (s *cartService) userCart(ctx context.Context, username string) (*models.Cart, error) {

	user, err := resolveUser(ctx, s.users, username)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCartByUserID(ctx, user.ID)
	if err != nil {
		return nil, lookupError(err, appErrors.CartNotFoundError("Cart not found"), "Failed to retrieve cart")
	}

	return cart, nil
}

func (s *cartService) saveTotal(ctx context.Context, cart *models.Cart) error {

	cart.RecalculateTotal()

	if err := s.carts.UpdateTotal(ctx, cart); err != nil {
		return appErrors.DatabaseError("Failed to update cart total").WithError(err)
	}

	return nil
}

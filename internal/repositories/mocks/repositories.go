// Package mocks holds testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/online-bookstore/internal/models"
	"github.com/stretchr/testify/mock"
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type BookRepository struct {
	mock.Mock
}

func (m *BookRepository) GetBookByID(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	book, _ := args.Get(0).(*models.Book)
	return book, args.Error(1)
}

func (m *BookRepository) ListBooks(ctx context.Context, filter models.BookFilter) ([]models.Book, error) {
	args := m.Called(ctx, filter)
	books, _ := args.Get(0).([]models.Book)
	return books, args.Error(1)
}

func (m *BookRepository) ListCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]string)
	return categories, args.Error(1)
}

type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) GetOrCreateCart(ctx context.Context, userID int64) (*models.Cart, error) {
	args := m.Called(ctx, userID)
	cart, _ := args.Get(0).(*models.Cart)
	return cart, args.Error(1)
}

func (m *CartRepository) GetCartByUserID(ctx context.Context, userID int64) (*models.Cart, error) {
	args := m.Called(ctx, userID)
	cart, _ := args.Get(0).(*models.Cart)
	return cart, args.Error(1)
}

func (m *CartRepository) GetCartByID(ctx context.Context, cartID int64) (*models.Cart, error) {
	args := m.Called(ctx, cartID)
	cart, _ := args.Get(0).(*models.Cart)
	return cart, args.Error(1)
}

func (m *CartRepository) AddLine(ctx context.Context, line *models.CartLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *CartRepository) UpdateLine(ctx context.Context, line *models.CartLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *CartRepository) DeleteLine(ctx context.Context, lineID int64) error {
	args := m.Called(ctx, lineID)
	return args.Error(0)
}

func (m *CartRepository) DeleteLines(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

func (m *CartRepository) UpdateTotal(ctx context.Context, cart *models.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepository) ListOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]models.Order)
	return orders, args.Error(1)
}

func (m *OrderRepository) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

type RateLimitRepository struct {
	mock.Mock
}

func (m *RateLimitRepository) CheckLoginRateLimit(ctx context.Context, username string) (bool, int, int, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Int(1), args.Int(2), args.Error(3)
}

// Transactor runs fn inline and counts how each unit of work ended.
type Transactor struct {
	Commits   int
	Rollbacks int
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		t.Rollbacks++
		return err
	}

	t.Commits++
	return nil
}

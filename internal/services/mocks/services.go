package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/online-bookstore/internal/models"
	"github.com/stretchr/testify/mock"
)

type CartService struct {
	mock.Mock
}

func (m *CartService) GetCart(ctx context.Context, username string) (*models.Cart, error) {
	args := m.Called(ctx, username)
	cart, _ := args.Get(0).(*models.Cart)
	return cart, args.Error(1)
}

func (m *CartService) AddItem(ctx context.Context, username string, bookID int64) (*models.Cart, error) {
	args := m.Called(ctx, username, bookID)
	cart, _ := args.Get(0).(*models.Cart)
	return cart, args.Error(1)
}

func (m *CartService) RemoveItem(ctx context.Context, username string, bookID int64) (*models.Cart, error) {
	args := m.Called(ctx, username, bookID)
	cart, _ := args.Get(0).(*models.Cart)
	return cart, args.Error(1)
}

func (m *CartService) ClearCart(ctx context.Context, username string) (*models.Cart, error) {
	args := m.Called(ctx, username)
	cart, _ := args.Get(0).(*models.Cart)
	return cart, args.Error(1)
}

type OrderService struct {
	mock.Mock
}

func (m *OrderService) CreateOrder(ctx context.Context, username string, cartID int64) (*models.Order, error) {
	args := m.Called(ctx, username, cartID)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

func (m *OrderService) ListOrders(ctx context.Context, username string) ([]models.Order, error) {
	args := m.Called(ctx, username)
	orders, _ := args.Get(0).([]models.Order)
	return orders, args.Error(1)
}

func (m *OrderService) GetOrder(ctx context.Context, username string, orderID int64) (*models.Order, error) {
	args := m.Called(ctx, username, orderID)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

type BookService struct {
	mock.Mock
}

func (m *BookService) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	book, _ := args.Get(0).(*models.Book)
	return book, args.Error(1)
}

func (m *BookService) ListBooks(ctx context.Context, filter models.BookFilter) ([]models.Book, error) {
	args := m.Called(ctx, filter)
	books, _ := args.Get(0).([]models.Book)
	return books, args.Error(1)
}

func (m *BookService) ListCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]string)
	return categories, args.Error(1)
}

type UserService struct {
	mock.Mock
}

func (m *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.LoginResponse)
	return resp, args.Error(1)
}

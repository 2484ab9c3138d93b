package service_test

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aaravmahajanofficial/online-bookstore/internal/models"
	"github.com/shopspring/decimal"
)

type storedCart struct {
	id, userID int64
	total      decimal.Decimal
	lines      []models.CartLine
}

type storedState struct {
	nextID int64
	users  map[string]models.User
	books  map[int64]models.Book
	carts  map[int64]*storedCart
	orders []models.Order
}

func (s *storedState) clone() *storedState {
	c := &storedState{
		nextID: s.nextID,
		users:  maps.Clone(s.users),
		books:  maps.Clone(s.books),
		carts:  make(map[int64]*storedCart, len(s.carts)),
		orders: make([]models.Order, len(s.orders)),
	}

	for id, cart := range s.carts {
		copied := *cart
		copied.lines = slices.Clone(cart.lines)
		c.carts[id] = &copied
	}

	for i, order := range s.orders {
		order.Items = slices.Clone(order.Items)
		c.orders[i] = order
	}

	return c
}

// memStore is an in-memory record store implementing every repository the
// services use plus the Transactor, which snapshots state and restores it
// when the unit of work fails.
type memStore struct {
	state *storedState

	failUpdateTotal error
	failCreateOrder error
}

func newMemStore() *memStore {
	return &memStore{state: &storedState{
		users: map[string]models.User{},
		books: map[int64]models.Book{},
		carts: map[int64]*storedCart{},
	}}
}

func (m *memStore) id() int64 {
	m.state.nextID++
	return m.state.nextID
}

func (m *memStore) addUser(username string) models.User {
	user := models.User{ID: m.id(), Username: username}
	m.state.users[username] = user
	return user
}

func (m *memStore) addBook(name, price string) models.Book {
	book := models.Book{ID: m.id(), Name: name, Category: "Fiction", Price: decimal.RequireFromString(price)}
	m.state.books[book.ID] = book
	return book
}

func (m *memStore) setPrice(bookID int64, price string) {
	book := m.state.books[bookID]
	book.Price = decimal.RequireFromString(price)
	m.state.books[bookID] = book
}

func (m *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := m.state.clone()

	if err := fn(ctx); err != nil {
		m.state = snapshot
		return err
	}

	return nil
}

func (m *memStore) CreateUser(_ context.Context, user *models.User) error {
	if _, ok := m.state.users[user.Username]; ok {
		return fmt.Errorf("duplicate username %s", user.Username)
	}
	user.ID = m.id()
	m.state.users[user.Username] = *user
	return nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := m.state.users[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &user, nil
}

func (m *memStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	for _, user := range m.state.users {
		if user.ID == id {
			return &user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) GetBookByID(_ context.Context, id int64) (*models.Book, error) {
	book, ok := m.state.books[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &book, nil
}

func (m *memStore) ListBooks(_ context.Context, filter models.BookFilter) ([]models.Book, error) {
	books := []models.Book{}
	for _, id := range slices.Sorted(maps.Keys(m.state.books)) {
		book := m.state.books[id]
		if filter.Search != "" && !strings.EqualFold(book.Name, filter.Search) {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(book.Category, filter.Category) {
			continue
		}
		books = append(books, book)
	}
	return books, nil
}

func (m *memStore) ListCategories(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	for _, book := range m.state.books {
		seen[book.Category] = true
	}
	return slices.Sorted(maps.Keys(seen)), nil
}

func (m *memStore) cartView(cart *storedCart) *models.Cart {
	return &models.Cart{ID: cart.id, UserID: cart.userID, TotalAmount: cart.total, Items: slices.Clone(cart.lines)}
}

func (m *memStore) GetOrCreateCart(ctx context.Context, userID int64) (*models.Cart, error) {
	if cart, err := m.GetCartByUserID(ctx, userID); err == nil {
		return cart, nil
	}
	cart := &storedCart{id: m.id(), userID: userID, total: decimal.Zero, lines: []models.CartLine{}}
	m.state.carts[cart.id] = cart
	return m.cartView(cart), nil
}

func (m *memStore) GetCartByUserID(_ context.Context, userID int64) (*models.Cart, error) {
	for _, cart := range m.state.carts {
		if cart.userID == userID {
			return m.cartView(cart), nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) GetCartByID(_ context.Context, cartID int64) (*models.Cart, error) {
	cart, ok := m.state.carts[cartID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return m.cartView(cart), nil
}

func (m *memStore) AddLine(_ context.Context, line *models.CartLine) error {
	cart, ok := m.state.carts[line.CartID]
	if !ok {
		return sql.ErrNoRows
	}
	line.ID = m.id()
	cart.lines = append(cart.lines, *line)
	return nil
}

func (m *memStore) UpdateLine(_ context.Context, line *models.CartLine) error {
	for _, cart := range m.state.carts {
		for i := range cart.lines {
			if cart.lines[i].ID == line.ID {
				cart.lines[i] = *line
				return nil
			}
		}
	}
	return sql.ErrNoRows
}

func (m *memStore) DeleteLine(_ context.Context, lineID int64) error {
	for _, cart := range m.state.carts {
		for i := range cart.lines {
			if cart.lines[i].ID == lineID {
				cart.lines = slices.Delete(cart.lines, i, i+1)
				return nil
			}
		}
	}
	return sql.ErrNoRows
}

func (m *memStore) DeleteLines(_ context.Context, cartID int64) error {
	if cart, ok := m.state.carts[cartID]; ok {
		cart.lines = []models.CartLine{}
	}
	return nil
}

func (m *memStore) UpdateTotal(_ context.Context, cart *models.Cart) error {
	if m.failUpdateTotal != nil {
		return m.failUpdateTotal
	}
	stored, ok := m.state.carts[cart.ID]
	if !ok {
		return sql.ErrNoRows
	}
	stored.total = cart.TotalAmount
	return nil
}

func (m *memStore) CreateOrder(_ context.Context, order *models.Order) error {
	if m.failCreateOrder != nil {
		return m.failCreateOrder
	}
	order.ID = m.id()
	for i := range order.Items {
		order.Items[i].ID = m.id()
		order.Items[i].OrderID = order.ID
	}
	stored := *order
	stored.Items = slices.Clone(order.Items)
	m.state.orders = append(m.state.orders, stored)
	return nil
}

func (m *memStore) ListOrdersByUserID(_ context.Context, userID int64) ([]models.Order, error) {
	orders := []models.Order{}
	for i := len(m.state.orders) - 1; i >= 0; i-- {
		if m.state.orders[i].UserID == userID {
			order := m.state.orders[i]
			order.Items = slices.Clone(order.Items)
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (m *memStore) GetOrderByID(_ context.Context, id int64) (*models.Order, error) {
	for _, order := range m.state.orders {
		if order.ID == id {
			order.Items = slices.Clone(order.Items)
			return &order, nil
		}
	}
	return nil, sql.ErrNoRows
}

// storedTotal recomputes Σ quantity × price from persisted lines.
func (m *memStore) storedTotal(cartID int64) (stored, recomputed decimal.Decimal) {
	cart := m.state.carts[cartID]
	recomputed = decimal.Zero
	for _, line := range cart.lines {
		recomputed = recomputed.Add(line.Book.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return cart.total, recomputed
}

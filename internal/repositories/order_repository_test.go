package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/online-bookstore/internal/models"
	repository "github.com/aaravmahajanofficial/online-bookstore/internal/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	insertOrderSQL     = regexp.QuoteMeta(`INSERT INTO orders (user_id, order_date, total_amount) VALUES ($1, NOW(), $2) RETURNING id, order_date`)
	insertOrderItemSQL = regexp.QuoteMeta(`INSERT INTO order_items (order_id, book_id, quantity, total_amount) VALUES ($1, $2, $3, $4) RETURNING id`)
	orderLinesSQL      = regexp.QuoteMeta(`FROM order_items oi JOIN books b ON b.id = oi.book_id WHERE oi.order_id = ANY($1) ORDER BY oi.id`)
	orderColumns       = []string{"id", "user_id", "order_date", "total_amount"}
	orderLineColumns   = []string{"id", "order_id", "quantity", "total_amount", "b_id", "name", "description", "author", "category", "price"}
)

func setupOrderRepoTest(t *testing.T) (repository.OrderRepository, repository.Transactor, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	tx := repository.NewTransactor(db)

	return repository.NewOrderRepo(db, tx), tx, mock
}

func newTestOrder() *models.Order {
	return &models.Order{
		UserID:      1,
		TotalAmount: decimal.RequireFromString("25.00"),
		Items: []models.OrderLine{
			{Book: models.Book{ID: 1}, Quantity: 2, TotalAmount: decimal.RequireFromString("20.00")},
			{Book: models.Book{ID: 2}, Quantity: 1, TotalAmount: decimal.RequireFromString("5.00")},
		},
	}
}

func TestCreateOrder(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Own Transaction", func(t *testing.T) {
		// Arrange
		repo, _, mock := setupOrderRepoTest(t)
		order := newTestOrder()
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(insertOrderSQL).
			WithArgs(int64(1), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_date"}).AddRow(int64(500), now))
		mock.ExpectQuery(insertOrderItemSQL).
			WithArgs(int64(500), int64(1), 2, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(900)))
		mock.ExpectQuery(insertOrderItemSQL).
			WithArgs(int64(500), int64(2), 1, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(901)))
		mock.ExpectCommit()

		// Act
		err := repo.CreateOrder(ctx, order)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(500), order.ID)
		assert.WithinDuration(t, now, order.OrderDate, time.Second)
		assert.Equal(t, int64(900), order.Items[0].ID)
		assert.Equal(t, int64(500), order.Items[1].OrderID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Joins Outer Transaction", func(t *testing.T) {
		// Arrange
		repo, tx, mock := setupOrderRepoTest(t)
		order := newTestOrder()
		order.Items = order.Items[:1]

		mock.ExpectBegin()
		mock.ExpectQuery(insertOrderSQL).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_date"}).AddRow(int64(501), time.Now()))
		mock.ExpectQuery(insertOrderItemSQL).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(902)))
		mock.ExpectCommit()

		// Act
		err := tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			return repo.CreateOrder(txCtx, order)
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(501), order.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Order Without Lines", func(t *testing.T) {
		// Arrange
		repo, _, mock := setupOrderRepoTest(t)
		order := &models.Order{UserID: 1, TotalAmount: decimal.Zero, Items: []models.OrderLine{}}

		mock.ExpectBegin()
		mock.ExpectQuery(insertOrderSQL).
			WithArgs(int64(1), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_date"}).AddRow(int64(503), time.Now()))
		mock.ExpectCommit()

		// Act
		err := repo.CreateOrder(ctx, order)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(503), order.ID)
		assert.Empty(t, order.Items)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Item Insert Rolls Back", func(t *testing.T) {
		// Arrange
		repo, _, mock := setupOrderRepoTest(t)
		order := newTestOrder()
		dbError := errors.New("book foreign key violation")

		mock.ExpectBegin()
		mock.ExpectQuery(insertOrderSQL).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_date"}).AddRow(int64(502), time.Now()))
		mock.ExpectQuery(insertOrderItemSQL).WillReturnError(dbError)
		mock.ExpectRollback()

		// Act
		err := repo.CreateOrder(ctx, order)

		// Assert
		require.ErrorIs(t, err, dbError)
		assert.Contains(t, err.Error(), "failed to insert an order item")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListOrdersByUserID(t *testing.T) {
	ctx := t.Context()
	listSQL := regexp.QuoteMeta(`FROM orders WHERE user_id = $1 ORDER BY order_date DESC, id DESC`)

	t.Run("Success - Newest First With Lines", func(t *testing.T) {
		// Arrange
		repo, _, mock := setupOrderRepoTest(t)
		older := time.Now().Add(-time.Hour)
		newer := time.Now()

		mock.ExpectQuery(listSQL).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(orderColumns).
				AddRow(int64(2), int64(1), newer, "5.00").
				AddRow(int64(1), int64(1), older, "20.00"))
		mock.ExpectQuery(orderLinesSQL).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(orderLineColumns).
				AddRow(int64(10), int64(1), 2, "20.00", int64(1), "Dune", "", "Frank Herbert", "Science Fiction", "10.00").
				AddRow(int64(11), int64(2), 1, "5.00", int64(2), "Emma", "", "Jane Austen", "Classics", "5.00"))

		// Act
		orders, err := repo.ListOrdersByUserID(ctx, 1)

		// Assert
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, int64(2), orders[0].ID)
		require.Len(t, orders[0].Items, 1)
		assert.Equal(t, "Emma", orders[0].Items[0].Book.Name)
		require.Len(t, orders[1].Items, 1)
		assert.Equal(t, 2, orders[1].Items[0].Quantity)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - No Orders", func(t *testing.T) {
		// Arrange
		repo, _, mock := setupOrderRepoTest(t)

		mock.ExpectQuery(listSQL).WithArgs(int64(3)).WillReturnRows(sqlmock.NewRows(orderColumns))

		// Act
		orders, err := repo.ListOrdersByUserID(ctx, 3)

		// Assert
		require.NoError(t, err)
		assert.NotNil(t, orders)
		assert.Empty(t, orders)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Lines Query Error", func(t *testing.T) {
		// Arrange
		repo, _, mock := setupOrderRepoTest(t)
		dbError := errors.New("connection lost")

		mock.ExpectQuery(listSQL).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(int64(1), int64(1), time.Now(), "20.00"))
		mock.ExpectQuery(orderLinesSQL).WillReturnError(dbError)

		// Act
		orders, err := repo.ListOrdersByUserID(ctx, 1)

		// Assert
		require.ErrorIs(t, err, dbError)
		assert.Nil(t, orders)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetOrderByID(t *testing.T) {
	ctx := t.Context()
	selectSQL := regexp.QuoteMeta(`FROM orders WHERE id = $1`)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		repo, _, mock := setupOrderRepoTest(t)

		mock.ExpectQuery(selectSQL).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(int64(1), int64(4), time.Now(), "20.00"))
		mock.ExpectQuery(orderLinesSQL).
			WillReturnRows(sqlmock.NewRows(orderLineColumns).
				AddRow(int64(10), int64(1), 2, "20.00", int64(1), "Dune", "", "Frank Herbert", "Science Fiction", "10.00"))

		// Act
		order, err := repo.GetOrderByID(ctx, 1)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(4), order.UserID)
		require.Len(t, order.Items, 1)
		assert.True(t, order.LinesTotal().Equal(order.TotalAmount))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		repo, _, mock := setupOrderRepoTest(t)

		mock.ExpectQuery(selectSQL).WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

		// Act
		order, err := repo.GetOrderByID(ctx, 9)

		// Assert
		require.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, order)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

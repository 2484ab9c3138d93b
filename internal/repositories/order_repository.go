package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aaravmahajanofficial/online-bookstore/internal/models"
	"github.com/aaravmahajanofficial/online-bookstore/internal/utils"
	"github.com/lib/pq"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	ListOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
}

type orderRepository struct {
	DB *sql.DB
	tx Transactor
}

func NewOrderRepo(db *sql.DB, tx Transactor) OrderRepository {
	return &orderRepository{DB: db, tx: tx}
}

// CreateOrder writes the order header and its lines atomically, joining the
// caller's transaction when there is one.
func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.tx.WithinTransaction(ctx, func(ctx context.Context) error {

		dbCtx, cancel := utils.WithDBTimeout(ctx)
		defer cancel()

		db := conn(ctx, r.DB)

		query := `
			INSERT INTO orders (user_id, order_date, total_amount)
			VALUES ($1, NOW(), $2)
			RETURNING id, order_date`

		if err := db.QueryRowContext(dbCtx, query, order.UserID, order.TotalAmount).Scan(&order.ID, &order.OrderDate); err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		query = `
			INSERT INTO order_items (order_id, book_id, quantity, total_amount)
			VALUES ($1, $2, $3, $4)
			RETURNING id`

		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID

			if err := db.QueryRowContext(dbCtx, query, order.ID, item.Book.ID, item.Quantity, item.TotalAmount).Scan(&item.ID); err != nil {
				return fmt.Errorf("failed to insert an order item: %w", err)
			}
		}

		return nil
	})
}

// ListOrdersByUserID returns the user's orders newest first.
func (r *orderRepository) ListOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, order_date, total_amount
		FROM orders
		WHERE user_id = $1
		ORDER BY order_date DESC, id DESC`

	rows, err := conn(ctx, r.DB).QueryContext(dbCtx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	index := make(map[int64]int)

	for rows.Next() {
		var order models.Order
		if err := rows.Scan(&order.ID, &order.UserID, &order.OrderDate, &order.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		order.Items = []models.OrderLine{}
		index[order.ID] = len(orders)
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int64, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}

	lines, err := r.getOrderLines(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		i := index[line.OrderID]
		orders[i].Items = append(orders[i].Items, line)
	}

	return orders, nil
}

// GetOrderByID returns sql.ErrNoRows unwrapped when the order does not exist.
func (r *orderRepository) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, order_date, total_amount
		FROM orders
		WHERE id = $1`

	order := &models.Order{}

	if err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, id).Scan(&order.ID, &order.UserID, &order.OrderDate, &order.TotalAmount); err != nil {
		return nil, err
	}

	lines, err := r.getOrderLines(ctx, []int64{id})
	if err != nil {
		return nil, err
	}

	order.Items = lines

	return order, nil
}

func (r *orderRepository) getOrderLines(ctx context.Context, orderIDs []int64) ([]models.OrderLine, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT oi.id, oi.order_id, oi.quantity, oi.total_amount, ` + bookColumns + `
		FROM order_items oi
		JOIN books b ON b.id = oi.book_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id`

	rows, err := conn(ctx, r.DB).QueryContext(dbCtx, query, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get the order items: %w", err)
	}
	defer rows.Close()

	lines := []models.OrderLine{}

	for rows.Next() {
		var line models.OrderLine
		if err := scanBook(rows, &line.Book, &line.ID, &line.OrderID, &line.Quantity, &line.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order item rows: %w", err)
	}

	return lines, nil
}

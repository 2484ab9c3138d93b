package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aaravmahajanofficial/online-bookstore/internal/models"
	"github.com/aaravmahajanofficial/online-bookstore/internal/utils"
)

// CartRepository reads lock the cart row and its lines (FOR UPDATE), so a
// read-modify-write inside one transaction is serialised per cart.
type CartRepository interface {
	GetOrCreateCart(ctx context.Context, userID int64) (*models.Cart, error)
	GetCartByUserID(ctx context.Context, userID int64) (*models.Cart, error)
	GetCartByID(ctx context.Context, cartID int64) (*models.Cart, error)
	AddLine(ctx context.Context, line *models.CartLine) error
	UpdateLine(ctx context.Context, line *models.CartLine) error
	DeleteLine(ctx context.Context, lineID int64) error
	DeleteLines(ctx context.Context, cartID int64) error
	UpdateTotal(ctx context.Context, cart *models.Cart) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

func (r *cartRepository) GetOrCreateCart(ctx context.Context, userID int64) (*models.Cart, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO carts (user_id, total_amount, created_at, updated_at)
		VALUES ($1, 0, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := conn(ctx, r.DB).ExecContext(dbCtx, query, userID); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	return r.GetCartByUserID(ctx, userID)
}

func (r *cartRepository) GetCartByUserID(ctx context.Context, userID int64) (*models.Cart, error) {
	return r.getCart(ctx, `WHERE user_id = $1`, userID)
}

func (r *cartRepository) GetCartByID(ctx context.Context, cartID int64) (*models.Cart, error) {
	return r.getCart(ctx, `WHERE id = $1`, cartID)
}

// getCart returns sql.ErrNoRows unwrapped when no cart matches.
func (r *cartRepository) getCart(ctx context.Context, where string, arg int64) (*models.Cart, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	db := conn(ctx, r.DB)

	query := `SELECT id, user_id, total_amount FROM carts ` + where + ` FOR UPDATE`

	cart := &models.Cart{}

	if err := db.QueryRowContext(dbCtx, query, arg).Scan(&cart.ID, &cart.UserID, &cart.TotalAmount); err != nil {
		return nil, err
	}

	query = `
		SELECT ci.id, ci.cart_id, ci.quantity, ci.total_amount, ` + bookColumns + `
		FROM cart_items ci
		JOIN books b ON b.id = ci.book_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id
		FOR UPDATE OF ci`

	rows, err := db.QueryContext(dbCtx, query, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []models.CartLine{}

	for rows.Next() {
		var line models.CartLine
		if err := scanBook(rows, &line.Book, &line.ID, &line.CartID, &line.Quantity, &line.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart item rows: %w", err)
	}

	return cart, nil
}

func (r *cartRepository) AddLine(ctx context.Context, line *models.CartLine) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cart_items (cart_id, book_id, quantity, total_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	if err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, line.CartID, line.Book.ID, line.Quantity, line.TotalAmount).Scan(&line.ID); err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}

	return nil
}

func (r *cartRepository) UpdateLine(ctx context.Context, line *models.CartLine) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE cart_items SET quantity = $1, total_amount = $2 WHERE id = $3`

	result, err := conn(ctx, r.DB).ExecContext(dbCtx, query, line.Quantity, line.TotalAmount, line.ID)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	return expectAffected(result, "cart item")
}

func (r *cartRepository) DeleteLine(ctx context.Context, lineID int64) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := conn(ctx, r.DB).ExecContext(dbCtx, `DELETE FROM cart_items WHERE id = $1`, lineID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	return expectAffected(result, "cart item")
}

func (r *cartRepository) DeleteLines(ctx context.Context, cartID int64) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if _, err := conn(ctx, r.DB).ExecContext(dbCtx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}

	return nil
}

func (r *cartRepository) UpdateTotal(ctx context.Context, cart *models.Cart) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE carts SET total_amount = $1, updated_at = NOW() WHERE id = $2`

	result, err := conn(ctx, r.DB).ExecContext(dbCtx, query, cart.TotalAmount, cart.ID)
	if err != nil {
		return fmt.Errorf("failed to update cart total: %w", err)
	}

	return expectAffected(result, "cart")
}

func expectAffected(result sql.Result, what string) error {

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for %s: %w", what, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", what, sql.ErrNoRows)
	}

	return nil
}

package repository

import (
	"context"
	"database/sql"

	"github.com/aaravmahajanofficial/online-bookstore/internal/models"
	"github.com/aaravmahajanofficial/online-bookstore/internal/utils"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO users (username, email, password, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	return conn(ctx, r.DB).QueryRowContext(dbCtx, query, user.Username, user.Email, user.Password, user.Name).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

// GetUserByUsername returns sql.ErrNoRows unwrapped when nobody has the username.
func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, username, email, password, name, created_at, updated_at
		FROM users
		WHERE username = $1`

	user := &models.User{}

	err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, username).
		Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, username, email, name, created_at, updated_at
		FROM users
		WHERE id = $1`

	user := &models.User{}

	err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return user, nil
}

package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/XSAM/otelsql"
	"github.com/aaravmahajanofficial/online-bookstore/internal/config"
	"github.com/aaravmahajanofficial/online-bookstore/internal/utils"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
)

//go:embed schema.sql
var schema string

type Repositories struct {
	DB    *sql.DB
	Tx    Transactor
	User  UserRepository
	Book  BookRepository
	Cart  CartRepository
	Order OrderRepository
}

func New(cfg *config.Config) (*Repositories, error) {

	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return NewRepositories(db), nil
}

// NewRepositories builds every repository over one pool.
func NewRepositories(db *sql.DB) *Repositories {
	tx := NewTransactor(db)

	return &Repositories{
		DB:    db,
		Tx:    tx,
		User:  NewUserRepo(db),
		Book:  NewBookRepo(db),
		Cart:  NewCartRepo(db),
		Order: NewOrderRepo(db, tx),
	}
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if _, err := db.ExecContext(dbCtx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	return nil
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}

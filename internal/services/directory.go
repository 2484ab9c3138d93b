package service

import (
	"context"
	"database/sql"
	"errors"

	appErrors "github.com/aaravmahajanofficial/online-bookstore/internal/errors"
	"github.com/aaravmahajanofficial/online-bookstore/internal/models"
	repository "github.com/aaravmahajanofficial/online-bookstore/internal/repositories"
)

// resolveUser maps an authenticated username to its user record.
func resolveUser(ctx context.Context, users repository.UserRepository, username string) (*models.User, error) {

	user, err := users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, lookupError(err, appErrors.UserNotFoundError("User not found"), "Failed to resolve user")
	}

	return user, nil
}

// lookupError turns sql.ErrNoRows into notFound and anything else into a database error.
func lookupError(err error, notFound *appErrors.AppError, failure string) error {

	if errors.Is(err, sql.ErrNoRows) {
		return notFound.WithError(err)
	}

	return appErrors.DatabaseError(failure).WithError(err)
}

// passAppError keeps an AppError raised inside a unit of work and wraps anything else.
func passAppError(err error, failure string) error {

	if _, ok := appErrors.IsAppError(err); ok {
		return err
	}

	return appErrors.DatabaseError(failure).WithError(err)
}

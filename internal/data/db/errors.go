package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	pkgerrors "github.com/shiplabel/shiplabel-backend/internal/pkg/errors"
)

// SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// TranslateError maps duplicate-key failures from either driver onto ErrConflict. Other errors
// pass through unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		msg := pgErr.Message
		if pgErr.Detail != "" {
			msg = pgErr.Detail
		}
		return fmt.Errorf("%s: %w", msg, pkgerrors.ErrConflict)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%v: %w", err, pkgerrors.ErrConflict)
	}
	return err
}

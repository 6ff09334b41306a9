package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/shiplabel/shiplabel-backend/internal/data/db"
	"github.com/shiplabel/shiplabel-backend/internal/data/repos/testutil"
	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	pkgerrors "github.com/shiplabel/shiplabel-backend/internal/pkg/errors"
)

func TestTranslateError(t *testing.T) {
	if db.TranslateError(nil) != nil {
		t.Fatalf("nil should stay nil")
	}

	pgErr := &pgconn.PgError{Code: "23505", Detail: "Key (name)=(ground) already exists."}
	if err := db.TranslateError(pgErr); !errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	other := &pgconn.PgError{Code: "23503"}
	if err := db.TranslateError(other); errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("foreign key error should pass through, got %v", err)
	}

	gdb := testutil.DB(t)
	ctx := context.Background()
	testutil.SeedServices(t, ctx, gdb)
	dup := &types.ShippingService{Name: types.ServiceGround, BasePrice: decimal.NewFromInt(1)}
	err := gdb.WithContext(ctx).Create(dup).Error
	if err == nil {
		t.Fatalf("expected unique violation from sqlite")
	}
	if !errors.Is(db.TranslateError(err), pkgerrors.ErrConflict) {
		t.Fatalf("sqlite duplicate should map to conflict, got %v", err)
	}
}

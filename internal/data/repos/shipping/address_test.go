package shipping

import (
	"context"
	"errors"
	"testing"

	"github.com/shiplabel/shiplabel-backend/internal/data/repos/testutil"
	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/dbctx"
	pkgerrors "github.com/shiplabel/shiplabel-backend/internal/pkg/errors"
)

func TestAddressRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewAddressRepo(db, testutil.Logger(t))

	a := &types.Address{FirstName: "A", AddressLine1: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701"}
	b := &types.Address{FirstName: "B", AddressLine1: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701"}
	if _, err := repo.Create(dbc, []*types.Address{a, b}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID == 0 || b.ID <= a.ID {
		t.Fatalf("expected increasing ids, got %d and %d", a.ID, b.ID)
	}

	found, err := repo.FindByKey(dbc, types.AddressKey{AddressLine1: "1 Main St", City: "Springfield", ZipCode: "62701"})
	if err != nil || found == nil {
		t.Fatalf("FindByKey: err=%v found=%v", err, found)
	}
	if found.ID != a.ID {
		t.Fatalf("FindByKey: expected oldest match %d, got %d", a.ID, found.ID)
	}

	// The key is exact: case and whitespace differences are distinct addresses.
	miss, err := repo.FindByKey(dbc, types.AddressKey{AddressLine1: "1 main st", City: "Springfield", ZipCode: "62701"})
	if err != nil || miss != nil {
		t.Fatalf("FindByKey case-sensitive: err=%v found=%v", err, miss)
	}

	a.Phone = "5551234567"
	if err := repo.Save(dbc, a); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.GetByID(dbc, a.ID)
	if err != nil || got.Phone != "5551234567" {
		t.Fatalf("GetByID after Save: err=%v got=%+v", err, got)
	}

	if rows, err := repo.List(dbc); err != nil || len(rows) != 2 {
		t.Fatalf("List: err=%v len=%d", err, len(rows))
	}

	if n, err := repo.DeleteByIDs(dbc, []uint{b.ID}); err != nil || n != 1 {
		t.Fatalf("DeleteByIDs: err=%v n=%d", err, n)
	}
	if _, err := repo.GetByID(dbc, b.ID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("GetByID deleted: expected ErrNotFound, got %v", err)
	}
}

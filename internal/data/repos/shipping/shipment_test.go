package shipping

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shiplabel/shiplabel-backend/internal/data/repos/testutil"
	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/dbctx"
)

func TestShipmentRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewShipmentRepo(db, testutil.Logger(t))

	to := testutil.SeedAddress(t, ctx, tx, "9 Elm St", "Austin", "78701")
	from := testutil.SeedAddress(t, ctx, tx, "1 Depot Rd", "Austin", "78702")
	pkg1 := testutil.SeedPackage(t, ctx, tx, 1, 0)
	pkg2 := testutil.SeedPackage(t, ctx, tx, 0, 8)
	priority, _ := testutil.SeedServices(t, ctx, tx)

	fromID := from.ID
	s1 := &types.Shipment{ShipToID: to.ID, ShipFromID: &fromID, PackageID: pkg1.ID, OrderNumber: "A"}
	s2 := &types.Shipment{ShipToID: to.ID, PackageID: pkg2.ID, OrderNumber: "B"}
	if _, err := repo.Create(dbc, []*types.Shipment{s1, s2}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s1.Status != types.StatusPending {
		t.Fatalf("expected default status pending, got %q", s1.Status)
	}

	got, err := repo.GetByID(dbc, s1.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ShipTo == nil || got.ShipFrom == nil || got.Package == nil {
		t.Fatalf("expected preloaded graph, got %+v", got)
	}
	if got.ShippingService != nil || got.ShippingPrice.Valid {
		t.Fatalf("expected no service and no price on a new shipment")
	}

	got.AssignService(priority, got.Package, func(svc *types.ShippingService, p *types.Package) decimal.Decimal {
		return svc.BasePrice.Add(svc.PerOzRate.Mul(decimal.NewFromInt(int64(p.TotalWeightOz()))))
	})
	if err := repo.Save(dbc, got); err != nil {
		t.Fatalf("Save: %v", err)
	}

	prices, err := repo.CachedPrices(dbc)
	if err != nil || len(prices) != 1 {
		t.Fatalf("CachedPrices: err=%v len=%d", err, len(prices))
	}
	if !prices[0].Equal(decimal.RequireFromString("6.60")) {
		t.Fatalf("CachedPrices: expected 6.60, got %s", prices[0])
	}

	owner, err := repo.GetByPackageID(dbc, pkg2.ID)
	if err != nil || owner == nil || owner.ID != s2.ID {
		t.Fatalf("GetByPackageID: err=%v owner=%v", err, owner)
	}

	byAddr, err := repo.GetByAddressIDs(dbc, []uint{from.ID})
	if err != nil || len(byAddr) != 1 || byAddr[0].ID != s1.ID {
		t.Fatalf("GetByAddressIDs(from): err=%v len=%d", err, len(byAddr))
	}
	byAddr, err = repo.GetByAddressIDs(dbc, []uint{to.ID})
	if err != nil || len(byAddr) != 2 {
		t.Fatalf("GetByAddressIDs(to): err=%v len=%d", err, len(byAddr))
	}

	if n, err := repo.DeleteByIDs(dbc, []uint{s1.ID, s2.ID, 9999}); err != nil || n != 2 {
		t.Fatalf("DeleteByIDs: err=%v n=%d", err, n)
	}
	if rows, err := repo.List(dbc); err != nil || len(rows) != 0 {
		t.Fatalf("List after delete: err=%v len=%d", err, len(rows))
	}
}

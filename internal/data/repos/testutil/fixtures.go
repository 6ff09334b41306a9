package testutil

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/shiplabel/shiplabel-backend/internal/domain"
)

func SeedAddress(tb testing.TB, ctx context.Context, tx *gorm.DB, line1, city, zip string) *types.Address {
	tb.Helper()
	a := &types.Address{
		FirstName:    "Jane",
		LastName:     "Doe",
		AddressLine1: line1,
		City:         city,
		State:        "CA",
		ZipCode:      zip,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed address: %v", err)
	}
	return a
}

func SeedPackage(tb testing.TB, ctx context.Context, tx *gorm.DB, lbs, oz int) *types.Package {
	tb.Helper()
	p := &types.Package{
		Length:    decimal.NewFromInt(6),
		Width:     decimal.NewFromInt(6),
		Height:    decimal.NewFromInt(6),
		WeightLbs: lbs,
		WeightOz:  oz,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed package: %v", err)
	}
	return p
}

// SeedServices inserts the standard priority and ground rate table.
func SeedServices(tb testing.TB, ctx context.Context, tx *gorm.DB) (priority, ground *types.ShippingService) {
	tb.Helper()
	priority = &types.ShippingService{
		Name:      types.ServicePriority,
		BasePrice: decimal.RequireFromString("5.00"),
		PerOzRate: decimal.RequireFromString("0.10"),
	}
	ground = &types.ShippingService{
		Name:      types.ServiceGround,
		BasePrice: decimal.RequireFromString("2.50"),
		PerOzRate: decimal.RequireFromString("0.05"),
	}
	if err := tx.WithContext(ctx).Create([]*types.ShippingService{priority, ground}).Error; err != nil {
		tb.Fatalf("seed services: %v", err)
	}
	return priority, ground
}

func SeedShipment(tb testing.TB, ctx context.Context, tx *gorm.DB, to *types.Address, pkg *types.Package) *types.Shipment {
	tb.Helper()
	s := &types.Shipment{
		ShipToID:    to.ID,
		PackageID:   pkg.ID,
		OrderNumber: "ORD-TEST",
		Status:      types.StatusPending,
	}
	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(s).Error; err != nil {
		tb.Fatalf("seed shipment: %v", err)
	}
	return s
}

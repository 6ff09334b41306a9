package db

import (
	"gorm.io/gorm"

	types "github.com/shiplabel/shiplabel-backend/internal/domain"
)

// Models lists every persisted type in dependency order.
func Models() []any {
	return []any{
		&types.Address{},
		&types.Package{},
		&types.ShippingService{},
		&types.Shipment{},
		&types.SavedAddress{},
		&types.SavedPackage{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

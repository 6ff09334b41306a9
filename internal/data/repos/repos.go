package repos

import (
	"gorm.io/gorm"

	"github.com/shiplabel/shiplabel-backend/internal/data/repos/shipping"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
)

type AddressRepo = shipping.AddressRepo
type PackageRepo = shipping.PackageRepo
type ShipmentRepo = shipping.ShipmentRepo
type ShippingServiceRepo = shipping.ShippingServiceRepo
type SavedAddressRepo = shipping.SavedAddressRepo
type SavedPackageRepo = shipping.SavedPackageRepo

func NewAddressRepo(db *gorm.DB, baseLog *logger.Logger) AddressRepo {
	return shipping.NewAddressRepo(db, baseLog)
}

func NewPackageRepo(db *gorm.DB, baseLog *logger.Logger) PackageRepo {
	return shipping.NewPackageRepo(db, baseLog)
}

func NewShipmentRepo(db *gorm.DB, baseLog *logger.Logger) ShipmentRepo {
	return shipping.NewShipmentRepo(db, baseLog)
}

func NewShippingServiceRepo(db *gorm.DB, baseLog *logger.Logger) ShippingServiceRepo {
	return shipping.NewShippingServiceRepo(db, baseLog)
}

func NewSavedAddressRepo(db *gorm.DB, baseLog *logger.Logger) SavedAddressRepo {
	return shipping.NewSavedAddressRepo(db, baseLog)
}

func NewSavedPackageRepo(db *gorm.DB, baseLog *logger.Logger) SavedPackageRepo {
	return shipping.NewSavedPackageRepo(db, baseLog)
}

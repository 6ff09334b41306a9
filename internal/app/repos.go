package app

import (
	"gorm.io/gorm"

	"github.com/shiplabel/shiplabel-backend/internal/data/repos"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
)

type Repos struct {
	Address         repos.AddressRepo
	Package         repos.PackageRepo
	Shipment        repos.ShipmentRepo
	ShippingService repos.ShippingServiceRepo
	SavedAddress    repos.SavedAddressRepo
	SavedPackage    repos.SavedPackageRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Address:         repos.NewAddressRepo(db, log),
		Package:         repos.NewPackageRepo(db, log),
		Shipment:        repos.NewShipmentRepo(db, log),
		ShippingService: repos.NewShippingServiceRepo(db, log),
		SavedAddress:    repos.NewSavedAddressRepo(db, log),
		SavedPackage:    repos.NewSavedPackageRepo(db, log),
	}
}

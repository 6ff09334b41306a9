package app

import (
	httpH "github.com/shiplabel/shiplabel-backend/internal/http/handlers"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
)

type Handlers struct {
	Health          *httpH.HealthHandler
	Address         *httpH.AddressHandler
	Package         *httpH.PackageHandler
	Saved           *httpH.SavedHandler
	ShippingService *httpH.ShippingServiceHandler
	Shipment        *httpH.ShipmentHandler
	Upload          *httpH.UploadHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:          httpH.NewHealthHandler(),
		Address:         httpH.NewAddressHandler(log, services.Address),
		Package:         httpH.NewPackageHandler(log, services.Package),
		Saved:           httpH.NewSavedHandler(log, services.Saved),
		ShippingService: httpH.NewShippingServiceHandler(log, services.Catalog),
		Shipment:        httpH.NewShipmentHandler(log, services.Shipment),
		Upload:          httpH.NewUploadHandler(log, services.Upload, cfg.UploadMaxBytes),
	}
}

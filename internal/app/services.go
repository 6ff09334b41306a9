package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/shiplabel/shiplabel-backend/internal/observability"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/dbctx"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
	"github.com/shiplabel/shiplabel-backend/internal/platform/addressval"
	"github.com/shiplabel/shiplabel-backend/internal/services"
)

type Services struct {
	Address   services.AddressService
	Package   services.PackageService
	Shipment  services.ShipmentService
	Upload    services.UploadService
	Catalog   services.CatalogService
	Saved     services.SavedService
	Seed      services.SeedService
	Validator *addressval.Validator

	// closers release clients opened while wiring, in order.
	closers []func() error
}

func wireValidator(ctx context.Context, log *logger.Logger, cfg Config, metrics *observability.Metrics) (*addressval.Validator, func() error) {
	av := cfg.AddressValidation
	providers := addressval.Chain(log,
		addressval.USPSConfig{
			ClientConfig: addressval.ClientConfig{BaseURL: av.USPSBaseURL, Timeout: av.Timeout, MaxRetries: av.Retries},
			Token:        av.USPSToken,
		},
		addressval.SmartyConfig{
			ClientConfig: addressval.ClientConfig{BaseURL: av.SmartyBaseURL, Timeout: av.Timeout, MaxRetries: av.Retries},
			AuthID:       av.SmartyAuthID,
			AuthToken:    av.SmartyAuthToken,
		},
	)

	var (
		cache   addressval.Cache
		closeFn func() error
	)
	if cfg.RedisAddr != "" {
		c, closer, err := addressval.NewRedisCache(ctx, cfg.RedisAddr, av.CacheTTL)
		if err != nil {
			log.Warn("address cache disabled", "redis_addr", cfg.RedisAddr, "error", err)
		} else {
			cache, closeFn = c, closer
		}
	}

	v := addressval.New(log, cache, providers...).WithRecorder(metrics)
	log.Info("Address validation providers", "providers", v.Providers(), "cache", cache != nil)
	return v, closeFn
}

func wireServices(ctx context.Context, db *gorm.DB, log *logger.Logger, cfg Config, r Repos, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	txr := dbctx.NewTransactor(db)

	validator, closeCache := wireValidator(ctx, log, cfg, metrics)
	out := Services{Validator: validator}
	if closeCache != nil {
		out.closers = append(out.closers, closeCache)
	}

	out.Address = services.NewAddressService(txr, log, r.Address, r.Package, r.Shipment, r.SavedAddress)
	out.Package = services.NewPackageService(txr, log, r.Package, r.Shipment, r.SavedPackage)
	out.Shipment = services.NewShipmentService(txr, log, r.Shipment, r.Address, r.Package, r.ShippingService, r.SavedPackage, validator)
	out.Upload = services.NewUploadService(txr, log, metrics, out.Address, r.Package, r.Shipment)
	out.Catalog = services.NewCatalogService(log, r.ShippingService)
	out.Saved = services.NewSavedService(txr, log, r.Address, r.Package, r.SavedAddress, r.SavedPackage)
	out.Seed = services.NewSeedService(txr, log, r.ShippingService, r.Address, r.Package, r.SavedAddress, r.SavedPackage)
	return out
}

package app

import (
	"github.com/gin-gonic/gin"

	"github.com/shiplabel/shiplabel-backend/internal/http"
	"github.com/shiplabel/shiplabel-backend/internal/observability"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
)

func routerConfig(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) http.RouterConfig {
	rc := http.RouterConfig{
		Log:                    log,
		Metrics:                metrics,
		AllowedOrigins:         cfg.CORSOrigins,
		HealthHandler:          handlers.Health,
		AddressHandler:         handlers.Address,
		PackageHandler:         handlers.Package,
		SavedHandler:           handlers.Saved,
		ShippingServiceHandler: handlers.ShippingService,
		ShipmentHandler:        handlers.Shipment,
		UploadHandler:          handlers.Upload,
	}
	if cfg.OpenTelemetry.Enabled {
		rc.TracingService = cfg.OpenTelemetry.ServiceName
	}
	return rc
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *gin.Engine {
	return http.NewRouter(routerConfig(log, cfg, handlers, metrics))
}

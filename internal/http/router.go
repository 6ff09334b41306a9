package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/shiplabel/shiplabel-backend/internal/http/handlers"
	httpMW "github.com/shiplabel/shiplabel-backend/internal/http/middleware"
	"github.com/shiplabel/shiplabel-backend/internal/observability"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	AllowedOrigins []string
	// TracingService enables otelgin spans under this service name when non-empty.
	TracingService string

	HealthHandler          *httpH.HealthHandler
	AddressHandler         *httpH.AddressHandler
	PackageHandler         *httpH.PackageHandler
	SavedHandler           *httpH.SavedHandler
	ShippingServiceHandler *httpH.ShippingServiceHandler
	ShipmentHandler        *httpH.ShipmentHandler
	UploadHandler          *httpH.UploadHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/", cfg.HealthHandler.Root)
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		if h := cfg.AddressHandler; h != nil {
			api.GET("/addresses/", h.List)
			api.POST("/addresses/", h.Create)
			api.GET("/addresses/:id/", h.Get)
			api.PATCH("/addresses/:id/", h.Update)
			api.PUT("/addresses/:id/", h.Update)
			api.DELETE("/addresses/:id/", h.Delete)
		}

		if h := cfg.PackageHandler; h != nil {
			api.GET("/packages/", h.List)
			api.POST("/packages/", h.Create)
			api.GET("/packages/:id/", h.Get)
			api.PATCH("/packages/:id/", h.Update)
			api.PUT("/packages/:id/", h.Update)
			api.DELETE("/packages/:id/", h.Delete)
		}

		// Saved presets
		if h := cfg.SavedHandler; h != nil {
			api.GET("/saved-addresses/", h.ListAddresses)
			api.POST("/saved-addresses/", h.CreateAddress)
			api.GET("/saved-addresses/:id/", h.GetAddress)
			api.DELETE("/saved-addresses/:id/", h.DeleteAddress)

			api.GET("/saved-packages/", h.ListPackages)
			api.POST("/saved-packages/", h.CreatePackage)
			api.GET("/saved-packages/:id/", h.GetPackage)
			api.DELETE("/saved-packages/:id/", h.DeletePackage)
		}

		if h := cfg.ShippingServiceHandler; h != nil {
			api.GET("/shipping-services/", h.List)
			api.GET("/shipping-services/:id/", h.Get)
		}

		if h := cfg.UploadHandler; h != nil {
			api.POST("/shipments/upload_csv/", h.UploadCSV)
		}

		if h := cfg.ShipmentHandler; h != nil {
			api.GET("/shipments/", h.List)
			api.POST("/shipments/", h.Create)
			api.GET("/shipments/total_price/", h.TotalPrice)
			api.POST("/shipments/bulk_update/", h.BulkUpdate)
			api.POST("/shipments/bulk_delete/", h.BulkDelete)
			api.POST("/shipments/bulk_update_shipping_service/", h.BulkUpdateShippingService)
			api.POST("/shipments/bulk_validate_addresses/", h.BulkValidateAddresses)
			api.GET("/shipments/:id/", h.Get)
			api.PATCH("/shipments/:id/", h.Update)
			api.PUT("/shipments/:id/", h.Update)
			api.DELETE("/shipments/:id/", h.Delete)
			api.POST("/shipments/:id/validate_address/", h.ValidateAddress)
		}
	}

	return r
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/shiplabel/shiplabel-backend/internal/http/response"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
	"github.com/shiplabel/shiplabel-backend/internal/services"
)

type ShippingServiceHandler struct {
	log     *logger.Logger
	catalog services.CatalogService
}

func NewShippingServiceHandler(log *logger.Logger, catalog services.CatalogService) *ShippingServiceHandler {
	return &ShippingServiceHandler{log: log.With("handler", "ShippingServiceHandler"), catalog: catalog}
}

// GET /api/shipping-services/
func (h *ShippingServiceHandler) List(c *gin.Context) {
	rows, err := h.catalog.List(requestDBC(c))
	if err != nil {
		response.RespondServiceError(c, "list_services_failed", err)
		return
	}
	out := make([]*ShippingServiceView, 0, len(rows))
	for _, s := range rows {
		out = append(out, shippingServiceView(s))
	}
	response.RespondOK(c, out)
}

// GET /api/shipping-services/:id/
func (h *ShippingServiceHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	svc, err := h.catalog.Get(requestDBC(c), id)
	if err != nil {
		response.RespondServiceError(c, "load_service_failed", err)
		return
	}
	response.RespondOK(c, shippingServiceView(svc))
}

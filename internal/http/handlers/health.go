package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	apiName    = "Shipping Label Creation API"
	apiVersion = "1.0.0"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    apiName,
		"version": apiVersion,
		"status":  "active",
		"endpoints": gin.H{
			"shipments":         "/api/shipments/",
			"upload_csv":        "/api/shipments/upload_csv/",
			"addresses":         "/api/addresses/",
			"packages":          "/api/packages/",
			"saved_addresses":   "/api/saved-addresses/",
			"saved_packages":    "/api/saved-packages/",
			"shipping_services": "/api/shipping-services/",
			"total_price":       "/api/shipments/total_price/",
		},
	})
}

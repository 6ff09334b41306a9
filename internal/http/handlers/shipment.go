package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/http/response"
	"github.com/shiplabel/shiplabel-backend/internal/modules/shipping/pricing"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
	"github.com/shiplabel/shiplabel-backend/internal/platform/apierr"
	"github.com/shiplabel/shiplabel-backend/internal/services"
)

type ShipmentHandler struct {
	log       *logger.Logger
	shipments services.ShipmentService
}

func NewShipmentHandler(log *logger.Logger, shipments services.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{log: log.With("handler", "ShipmentHandler"), shipments: shipments}
}

// bulkError writes the flat {"error": ...} body the bulk actions use.
func bulkError(c *gin.Context, err error, msg string) {
	ae := apierr.From(err, "bulk_action_failed")
	if msg == "" {
		msg = err.Error()
	}
	c.JSON(ae.Status, gin.H{"error": msg})
}

// GET /api/shipments/
func (h *ShipmentHandler) List(c *gin.Context) {
	rows, err := h.shipments.List(requestDBC(c))
	if err != nil {
		response.RespondServiceError(c, "list_shipments_failed", err)
		return
	}
	response.RespondOK(c, shipmentViews(rows))
}

// POST /api/shipments/
func (h *ShipmentHandler) Create(c *gin.Context) {
	var in types.ShipmentInput
	if !bindJSON(c, &in) {
		return
	}
	h.log.Info("Creating new shipment")
	sh, err := h.shipments.Create(requestDBC(c), in)
	if err != nil {
		response.RespondServiceError(c, "create_shipment_failed", err)
		return
	}
	response.RespondCreated(c, shipmentView(sh))
}

// GET /api/shipments/:id/
func (h *ShipmentHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	sh, err := h.shipments.Get(requestDBC(c), id)
	if err != nil {
		response.RespondServiceError(c, "load_shipment_failed", err)
		return
	}
	response.RespondOK(c, shipmentView(sh))
}

// PATCH|PUT /api/shipments/:id/
func (h *ShipmentHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch types.ShipmentPatch
	if !bindPatch(c, &patch) {
		return
	}
	h.log.Info("Updating shipment", "shipment_id", id)
	sh, err := h.shipments.Update(requestDBC(c), id, patch)
	if err != nil {
		response.RespondServiceError(c, "update_shipment_failed", err)
		return
	}
	response.RespondOK(c, shipmentView(sh))
}

// DELETE /api/shipments/:id/
func (h *ShipmentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.shipments.Delete(requestDBC(c), id); err != nil {
		response.RespondServiceError(c, "delete_shipment_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

type validateAddressRequest struct {
	Type string `json:"type"`
}

type validateAddressResponse struct {
	ShipmentID       uint         `json:"shipment_id,omitempty"`
	IsValid          bool         `json:"is_valid"`
	ValidatedAddress *AddressView `json:"validated_address"`
	Error            *string      `json:"error"`
}

func validationView(v *services.AddressValidation, withID bool) validateAddressResponse {
	out := validateAddressResponse{
		IsValid:          v.IsValid,
		ValidatedAddress: addressView(v.ValidatedAddress),
		Error:            v.Error,
	}
	if withID {
		out.ShipmentID = v.ShipmentID
	}
	return out
}

// POST /api/shipments/:id/validate_address/
func (h *ShipmentHandler) ValidateAddress(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req validateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	side := req.Type
	if side == "" {
		side = services.SideTo
	}

	res, err := h.shipments.ValidateAddress(requestDBC(c), id, side)
	if err != nil {
		if errors.Is(err, services.ErrMissingAddress) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ship " + side + " address not found"})
			return
		}
		response.RespondServiceError(c, "validate_address_failed", err)
		return
	}
	c.JSON(http.StatusOK, validationView(res, false))
}

type bulkValidateRequest struct {
	IDs  []uint `json:"ids"`
	Type string `json:"type"`
}

// POST /api/shipments/bulk_validate_addresses/
func (h *ShipmentHandler) BulkValidateAddresses(c *gin.Context) {
	var req bulkValidateRequest
	if !bindJSON(c, &req) {
		return
	}
	rows, err := h.shipments.BulkValidateAddresses(requestDBC(c), req.IDs, req.Type)
	if err != nil {
		bulkError(c, err, "")
		return
	}
	out := make([]validateAddressResponse, 0, len(rows))
	validated := 0
	for _, r := range rows {
		if r.IsValid {
			validated++
		}
		out = append(out, validationView(r, true))
	}
	c.JSON(http.StatusOK, gin.H{"results": out, "validated": validated})
}

type bulkUpdateRequest struct {
	IDs     []uint          `json:"ids"`
	Updates json.RawMessage `json:"updates"`
}

// POST /api/shipments/bulk_update/
func (h *ShipmentHandler) BulkUpdate(c *gin.Context) {
	var req bulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var patch types.ShipmentPatch
	if len(req.Updates) > 0 {
		if err := types.DecodePatch(req.Updates, &patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	n, err := h.shipments.BulkUpdate(requestDBC(c), req.IDs, patch)
	if err != nil {
		bulkError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

type bulkDeleteRequest struct {
	IDs []uint `json:"ids"`
}

// POST /api/shipments/bulk_delete/
func (h *ShipmentHandler) BulkDelete(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := h.shipments.BulkDelete(requestDBC(c), req.IDs)
	if err != nil {
		bulkError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

type bulkServiceRequest struct {
	IDs       []uint `json:"ids"`
	ServiceID *uint  `json:"service_id"`
	Option    string `json:"option"`
}

// POST /api/shipments/bulk_update_shipping_service/
func (h *ShipmentHandler) BulkUpdateShippingService(c *gin.Context) {
	var req bulkServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := h.shipments.BulkAssignService(requestDBC(c), req.IDs, req.Option, req.ServiceID)
	if err != nil {
		if pricing.IsUnresolvable(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service option"})
			return
		}
		bulkError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// GET /api/shipments/total_price/
func (h *ShipmentHandler) TotalPrice(c *gin.Context) {
	total, err := h.shipments.TotalPrice(requestDBC(c))
	if err != nil {
		response.RespondServiceError(c, "total_price_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": json.Number(total.StringFixed(2))})
}

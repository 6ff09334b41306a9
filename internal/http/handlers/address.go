package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/http/response"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
	"github.com/shiplabel/shiplabel-backend/internal/services"
)

type AddressHandler struct {
	log       *logger.Logger
	addresses services.AddressService
}

func NewAddressHandler(log *logger.Logger, addresses services.AddressService) *AddressHandler {
	return &AddressHandler{log: log.With("handler", "AddressHandler"), addresses: addresses}
}

// GET /api/addresses/
func (h *AddressHandler) List(c *gin.Context) {
	rows, err := h.addresses.List(requestDBC(c))
	if err != nil {
		response.RespondServiceError(c, "list_addresses_failed", err)
		return
	}
	out := make([]*AddressView, 0, len(rows))
	for _, a := range rows {
		out = append(out, addressView(a))
	}
	response.RespondOK(c, out)
}

// POST /api/addresses/
func (h *AddressHandler) Create(c *gin.Context) {
	var draft types.AddressDraft
	if !bindJSON(c, &draft) {
		return
	}
	addr, err := h.addresses.Create(requestDBC(c), draft)
	if err != nil {
		response.RespondServiceError(c, "create_address_failed", err)
		return
	}
	response.RespondCreated(c, addressView(addr))
}

// GET /api/addresses/:id/
func (h *AddressHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	addr, err := h.addresses.Get(requestDBC(c), id)
	if err != nil {
		response.RespondServiceError(c, "load_address_failed", err)
		return
	}
	response.RespondOK(c, addressView(addr))
}

// PATCH|PUT /api/addresses/:id/
func (h *AddressHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch types.AddressPatch
	if !bindPatch(c, &patch) {
		return
	}
	addr, err := h.addresses.Update(requestDBC(c), id, patch)
	if err != nil {
		response.RespondServiceError(c, "update_address_failed", err)
		return
	}
	response.RespondOK(c, addressView(addr))
}

// DELETE /api/addresses/:id/
func (h *AddressHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.addresses.Delete(requestDBC(c), id); err != nil {
		response.RespondServiceError(c, "delete_address_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

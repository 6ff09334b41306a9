package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/http/response"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
	"github.com/shiplabel/shiplabel-backend/internal/services"
)

type SavedHandler struct {
	log   *logger.Logger
	saved services.SavedService
}

func NewSavedHandler(log *logger.Logger, saved services.SavedService) *SavedHandler {
	return &SavedHandler{log: log.With("handler", "SavedHandler"), saved: saved}
}

type createSavedAddressRequest struct {
	Name    string             `json:"name"`
	Address types.AddressDraft `json:"address"`
}

type createSavedPackageRequest struct {
	Name    string             `json:"name"`
	Package types.PackageDraft `json:"package"`
}

// GET /api/saved-addresses/
func (h *SavedHandler) ListAddresses(c *gin.Context) {
	rows, err := h.saved.ListAddresses(requestDBC(c))
	if err != nil {
		response.RespondServiceError(c, "list_saved_addresses_failed", err)
		return
	}
	out := make([]*SavedAddressView, 0, len(rows))
	for _, s := range rows {
		out = append(out, savedAddressView(s))
	}
	response.RespondOK(c, out)
}

// POST /api/saved-addresses/
func (h *SavedHandler) CreateAddress(c *gin.Context) {
	var req createSavedAddressRequest
	if !bindJSON(c, &req) {
		return
	}
	h.log.Info("Creating saved address", "name", req.Name)
	saved, err := h.saved.CreateAddress(requestDBC(c), req.Name, req.Address)
	if err != nil {
		response.RespondServiceError(c, "create_saved_address_failed", err)
		return
	}
	response.RespondCreated(c, savedAddressView(saved))
}

// GET /api/saved-addresses/:id/
func (h *SavedHandler) GetAddress(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	saved, err := h.saved.GetAddress(requestDBC(c), id)
	if err != nil {
		response.RespondServiceError(c, "load_saved_address_failed", err)
		return
	}
	response.RespondOK(c, savedAddressView(saved))
}

// DELETE /api/saved-addresses/:id/
func (h *SavedHandler) DeleteAddress(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.saved.DeleteAddress(requestDBC(c), id); err != nil {
		response.RespondServiceError(c, "delete_saved_address_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/saved-packages/
func (h *SavedHandler) ListPackages(c *gin.Context) {
	rows, err := h.saved.ListPackages(requestDBC(c))
	if err != nil {
		response.RespondServiceError(c, "list_saved_packages_failed", err)
		return
	}
	out := make([]*SavedPackageView, 0, len(rows))
	for _, s := range rows {
		out = append(out, savedPackageView(s))
	}
	response.RespondOK(c, out)
}

// POST /api/saved-packages/
func (h *SavedHandler) CreatePackage(c *gin.Context) {
	var req createSavedPackageRequest
	if !bindJSON(c, &req) {
		return
	}
	h.log.Info("Creating saved package", "name", req.Name)
	saved, err := h.saved.CreatePackage(requestDBC(c), req.Name, req.Package)
	if err != nil {
		response.RespondServiceError(c, "create_saved_package_failed", err)
		return
	}
	response.RespondCreated(c, savedPackageView(saved))
}

// GET /api/saved-packages/:id/
func (h *SavedHandler) GetPackage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	saved, err := h.saved.GetPackage(requestDBC(c), id)
	if err != nil {
		response.RespondServiceError(c, "load_saved_package_failed", err)
		return
	}
	response.RespondOK(c, savedPackageView(saved))
}

// DELETE /api/saved-packages/:id/
func (h *SavedHandler) DeletePackage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.saved.DeletePackage(requestDBC(c), id); err != nil {
		response.RespondServiceError(c, "delete_saved_package_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

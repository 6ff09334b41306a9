package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/http/response"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
	"github.com/shiplabel/shiplabel-backend/internal/services"
)

type PackageHandler struct {
	log      *logger.Logger
	packages services.PackageService
}

func NewPackageHandler(log *logger.Logger, packages services.PackageService) *PackageHandler {
	return &PackageHandler{log: log.With("handler", "PackageHandler"), packages: packages}
}

// GET /api/packages/
func (h *PackageHandler) List(c *gin.Context) {
	rows, err := h.packages.List(requestDBC(c))
	if err != nil {
		response.RespondServiceError(c, "list_packages_failed", err)
		return
	}
	out := make([]*PackageView, 0, len(rows))
	for _, p := range rows {
		out = append(out, packageView(p))
	}
	response.RespondOK(c, out)
}

// POST /api/packages/
func (h *PackageHandler) Create(c *gin.Context) {
	var draft types.PackageDraft
	if !bindJSON(c, &draft) {
		return
	}
	pkg, err := h.packages.Create(requestDBC(c), draft)
	if err != nil {
		response.RespondServiceError(c, "create_package_failed", err)
		return
	}
	response.RespondCreated(c, packageView(pkg))
}

// GET /api/packages/:id/
func (h *PackageHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	pkg, err := h.packages.Get(requestDBC(c), id)
	if err != nil {
		response.RespondServiceError(c, "load_package_failed", err)
		return
	}
	response.RespondOK(c, packageView(pkg))
}

// PATCH|PUT /api/packages/:id/
func (h *PackageHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch types.PackagePatch
	if !bindPatch(c, &patch) {
		return
	}
	pkg, err := h.packages.Update(requestDBC(c), id, patch)
	if err != nil {
		response.RespondServiceError(c, "update_package_failed", err)
		return
	}
	response.RespondOK(c, packageView(pkg))
}

// DELETE /api/packages/:id/
func (h *PackageHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.packages.Delete(requestDBC(c), id); err != nil {
		response.RespondServiceError(c, "delete_package_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

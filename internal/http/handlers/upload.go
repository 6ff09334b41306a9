package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shiplabel/shiplabel-backend/internal/modules/shipping/ingestion"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
	"github.com/shiplabel/shiplabel-backend/internal/services"
)

type UploadHandler struct {
	log      *logger.Logger
	uploads  services.UploadService
	maxBytes int64
}

func NewUploadHandler(log *logger.Logger, uploads services.UploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{log: log.With("handler", "UploadHandler"), uploads: uploads, maxBytes: maxBytes}
}

func (h *UploadHandler) readFile(c *gin.Context) ([]byte, string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, "", err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fh.Filename, err
	}
	defer f.Close()

	r := io.Reader(f)
	if h.maxBytes > 0 {
		r = io.LimitReader(f, h.maxBytes+1)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fh.Filename, err
	}
	if h.maxBytes > 0 && int64(len(raw)) > h.maxBytes {
		return nil, fh.Filename, fmt.Errorf("file exceeds %d bytes", h.maxBytes)
	}
	return raw, fh.Filename, nil
}

// POST /api/shipments/upload_csv/
func (h *UploadHandler) UploadCSV(c *gin.Context) {
	h.log.Info("CSV upload requested")

	if _, err := c.FormFile("file"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	raw, filename, err := h.readFile(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV parsing failed: " + err.Error()})
		return
	}

	res, err := h.uploads.Upload(c.Request.Context(), raw, filename)
	if err != nil {
		var uerr *services.UploadError
		var ierr *ingestion.IngestError
		switch {
		case errors.As(err, &uerr) && errors.Is(err, services.ErrNoValidShipments):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No valid shipments found in CSV", "errors": uerr.Result.Errors})
		case errors.As(err, &uerr):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create any shipments", "errors": uerr.Result.Errors})
		case errors.As(err, &ierr):
			h.log.Warn("CSV parsing error", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "CSV parsing failed: " + ierr.Error()})
		default:
			h.log.Error("CSV upload failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed: " + err.Error()})
		}
		return
	}

	errs := res.Errors
	if errs == nil {
		errs = []string{}
	}
	c.JSON(http.StatusCreated, gin.H{
		"shipments": shipmentViews(res.Shipments),
		"count":     len(res.Shipments),
		"errors":    errs,
	})
}

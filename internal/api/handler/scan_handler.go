package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/aislescan/aislescan/internal/core/domain"
	"github.com/aislescan/aislescan/internal/core/ports"
)

// ScanHandler handles saving and retrieving food-label scans.
type ScanHandler struct {
	service ports.ScanService
}

func NewScanHandler(service ports.ScanService) *ScanHandler {
	return &ScanHandler{service: service}
}

type saveScanRequest struct {
	ProductName  string          `json:"product_name"  validate:"required"`
	ImageURI     string          `json:"image_uri"     validate:"required"`
	AnalysisData json.RawMessage `json:"analysis_data" validate:"required"`
}

type scanEnvelope struct {
	Success bool         `json:"success"`
	Scan    *domain.Scan `json:"scan"`
}

type scanListEnvelope struct {
	Success bool           `json:"success"`
	Scans   []*domain.Scan `json:"scans"`
}

// Save persists a scan for the authenticated user. Repeated saves carrying
// the same Idempotency-Key return the originally created record.
//
// @Summary      Save a food-label scan
// @Tags         scans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string           false  "Idempotency key to prevent duplicate saves"
// @Param        body             body      saveScanRequest  true   "Scan details"
// @Success      201              {object}  scanEnvelope
// @Failure      400              {object}  map[string]string
// @Failure      401              {object}  map[string]string
// @Router       /api/scans [post]
func (h *ScanHandler) Save(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req saveScanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	scan, err := h.service.Save(c.Request().Context(), userID, ports.SaveScanInput{
		ProductName:    req.ProductName,
		ImageURI:       req.ImageURI,
		Analysis:       req.AnalysisData,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, scanEnvelope{Success: true, Scan: scan})
}

// List returns the authenticated user's scans, newest first.
//
// @Summary      List saved scans
// @Tags         scans
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  scanListEnvelope
// @Failure      401  {object}  map[string]string
// @Router       /api/scans [get]
func (h *ScanHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	scans, err := h.service.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, scanListEnvelope{Success: true, Scans: scans})
}

// Get returns a single scan by id, scoped to the authenticated user. A scan
// owned by someone else is a 404, never a leak.
//
// @Summary      Get a scan by id
// @Tags         scans
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Scan id"
// @Success      200  {object}  scanEnvelope
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/scans/{id} [get]
func (h *ScanHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	scanID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "scan not found"})
	}

	scan, err := h.service.Get(c.Request().Context(), userID, scanID)
	if err != nil {
		if errors.Is(err, domain.ErrScanNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "scan not found"})
		}
		return err
	}

	return c.JSON(http.StatusOK, scanEnvelope{Success: true, Scan: scan})
}

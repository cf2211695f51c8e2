// Package server exposes the coverage resolution engine over HTTP.
package server

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/covermap/covermap/internal/coverage"
	"github.com/covermap/covermap/internal/errors"
	"github.com/covermap/covermap/internal/geo"
	"github.com/covermap/covermap/internal/geocoding"
	"github.com/covermap/covermap/internal/telemetry"
)

// Geocoder is the external collaborator resolving addresses to points and
// back.
type Geocoder interface {
	Search(ctx context.Context, query string) (geo.Point, error)
	Reverse(ctx context.Context, point geo.Point) (geocoding.Address, error)
}

// Handler serves the coverage endpoints.
type Handler struct {
	geocoder Geocoder
	provider *coverage.Provider
	resolver *coverage.Resolver
	metrics  *Metrics
}

// NewHandler creates the HTTP handler set over the engine components.
func NewHandler(geocoder Geocoder, provider *coverage.Provider, resolver *coverage.Resolver, metrics *Metrics) *Handler {
	return &Handler{
		geocoder: geocoder,
		provider: provider,
		resolver: resolver,
		metrics:  metrics,
	}
}

// NetworkCoverage handles GET /network_coverage?addr=...: geocode the address
// and return the closest coverage site per operator.
func (h *Handler) NetworkCoverage(c *gin.Context) {
	addr := c.Query("addr")
	if addr == "" {
		h.respondError(c, errors.NewValidationError("addr", "Query parameter 'addr' is required"))
		return
	}

	ctx := c.Request.Context()
	start := time.Now()

	point, err := h.geocoder.Search(ctx, addr)
	if err != nil {
		h.metrics.recordResolution(ctx, "geocoding_failed", durationMs(start))
		h.respondError(c, err)
		return
	}

	catalog, err := h.provider.Catalog(ctx)
	if err != nil {
		h.metrics.recordResolution(ctx, "catalog_failed", durationMs(start))
		h.respondError(c, err)
		return
	}

	result, err := h.resolver.Resolve(catalog, point)
	if err != nil {
		h.metrics.recordResolution(ctx, "no_coverage", durationMs(start))
		h.respondError(c, err)
		return
	}

	h.metrics.recordResolution(ctx, "ok", durationMs(start))
	c.JSON(http.StatusOK, result)
}

// AddressFromWGS84 handles GET /address_from_wsg84?lon=..&lat=..: reverse
// geocode the point, useful for checking the coordinate fits returned by the
// coverage endpoint.
func (h *Handler) AddressFromWGS84(c *gin.Context) {
	lon, err := parseCoordinate(c.Query("lon"), "lon", -180, 180)
	if err != nil {
		h.respondError(c, err)
		return
	}
	lat, err := parseCoordinate(c.Query("lat"), "lat", -90, 90)
	if err != nil {
		h.respondError(c, err)
		return
	}

	address, err := h.geocoder.Reverse(c.Request.Context(), geo.Point{Lon: lon, Lat: lat})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, address)
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "covermap"})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	appErr := errors.AsAppError(err)
	if appErr.CorrelationID == "" {
		appErr = appErr.WithCorrelationID(telemetry.GetCorrelationID(ctx))
	}

	entry := telemetry.LogFromContext(ctx).WithFields(map[string]interface{}{
		"error_type": string(appErr.Type),
		"error_code": appErr.Code,
		"path":       c.Request.URL.Path,
	})
	switch appErr.Type {
	case errors.ErrorTypeNotFound, errors.ErrorTypeValidation:
		entry.Info(appErr.Message)
	default:
		entry.Error(appErr.Error())
	}

	c.JSON(appErr.HTTPStatus, gin.H{"error": appErr})
}

func parseCoordinate(raw, field string, min, max float64) (float64, error) {
	if raw == "" {
		return 0, errors.NewValidationError(field, "Query parameter '"+field+"' is required")
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errors.NewValidationError(field, "Query parameter '"+field+"' must be a number")
	}
	if value < min || value > max {
		return 0, errors.NewValidationError(field, "Query parameter '"+field+"' is out of range")
	}
	return value, nil
}

func durationMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

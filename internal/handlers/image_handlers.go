// Package handlers serves the image and health endpoints.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rmitchellscott/hass-render/internal/cache"
	"github.com/rmitchellscott/hass-render/internal/display"
	"github.com/rmitchellscott/hass-render/internal/entity"
	"github.com/rmitchellscott/hass-render/internal/imageprocessing"
	"github.com/rmitchellscott/hass-render/internal/logging"
	"github.com/rmitchellscott/hass-render/internal/metrics"
	"github.com/rmitchellscott/hass-render/internal/middleware"
	"github.com/rmitchellscott/hass-render/internal/rendering"
)

// EntitySource supplies entity records in request order. Entities that
// cannot be fetched come back as unavailable placeholders.
type EntitySource interface {
	Records(ctx context.Context, entityIDs []string) []entity.Record
}

// Renderer runs a render request, typically through the worker pool.
type Renderer interface {
	Render(ctx context.Context, req rendering.Request) (*rendering.Result, error)
}

// ImageHandler serves the PNG endpoints.
type ImageHandler struct {
	source   EntitySource
	renderer Renderer
	cache    cache.Cache
	maxAge   int
}

// NewImageHandler wires the endpoints. A nil cache disables caching.
func NewImageHandler(source EntitySource, renderer Renderer, c cache.Cache, maxAge int) *ImageHandler {
	if c == nil {
		c = cache.Noop{}
	}
	return &ImageHandler{source: source, renderer: renderer, cache: c, maxAge: maxAge}
}

// RegisterRoutes attaches the image routes to r.
func (h *ImageHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/status/:entity_id", h.StatusHandler)
	r.GET("/multi-status", h.MultiStatusHandler)
	r.GET("/trmnl", h.TrmnlHandler)
}

// StatusHandler renders a single entity card.
func (h *ImageHandler) StatusHandler(c *gin.Context) {
	entityID := c.Param("entity_id")
	if !entity.ValidID(entityID) {
		h.badRequest(c, "status", "invalid entity id "+strconv.Quote(entityID))
		return
	}

	var q imageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, "status", validationErrorMessage(err))
		return
	}

	records := h.source.Records(c.Request.Context(), []string{entityID})
	req := rendering.SingleStatus{Entity: records[0], Width: q.Width, Height: q.Height}
	h.serve(c, "status", req, q.BitDepth, useCache(q.Cache))
}

// MultiStatusHandler renders up to ten entities as rows.
func (h *ImageHandler) MultiStatusHandler(c *gin.Context) {
	var q multiStatusQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, "multi-status", validationErrorMessage(err))
		return
	}
	ids, err := parseSensors(q.Sensors, display.MultiMaxEntities)
	if err != nil {
		h.badRequest(c, "multi-status", err.Error())
		return
	}
	if err := checkMultiHeight(q.Height, len(ids)); err != nil {
		h.badRequest(c, "multi-status", err.Error())
		return
	}

	records := h.source.Records(c.Request.Context(), ids)
	req := rendering.MultiStatus{Entities: records, Title: q.Title, Width: q.Width, Height: q.Height}
	h.serve(c, "multi-status", req, q.BitDepth, useCache(q.Cache))
}

// TrmnlHandler renders the 800x480 one-bit display card.
func (h *ImageHandler) TrmnlHandler(c *gin.Context) {
	var q trmnlQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, "trmnl", validationErrorMessage(err))
		return
	}
	ids, err := parseSensors(q.Sensors, display.FixedMaxEntities)
	if err != nil {
		h.badRequest(c, "trmnl", err.Error())
		return
	}

	records := h.source.Records(c.Request.Context(), ids)
	req := rendering.FixedDisplay{Entities: records, Title: q.Title}
	h.serve(c, "trmnl", req, 0, useCache(q.Cache))
}

func (h *ImageHandler) serve(c *gin.Context, route string, req rendering.Request, bitDepth int, cached bool) {
	ctx := c.Request.Context()
	width, height := req.Size()
	key := cache.Key(req.Mode().String(),
		[]string{strconv.Itoa(width), strconv.Itoa(height), strconv.Itoa(bitDepth), req.Heading()},
		req.Records())

	if cached {
		data, found, err := h.cache.Get(ctx, key)
		switch {
		case err != nil:
			metrics.IncCacheLookup(metrics.CacheError)
			logging.WarnWithComponent(logging.ComponentCache, "Cache lookup failed", "error", err)
		case found:
			metrics.IncCacheLookup(metrics.CacheHit)
			h.writePNG(c, route, data, "HIT")
			return
		default:
			metrics.IncCacheLookup(metrics.CacheMiss)
		}
	} else {
		metrics.IncCacheLookup(metrics.CacheBypass)
	}

	res, err := h.renderer.Render(ctx, req)
	if err != nil {
		h.renderFailed(c, route, err)
		return
	}

	// The fixed display is already one bit and is always written that way.
	if res.BitDepth != 0 {
		bitDepth = res.BitDepth
	}
	data, err := imageprocessing.Encode(res.Image, bitDepth)
	if err != nil {
		logging.ErrorWithComponent(logging.ComponentHTTP, "Failed to encode image",
			"route", route, "request_id", middleware.GetRequestID(c), "error", err)
		h.fail(c, route, http.StatusInternalServerError, "Failed to encode image")
		return
	}

	if cached {
		if err := h.cache.Set(ctx, key, data); err != nil {
			logging.WarnWithComponent(logging.ComponentCache, "Cache store failed", "error", err)
		}
	}
	h.writePNG(c, route, data, "MISS")
}

func (h *ImageHandler) renderFailed(c *gin.Context, route string, err error) {
	status := http.StatusInternalServerError
	msg := "Failed to render image"
	switch {
	case errors.Is(err, rendering.ErrPoolSaturated), errors.Is(err, rendering.ErrPoolStopped):
		status, msg = http.StatusServiceUnavailable, "Renderer busy, try again shortly"
		c.Header("Retry-After", "1")
	case errors.Is(err, rendering.ErrContractViolation):
		status, msg = http.StatusBadRequest, "Request outside renderable bounds"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status, msg = http.StatusServiceUnavailable, "Render timed out"
	}
	logging.ErrorWithComponent(logging.ComponentHTTP, "Render failed",
		"route", route, "request_id", middleware.GetRequestID(c), "status", status, "error", err)
	h.fail(c, route, status, msg)
}

func (h *ImageHandler) writePNG(c *gin.Context, route string, data []byte, cacheState string) {
	metrics.IncHTTPResponse(route, strconv.Itoa(http.StatusOK))
	c.Header("Cache-Control", "public, max-age="+strconv.Itoa(h.maxAge))
	c.Header("X-Cache", cacheState)
	c.Data(http.StatusOK, "image/png", data)
}

func (h *ImageHandler) badRequest(c *gin.Context, route, msg string) {
	logging.WarnWithComponent(logging.ComponentHTTP, "Bad request",
		"route", route, "query", c.Request.URL.RawQuery, "error", msg)
	h.fail(c, route, http.StatusBadRequest, msg)
}

func (h *ImageHandler) fail(c *gin.Context, route string, status int, msg string) {
	metrics.IncHTTPResponse(route, strconv.Itoa(status))
	c.JSON(status, gin.H{"error": msg})
}

package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/adrien9192/tiktok-viral-scripts/internal/apperr"
	"github.com/adrien9192/tiktok-viral-scripts/internal/middleware"
	"github.com/adrien9192/tiktok-viral-scripts/internal/model"
	"github.com/adrien9192/tiktok-viral-scripts/internal/trends"
)

type TrendsHandler struct {
	svc      *trends.Service
	location string
}

// NewTrendsHandler creates the trends handler. location is the normalized
// country slug the sources scrape for.
func NewTrendsHandler(svc *trends.Service, location string) *TrendsHandler {
	return &TrendsHandler{svc: svc, location: trends.NormalizeCountry(location)}
}

// Cached handles GET /api/trends. Serves the snapshot from cache when it
// is still within the TTL window.
func (h *TrendsHandler) Cached(c fiber.Ctx) error {
	return h.respond(c, false)
}

// Live handles GET /api/trends/live. Forces a refresh past the cache.
func (h *TrendsHandler) Live(c fiber.Ctx) error {
	return h.respond(c, true)
}

func (h *TrendsHandler) respond(c fiber.Ctx, force bool) error {
	snap, err := h.svc.Fetch(c.Context(), force)
	if err != nil {
		// Trends are supplementary: with nothing cached and every source
		// down, serve an empty payload rather than failing the request.
		if errors.Is(err, apperr.ErrTrendsUnavailable) {
			middleware.Logger.Warn().Msg("trend data unavailable, serving empty payload")
			return c.JSON(model.TrendsResponse{
				Success:  true,
				Trends:   model.EmptyTrendsSnapshot(time.Now().UTC()),
				Location: h.location,
			})
		}
		return middleware.MapAppError(c, err)
	}

	return c.JSON(model.TrendsResponse{
		Success:   true,
		Trends:    snap,
		Location:  h.location,
		UpdatedAt: snap.FetchedAt.Format(time.RFC3339),
	})
}

// Location handles GET /api/location: the country the trend sources are
// scoped to, plus every supported country slug.
func (h *TrendsHandler) Location(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":   true,
		"location":  h.location,
		"supported": trends.SupportedCountries(),
	})
}

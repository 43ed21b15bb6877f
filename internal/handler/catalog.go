package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/adrien9192/tiktok-viral-scripts/internal/catalog"
)

type CatalogHandler struct {
	cat *catalog.Catalog
}

func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{cat: cat}
}

// Hooks handles GET /api/hooks: all hook styles, best first.
func (h *CatalogHandler) Hooks(c fiber.Ctx) error {
	hooks := h.cat.HookSummaries()
	return c.JSON(fiber.Map{
		"success": true,
		"hooks":   hooks,
		"count":   len(hooks),
	})
}

// Niches handles GET /api/niches: all niche profiles.
func (h *CatalogHandler) Niches(c fiber.Ctx) error {
	niches := h.cat.NicheSummaries()
	return c.JSON(fiber.Map{
		"success": true,
		"niches":  niches,
		"count":   len(niches),
	})
}

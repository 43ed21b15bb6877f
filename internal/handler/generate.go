package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/adrien9192/tiktok-viral-scripts/internal/apperr"
	"github.com/adrien9192/tiktok-viral-scripts/internal/middleware"
	"github.com/adrien9192/tiktok-viral-scripts/internal/model"
	"github.com/adrien9192/tiktok-viral-scripts/internal/service"
)

type GenerateHandler struct {
	assembler *service.Assembler
}

func NewGenerateHandler(assembler *service.Assembler) *GenerateHandler {
	return &GenerateHandler{assembler: assembler}
}

// Generate handles POST /api/generate. Failures keep the same envelope as
// successes, with success=false and the error message in place of the script.
func (h *GenerateHandler) Generate(c fiber.Ctx) error {
	start := time.Now()

	var req model.ScriptRequest
	if err := c.Bind().Body(&req); err != nil {
		return h.fail(c, start, fiber.StatusBadRequest, "malformed request body")
	}

	script, err := h.assembler.Generate(req)
	if err != nil {
		switch {
		case apperr.IsValidation(err):
			return h.fail(c, start, fiber.StatusBadRequest, err.Error())
		case apperr.IsNotFound(err):
			return h.fail(c, start, fiber.StatusNotFound, err.Error())
		default:
			middleware.Logger.Error().Err(err).Msg("script generation failed")
			return h.fail(c, start, fiber.StatusInternalServerError, "internal server error")
		}
	}

	Metrics.ScriptsGenerated.WithLabelValues(scriptNiche(req)).Inc()

	return c.JSON(model.GenerateResponse{
		Success:          true,
		Script:           script,
		GenerationTimeMs: time.Since(start).Milliseconds(),
	})
}

func (h *GenerateHandler) fail(c fiber.Ctx, start time.Time, status int, msg string) error {
	return c.Status(status).JSON(model.GenerateResponse{
		Success:          false,
		Error:            msg,
		GenerationTimeMs: time.Since(start).Milliseconds(),
	})
}

// scriptNiche normalizes the niche label used on the generation counter.
// Only known niches reach this point, so cardinality stays bounded.
func scriptNiche(req model.ScriptRequest) string {
	niche := strings.TrimSpace(req.Niche)
	if niche == "" {
		return service.DefaultNiche
	}
	return niche
}

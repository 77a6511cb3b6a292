package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cava-api/internal/application/ports"
)

// CacheHandler expone la invalidación de cachés derivadas de la cava para el CRUD de vinos.
type CacheHandler struct {
	cache ports.CellarCache
}

// NewCacheHandler construye el handler.
func NewCacheHandler(cache ports.CellarCache) *CacheHandler {
	return &CacheHandler{cache: cache}
}

// Invalidate godoc
// @Summary      Invalidar cachés de la cava
// @Description  Descarta la propuesta de layout cacheada del cellar_id del token. Lo invoca el
//
//	CRUD de vinos tras crear, editar o eliminar vinos.
//
// @Tags         cellar
// @Security     Bearer
// @Success      204
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/cellar/cache/invalidate [post]
func (h *CacheHandler) Invalidate(c *fiber.Ctx) error {
	cellarID := GetCellarID(c)
	if cellarID == "" {
		return unauthorized(c)
	}
	if h.cache != nil {
		if err := h.cache.Invalidate(c.UserContext(), cellarID); err != nil {
			return writeError(c, err)
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}

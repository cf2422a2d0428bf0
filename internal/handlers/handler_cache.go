package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/talentforge/payroll-fx/internal/core/ports/services"
	"github.com/talentforge/payroll-fx/internal/dto"
	"github.com/talentforge/payroll-fx/internal/middleware"
)

// cacheHandler exposes resolution-cache introspection and administration.
type cacheHandler struct {
	cache portssvc.RateCache
}

func newCacheHandler(cache portssvc.RateCache) *cacheHandler {
	return &cacheHandler{cache: cache}
}

// registerCacheRoutes registers cache administration routes.
func registerCacheRoutes(rg *gin.RouterGroup, cache portssvc.RateCache) {
	h := newCacheHandler(cache)

	rg.GET("/cache/stats", h.stats)
	rg.POST("/cache/clear", h.clear)
}

// stats godoc
// @Summary Resolution cache statistics
// @Description Reports live key count plus cumulative hit and miss counters
// @Tags currency
// @Produce json
// @Success 200 {object} dto.CacheStatsResponse
// @Security BearerAuth
// @Router /currency/cache/stats [get]
func (h *cacheHandler) stats(c *gin.Context) {
	s := h.cache.Stats(c.Request.Context())
	c.JSON(http.StatusOK, dto.CacheStatsResponse{
		Keys:   s.Keys,
		Hits:   s.Hits,
		Misses: s.Misses,
	})
}

// clear godoc
// @Summary Clear the resolution cache
// @Description Drops all cached resolved rates; subsequent resolutions hit the rate store
// @Tags currency
// @Produce json
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /currency/cache/clear [post]
func (h *cacheHandler) clear(c *gin.Context) {
	h.cache.Clear(c.Request.Context())
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Resolution cache cleared")
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Joaovenera/wms-sub000/internal/cache"
	"github.com/Joaovenera/wms-sub000/pkg/errors"
	"github.com/Joaovenera/wms-sub000/pkg/logging"
)

// CacheHandlers exposes the admin surface of the validation result cache
type CacheHandlers struct {
	store  cache.Store
	logger *logging.Logger
}

func NewCacheHandlers(store cache.Store, logger *logging.Logger) *CacheHandlers {
	return &CacheHandlers{store: store, logger: logger}
}

// RegisterRoutes registers cache admin routes on the router
func (h *CacheHandlers) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/cache")
	{
		group.GET("/stats", h.Stats)
		group.POST("/clear", h.Clear)
		group.POST("/invalidate/:dependency", h.Invalidate)
	}
}

// Stats reports entry counts and hit rates
func (h *CacheHandlers) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Stats(c.Request.Context()))
}

// Clear drops entries in the requested scope, everything by default
func (h *CacheHandlers) Clear(c *gin.Context) {
	scope := c.DefaultQuery("type", cache.ScopeAll)
	switch scope {
	case cache.ScopeAll, cache.ScopeComposition, cache.ScopeIntelligent:
	default:
		respond(c, h.logger, errors.ErrValidation("unknown cache type: "+scope).
			WithSuggestions("use composition, intelligent or all"))
		return
	}

	removed := h.store.Clear(c.Request.Context(), scope)
	h.logger.WithFields(map[string]interface{}{
		"scope":   scope,
		"removed": removed,
	}).Info("Cache cleared")

	c.JSON(http.StatusOK, gin.H{"scope": scope, "removed": removed})
}

// Invalidate drops entries referencing a product or pallet. With
// cascade=true, entries sharing any dependency with a dropped entry
// are dropped too.
func (h *CacheHandlers) Invalidate(c *gin.Context) {
	dependency := c.Param("dependency")
	cascade := c.Query("cascade") == "true"

	removed := h.store.InvalidateDependency(c.Request.Context(), dependency, cascade)
	h.logger.WithFields(map[string]interface{}{
		"dependency": dependency,
		"cascade":    cascade,
		"removed":    removed,
	}).Info("Cache dependency invalidated")

	c.JSON(http.StatusOK, gin.H{"dependency": dependency, "cascade": cascade, "removed": removed})
}

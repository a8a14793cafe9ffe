package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Joaovenera/wms-sub000/internal/application"
	"github.com/Joaovenera/wms-sub000/pkg/errors"
	"github.com/Joaovenera/wms-sub000/pkg/logging"
	"github.com/Joaovenera/wms-sub000/pkg/middleware"
)

// InventoryHandlers exposes the pallet and position registries
type InventoryHandlers struct {
	inventory *application.InventoryService
	ucps      *application.UCPService
	logger    *logging.Logger
}

func NewInventoryHandlers(inventory *application.InventoryService, ucps *application.UCPService, logger *logging.Logger) *InventoryHandlers {
	return &InventoryHandlers{inventory: inventory, ucps: ucps, logger: logger}
}

// RegisterRoutes registers pallet and position routes on the router
func (h *InventoryHandlers) RegisterRoutes(router *gin.RouterGroup) {
	pallets := router.Group("/pallets")
	{
		pallets.POST("", h.CreatePallet)
		pallets.GET("", h.ListPallets)
		pallets.GET("/:id", h.GetPallet)
		pallets.POST("/:id/reactivate", h.ReactivatePallet)
	}

	positions := router.Group("/positions")
	{
		positions.POST("", h.CreatePosition)
		positions.GET("", h.ListPositions)
		positions.GET("/:id", h.GetPosition)
	}
}

// CreatePallet registers a pallet
func (h *InventoryHandlers) CreatePallet(c *gin.Context) {
	var req struct {
		Code      string  `json:"code" binding:"required"`
		Type      string  `json:"type" binding:"required"`
		Width     float64 `json:"width" binding:"required,gt=0"`
		Length    float64 `json:"length" binding:"required,gt=0"`
		MaxWeight float64 `json:"maxWeight" binding:"required,gt=0"`
		MaxHeight float64 `json:"maxHeight,omitempty" binding:"omitempty,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, h.logger, errors.ErrValidation(err.Error()))
		return
	}

	dto, err := h.inventory.CreatePallet(c.Request.Context(), application.CreatePalletCommand{
		Code:      req.Code,
		Type:      req.Type,
		Width:     req.Width,
		Length:    req.Length,
		MaxWeight: req.MaxWeight,
		MaxHeight: req.MaxHeight,
	})
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto)
}

// GetPallet retrieves a pallet by id
func (h *InventoryHandlers) GetPallet(c *gin.Context) {
	dto, err := h.inventory.GetPallet(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// ListPallets retrieves pallets filtered by status
func (h *InventoryHandlers) ListPallets(c *gin.Context) {
	page, limit := pagination(c)
	dto, err := h.inventory.ListPallets(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// ReactivatePallet issues a fresh UCP on an existing pallet
func (h *InventoryHandlers) ReactivatePallet(c *gin.Context) {
	dto, err := h.ucps.ReactivatePallet(c.Request.Context(), application.ReactivatePalletCommand{
		PalletID:  c.Param("id"),
		CreatedBy: middleware.GetUserID(c),
	})
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto)
}

// CreatePosition registers a storage position
func (h *InventoryHandlers) CreatePosition(c *gin.Context) {
	var req struct {
		Code   string `json:"code" binding:"required"`
		Street string `json:"street" binding:"required"`
		Side   string `json:"side" binding:"required"`
		Level  int    `json:"level" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, h.logger, errors.ErrValidation(err.Error()))
		return
	}

	dto, err := h.inventory.CreatePosition(c.Request.Context(), application.CreatePositionCommand{
		Code:   req.Code,
		Street: req.Street,
		Side:   req.Side,
		Level:  req.Level,
	})
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto)
}

// GetPosition retrieves a position by id
func (h *InventoryHandlers) GetPosition(c *gin.Context) {
	dto, err := h.inventory.GetPosition(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// ListPositions retrieves positions filtered by status
func (h *InventoryHandlers) ListPositions(c *gin.Context) {
	page, limit := pagination(c)
	dto, err := h.inventory.ListPositions(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

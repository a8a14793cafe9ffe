package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Joaovenera/wms-sub000/internal/application"
	"github.com/Joaovenera/wms-sub000/pkg/errors"
	"github.com/Joaovenera/wms-sub000/pkg/logging"
	"github.com/Joaovenera/wms-sub000/pkg/middleware"
)

// UCPHandlers exposes the UCP lifecycle over HTTP
type UCPHandlers struct {
	service *application.UCPService
	logger  *logging.Logger
}

func NewUCPHandlers(service *application.UCPService, logger *logging.Logger) *UCPHandlers {
	return &UCPHandlers{service: service, logger: logger}
}

// RegisterRoutes registers UCP routes on the router
func (h *UCPHandlers) RegisterRoutes(router *gin.RouterGroup) {
	ucps := router.Group("/ucps")
	{
		ucps.POST("", h.Create)
		ucps.GET("", h.List)
		ucps.GET("/:id", h.Get)
		ucps.GET("/:id/history", h.History)
		ucps.POST("/:id/items", h.AddItem)
		ucps.DELETE("/:id/items/:itemId", h.RemoveItem)
		ucps.POST("/:id/move", h.Move)
		ucps.POST("/:id/dismantle", h.Dismantle)
		ucps.POST("/transfer-item", h.TransferItem)
	}
}

// Create creates a UCP, auto-selecting a pallet when none is named
func (h *UCPHandlers) Create(c *gin.Context) {
	var req struct {
		PalletID string `json:"palletId,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, h.logger, errors.ErrValidation(err.Error()))
		return
	}

	dto, err := h.service.CreateUCP(c.Request.Context(), application.CreateUCPCommand{
		PalletID:  req.PalletID,
		CreatedBy: middleware.GetUserID(c),
	})
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto)
}

// Get retrieves a UCP by id
func (h *UCPHandlers) Get(c *gin.Context) {
	dto, err := h.service.GetUCP(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// List retrieves UCPs filtered by status
func (h *UCPHandlers) List(c *gin.Context) {
	page, limit := pagination(c)
	dto, err := h.service.ListUCPs(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// History retrieves the audit trail of a UCP, newest first
func (h *UCPHandlers) History(c *gin.Context) {
	page, limit := pagination(c)
	dto, err := h.service.GetHistory(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// AddItem adds product quantity to a UCP
func (h *UCPHandlers) AddItem(c *gin.Context) {
	var req struct {
		ProductID       string  `json:"productId" binding:"required"`
		PackagingTypeID string  `json:"packagingTypeId,omitempty"`
		Quantity        float64 `json:"quantity" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, h.logger, errors.ErrValidation(err.Error()))
		return
	}

	dto, err := h.service.AddItem(c.Request.Context(), application.AddItemCommand{
		UCPID:           c.Param("id"),
		ProductID:       req.ProductID,
		PackagingTypeID: req.PackagingTypeID,
		Quantity:        req.Quantity,
		AddedBy:         middleware.GetUserID(c),
	})
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// RemoveItem removes an item fully or, with a quantity, partially
func (h *UCPHandlers) RemoveItem(c *gin.Context) {
	var req struct {
		Quantity float64 `json:"quantity,omitempty" binding:"omitempty,gt=0"`
		Reason   string  `json:"reason,omitempty"`
	}
	// body is optional for full removal
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, h.logger, errors.ErrValidation(err.Error()))
			return
		}
	}

	dto, err := h.service.RemoveItem(c.Request.Context(), application.RemoveItemCommand{
		UCPID:     c.Param("id"),
		ItemID:    c.Param("itemId"),
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		RemovedBy: middleware.GetUserID(c),
	})
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// Move relocates a UCP to another storage position
func (h *UCPHandlers) Move(c *gin.Context) {
	var req struct {
		PositionID string `json:"positionId" binding:"required"`
		Reason     string `json:"reason,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, h.logger, errors.ErrValidation(err.Error()))
		return
	}

	dto, err := h.service.Move(c.Request.Context(), application.MoveUCPCommand{
		UCPID:       c.Param("id"),
		PositionID:  req.PositionID,
		Reason:      req.Reason,
		PerformedBy: middleware.GetUserID(c),
	})
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// Dismantle archives a UCP and frees its pallet and position
func (h *UCPHandlers) Dismantle(c *gin.Context) {
	var req struct {
		Reason string `json:"reason,omitempty"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, h.logger, errors.ErrValidation(err.Error()))
			return
		}
	}

	dto, err := h.service.Dismantle(c.Request.Context(), application.DismantleUCPCommand{
		UCPID:       c.Param("id"),
		Reason:      req.Reason,
		PerformedBy: middleware.GetUserID(c),
	})
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// TransferItem moves item quantity from one UCP into another
func (h *UCPHandlers) TransferItem(c *gin.Context) {
	var req struct {
		SourceItemID string  `json:"sourceItemId" binding:"required"`
		TargetUCPID  string  `json:"targetUcpId" binding:"required"`
		Quantity     float64 `json:"quantity,omitempty" binding:"omitempty,gt=0"`
		Reason       string  `json:"reason,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, h.logger, errors.ErrValidation(err.Error()))
		return
	}

	dto, err := h.service.TransferItem(c.Request.Context(), application.TransferItemCommand{
		SourceItemID: req.SourceItemID,
		TargetUCPID:  req.TargetUCPID,
		Quantity:     req.Quantity,
		Reason:       req.Reason,
		PerformedBy:  middleware.GetUserID(c),
	})
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Joaovenera/wms-sub000/internal/application"
	"github.com/Joaovenera/wms-sub000/internal/ratelimit"
	"github.com/Joaovenera/wms-sub000/internal/validation"
	"github.com/Joaovenera/wms-sub000/pkg/errors"
	"github.com/Joaovenera/wms-sub000/pkg/logging"
	"github.com/Joaovenera/wms-sub000/pkg/metrics"
	"github.com/Joaovenera/wms-sub000/pkg/middleware"
)

// CompositionHandlers exposes the validation pipeline and the
// composition workflow over HTTP.
type CompositionHandlers struct {
	service *application.CompositionService
	limiter ratelimit.Limiter
	logger  *logging.Logger
	metrics *metrics.Metrics
}

func NewCompositionHandlers(service *application.CompositionService, limiter ratelimit.Limiter, logger *logging.Logger, m *metrics.Metrics) *CompositionHandlers {
	return &CompositionHandlers{
		service: service,
		limiter: limiter,
		logger:  logger,
		metrics: m,
	}
}

// RegisterRoutes registers composition routes on the router
func (h *CompositionHandlers) RegisterRoutes(router *gin.RouterGroup) {
	composition := router.Group("/composition")
	{
		composition.POST("/calculate", h.Calculate)
		composition.POST("/validate", h.Validate)
		composition.POST("/real-time", h.RealTime)
		composition.POST("/save", h.Save)
		composition.GET("", h.List)
		composition.GET("/:id", h.Get)
		composition.DELETE("/:id", h.Delete)
		composition.PATCH("/:id/status", h.UpdateStatus)
		composition.PUT("/:id/status", h.UpdateStatus)
		composition.POST("/assemble", h.Assemble)
		composition.POST("/disassemble", h.Disassemble)
		composition.POST("/:id/assemble", h.Assemble)
		composition.POST("/:id/disassemble", h.Disassemble)
	}
}

type validateRequest struct {
	validation.Request
	Mode string `json:"mode,omitempty" binding:"omitempty,oneof=quick business full"`
}

type calculateRequest struct {
	validation.Request
	Algorithm string `json:"algorithm,omitempty"`
}

// allow charges the request against the caller's rate limit window.
// The limiter runs after binding so the complexity score reflects the
// actual payload.
func (h *CompositionHandlers) allow(c *gin.Context, request *validation.Request) bool {
	if h.limiter == nil {
		return true
	}

	decision, err := h.limiter.Allow(c.Request.Context(), c.ClientIP(), middleware.GetUserID(c), request)
	if err != nil {
		// limiter backend failure never blocks the request
		h.logger.WithError(err).Warn("Rate limiter unavailable, allowing request")
		return true
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(decision.EffectiveLimit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

	if decision.Allowed {
		return true
	}

	if decision.RetryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(int(decision.RetryAfter.Seconds())+1))
	}
	if h.metrics != nil {
		h.metrics.RecordRateLimitRejection("composition")
	}

	appErr := errors.ErrComplexityLimit().
		WithDetail("complexity", strconv.Itoa(decision.Complexity)).
		WithDetail("effectiveLimit", strconv.Itoa(decision.EffectiveLimit))
	middleware.AbortWithAppError(c, appErr)
	return false
}

// Calculate validates in full mode and returns a pallet layout
func (h *CompositionHandlers) Calculate(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, h.logger, errors.ErrValidation(err.Error()))
		return
	}
	if !h.allow(c, &req.Request) {
		return
	}

	result, err := h.service.Calculate(c.Request.Context(), &req.Request, req.Algorithm)
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Validate runs the pipeline in the requested mode, full by default
func (h *CompositionHandlers) Validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, h.logger, errors.ErrValidation(err.Error()))
		return
	}
	if !h.allow(c, &req.Request) {
		return
	}

	mode := validation.Mode(req.Mode)
	if req.Mode == "" {
		mode = validation.ModeFull
	}

	result, err := h.service.Validate(c.Request.Context(), &req.Request, mode)
	if err != nil {
		respond(c, h.logger, err)
		return
	}

	// blocking violations fail the request; the body still carries the
	// full report so the client can render them
	status := http.StatusOK
	if !result.IsValid {
		status = http.StatusBadRequest
	}
	c.JSON(status, result)
}

// RealTime runs the pipeline for live feedback while the user edits a
// composition, in quick mode unless the client asks for more.
func (h *CompositionHandlers) RealTime(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, h.logger, errors.ErrValidation(err.Error()))
		return
	}
	if !h.allow(c, &req.Request) {
		return
	}

	mode := validation.Mode(req.Mode)
	if req.Mode == "" {
		mode = validation.ModeQuick
	}

	result, err := h.service.Validate(c.Request.Context(), &req.Request, mode)
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type saveRequest struct {
	Name string `json:"name" binding:"required"`
	validation.Request
}

// Save persists a draft composition after a full validation pass
func (h *CompositionHandlers) Save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, h.logger, errors.ErrValidation(err.Error()))
		return
	}

	dto, err := h.service.Save(c.Request.Context(), application.SaveCompositionCommand{
		Name:      req.Name,
		Request:   req.Request,
		CreatedBy: middleware.GetUserID(c),
	})
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto)
}

// Get retrieves a composition by id
func (h *CompositionHandlers) Get(c *gin.Context) {
	dto, err := h.service.GetComposition(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// Delete removes a draft composition
func (h *CompositionHandlers) Delete(c *gin.Context) {
	if err := h.service.DeleteComposition(c.Request.Context(), c.Param("id")); err != nil {
		respond(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List retrieves compositions filtered by status
func (h *CompositionHandlers) List(c *gin.Context) {
	page, limit := pagination(c)
	dto, err := h.service.ListCompositions(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// UpdateStatus moves a composition along its workflow
func (h *CompositionHandlers) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required,oneof=draft validated approved executed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, h.logger, errors.ErrValidation(err.Error()))
		return
	}

	dto, err := h.service.UpdateStatus(c.Request.Context(), application.UpdateCompositionStatusCommand{
		CompositionID: c.Param("id"),
		Status:        req.Status,
		PerformedBy:   middleware.GetUserID(c),
	})
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// compositionID resolves the composition from the path when present,
// otherwise from the request body.
func compositionID(c *gin.Context, fromBody string) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	return fromBody
}

// Assemble materializes an approved composition into the target UCP
func (h *CompositionHandlers) Assemble(c *gin.Context) {
	var req struct {
		CompositionID string `json:"compositionId,omitempty"`
		TargetUCPID   string `json:"targetUcpId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, h.logger, errors.ErrValidation(err.Error()))
		return
	}

	id := compositionID(c, req.CompositionID)
	if id == "" {
		respond(c, h.logger, errors.ErrValidation("compositionId is required"))
		return
	}

	dto, err := h.service.Assemble(c.Request.Context(), application.AssembleCommand{
		CompositionID: id,
		TargetUCPID:   req.TargetUCPID,
		PerformedBy:   middleware.GetUserID(c),
	})
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// Disassemble unwinds composition quantities from the named UCPs
func (h *CompositionHandlers) Disassemble(c *gin.Context) {
	var req struct {
		CompositionID string `json:"compositionId,omitempty"`
		Targets       []struct {
			ProductID string  `json:"productId" binding:"required"`
			Quantity  float64 `json:"quantity" binding:"required,gt=0"`
			UCPID     string  `json:"ucpId" binding:"required"`
		} `json:"targets" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, h.logger, errors.ErrValidation(err.Error()))
		return
	}

	id := compositionID(c, req.CompositionID)
	if id == "" {
		respond(c, h.logger, errors.ErrValidation("compositionId is required"))
		return
	}

	targets := make([]application.DisassembleTarget, 0, len(req.Targets))
	for _, t := range req.Targets {
		targets = append(targets, application.DisassembleTarget{
			ProductID: t.ProductID,
			Quantity:  t.Quantity,
			UCPID:     t.UCPID,
		})
	}

	err := h.service.Disassemble(c.Request.Context(), application.DisassembleCommand{
		CompositionID: id,
		Targets:       targets,
		PerformedBy:   middleware.GetUserID(c),
	})
	if err != nil {
		respond(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

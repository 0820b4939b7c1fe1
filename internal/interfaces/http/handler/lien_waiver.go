package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/nspire/billing/internal/application/billing"
)

// LienWaiverHandler handles lien waiver API endpoints
type LienWaiverHandler struct {
	BaseHandler
	waiverService *billingapp.LienWaiverService
}

// NewLienWaiverHandler creates a new LienWaiverHandler
func NewLienWaiverHandler(waiverService *billingapp.LienWaiverService) *LienWaiverHandler {
	return &LienWaiverHandler{waiverService: waiverService}
}

// RegisterRoutes registers lien waiver routes
func (h *LienWaiverHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/pay-applications/:id/lien-waivers", h.Record)
	rg.GET("/pay-applications/:id/lien-waivers", h.List)
}

// Record attaches a received lien waiver document to a pay application
func (h *LienWaiverHandler) Record(c *gin.Context) {
	payAppID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pay application ID format")
		return
	}

	var req billingapp.RecordLienWaiverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	waiver, err := h.waiverService.Record(c.Request.Context(), payAppID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, waiver)
}

// List returns all lien waivers recorded against a pay application
func (h *LienWaiverHandler) List(c *gin.Context) {
	payAppID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pay application ID format")
		return
	}

	waivers, err := h.waiverService.ListByPayApplication(c.Request.Context(), payAppID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, waivers)
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/nspire/billing/internal/application/billing"
)

// ScheduleOfValuesHandler handles schedule-of-values API endpoints
type ScheduleOfValuesHandler struct {
	BaseHandler
	sovService *billingapp.ScheduleOfValuesService
}

// NewScheduleOfValuesHandler creates a new ScheduleOfValuesHandler
func NewScheduleOfValuesHandler(sovService *billingapp.ScheduleOfValuesService) *ScheduleOfValuesHandler {
	return &ScheduleOfValuesHandler{sovService: sovService}
}

// RegisterRoutes registers schedule-of-values routes
func (h *ScheduleOfValuesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/projects/:projectId/sov", h.GetScheduleOfValues)
	rg.POST("/projects/:projectId/sov/items", h.CreateLineItem)
}

// GetScheduleOfValues returns the full schedule of values for a project,
// including the contract sum.
func (h *ScheduleOfValuesHandler) GetScheduleOfValues(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	sov, err := h.sovService.GetScheduleOfValues(c.Request.Context(), projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sov)
}

// CreateLineItem appends a line item to a project's schedule of values
func (h *ScheduleOfValuesHandler) CreateLineItem(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	var req billingapp.CreateSOVLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.sovService.CreateLineItem(c.Request.Context(), projectID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, item)
}

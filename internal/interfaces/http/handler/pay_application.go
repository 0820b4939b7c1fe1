package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/nspire/billing/internal/application/billing"
	"github.com/nspire/billing/internal/domain/shared"
	"github.com/nspire/billing/internal/interfaces/http/dto"
)

// PayApplicationHandler handles pay application API endpoints
type PayApplicationHandler struct {
	BaseHandler
	payAppService *billingapp.PayApplicationService
}

// NewPayApplicationHandler creates a new PayApplicationHandler
func NewPayApplicationHandler(payAppService *billingapp.PayApplicationService) *PayApplicationHandler {
	return &PayApplicationHandler{payAppService: payAppService}
}

// RegisterRoutes registers pay application routes
func (h *PayApplicationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects/:projectId/pay-applications", h.Create)
	rg.GET("/projects/:projectId/pay-applications", h.ListByProject)

	rg.GET("/pay-applications/:id", h.GetByID)
	rg.GET("/pay-applications/:id/totals", h.GetTotals)
	rg.PUT("/pay-applications/:id/lines/:lineId", h.UpdateLineItem)
	rg.POST("/pay-applications/:id/submit", h.Submit)
	rg.POST("/pay-applications/:id/review", h.StartReview)
	rg.POST("/pay-applications/:id/certify", h.Certify)
	rg.POST("/pay-applications/:id/pay", h.MarkPaid)
	rg.POST("/pay-applications/:id/dispute", h.Dispute)
}

// Create opens a new pay application for the next billing period. Line
// items are seeded from the project's schedule of values with balances
// carried forward from the latest certified application.
func (h *PayApplicationHandler) Create(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	var req billingapp.CreatePayApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	app, err := h.payAppService.Create(c.Request.Context(), projectID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, app)
}

// ListByProject returns a paginated list of a project's pay applications,
// newest first.
func (h *PayApplicationHandler) ListByProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if listReq.Page <= 0 {
		listReq.Page = 1
	}
	if listReq.PageSize <= 0 || listReq.PageSize > 100 {
		listReq.PageSize = 20
	}

	filter := shared.DefaultFilter()
	filter.Page = listReq.Page
	filter.PageSize = listReq.PageSize
	if listReq.Status != "" {
		filter.Filters["status"] = listReq.Status
	}

	result, err := h.payAppService.ListByProject(c.Request.Context(), projectID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetByID returns a single pay application with its line items
func (h *PayApplicationHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pay application ID format")
		return
	}

	app, err := h.payAppService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, app)
}

// GetTotals returns the derived G702-style totals for a pay application.
// Totals are always computed from current line items, never stored.
func (h *PayApplicationHandler) GetTotals(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pay application ID format")
		return
	}

	totals, err := h.payAppService.GetTotals(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, totals)
}

// UpdateLineItem applies a partial update to one line item
func (h *PayApplicationHandler) UpdateLineItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pay application ID format")
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		h.BadRequest(c, "Invalid line item ID format")
		return
	}

	var req billingapp.UpdateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.IsCertifier = isCertifier(c)

	app, err := h.payAppService.UpdateLineItem(c.Request.Context(), id, lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, app)
}

// Submit moves a draft pay application to SUBMITTED
func (h *PayApplicationHandler) Submit(c *gin.Context) {
	h.transition(c, h.payAppService.Submit)
}

// StartReview moves a submitted pay application to UNDER_REVIEW
func (h *PayApplicationHandler) StartReview(c *gin.Context) {
	h.transition(c, h.payAppService.StartReview)
}

// MarkPaid moves a certified pay application to PAID, freezing its line
// items. The caller must hold the certifier capability.
func (h *PayApplicationHandler) MarkPaid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pay application ID format")
		return
	}

	req := billingapp.MarkPaidRequest{IsCertifier: isCertifier(c)}

	app, err := h.payAppService.MarkPaid(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, app)
}

// Certify certifies a pay application. The caller must hold the certifier
// capability; certification succeeds with a warning when no lien waiver is
// on file.
func (h *PayApplicationHandler) Certify(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pay application ID format")
		return
	}

	certifiedBy, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, "Missing or invalid user ID")
		return
	}

	req := billingapp.CertifyRequest{
		CertifiedBy: certifiedBy,
		IsCertifier: isCertifier(c),
	}

	result, err := h.payAppService.Certify(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Dispute moves a pay application to DISPUTED with mandatory notes
func (h *PayApplicationHandler) Dispute(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pay application ID format")
		return
	}

	var req billingapp.DisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	app, err := h.payAppService.Dispute(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, app)
}

func (h *PayApplicationHandler) transition(
	c *gin.Context,
	apply func(ctx context.Context, id uuid.UUID) (*billingapp.PayApplicationResponse, error),
) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pay application ID format")
		return
	}

	app, err := apply(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, app)
}

package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nspire/billing/internal/domain/billing"
	"github.com/nspire/billing/internal/domain/shared"
	"github.com/nspire/billing/internal/domain/shared/valueobject"
)

// MetricsRecorder receives billing counters and measurements. A nil-safe
// no-op implementation is used when telemetry is disabled.
type MetricsRecorder interface {
	RecordPayAppCreated(ctx context.Context)
	RecordTransition(ctx context.Context, target string)
	RecordNetPayment(ctx context.Context, amount float64)
}

type noopMetrics struct{}

func (noopMetrics) RecordPayAppCreated(context.Context)       {}
func (noopMetrics) RecordTransition(context.Context, string)  {}
func (noopMetrics) RecordNetPayment(context.Context, float64) {}

// PayApplicationService provides application-level pay application
// operations: creation with carry-forward, line edits, the certification
// workflow and totals reads.
type PayApplicationService struct {
	payAppRepo billing.PayApplicationRepository
	sovRepo    billing.ScheduleOfValuesRepository
	waiverRepo billing.LienWaiverRepository
	metrics    MetricsRecorder
	logger     *zap.Logger
	now        func() time.Time
}

// NewPayApplicationService creates a new PayApplicationService
func NewPayApplicationService(
	payAppRepo billing.PayApplicationRepository,
	sovRepo billing.ScheduleOfValuesRepository,
	waiverRepo billing.LienWaiverRepository,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *PayApplicationService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PayApplicationService{
		payAppRepo: payAppRepo,
		sovRepo:    sovRepo,
		waiverRepo: waiverRepo,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *PayApplicationService) WithClock(now func() time.Time) *PayApplicationService {
	s.now = now
	return s
}

// PayAppLineItemResponse represents a pay application line item in API
// responses
type PayAppLineItemResponse struct {
	ID                      uuid.UUID        `json:"id"`
	SOVLineItemID           uuid.UUID        `json:"sov_line_item_id"`
	WorkCompletedPrevious   decimal.Decimal  `json:"work_completed_previous"`
	WorkCompletedThisPeriod decimal.Decimal  `json:"work_completed_this_period"`
	MaterialsStored         decimal.Decimal  `json:"materials_stored"`
	CertifiedThisPeriod     *decimal.Decimal `json:"certified_this_period,omitempty"`
	RetainagePctOverride    *decimal.Decimal `json:"retainage_pct_override,omitempty"`
}

// PayApplicationResponse represents a pay application in API responses
type PayApplicationResponse struct {
	ID             uuid.UUID                `json:"id"`
	ProjectID      uuid.UUID                `json:"project_id"`
	PayAppNumber   int                      `json:"pay_app_number"`
	PeriodFrom     time.Time                `json:"period_from"`
	PeriodTo       time.Time                `json:"period_to"`
	Status         string                   `json:"status"`
	ContractorName string                   `json:"contractor_name"`
	ContractNumber string                   `json:"contract_number"`
	SubmittedDate  *time.Time               `json:"submitted_date,omitempty"`
	CertifiedDate  *time.Time               `json:"certified_date,omitempty"`
	CertifiedBy    *uuid.UUID               `json:"certified_by,omitempty"`
	Notes          string                   `json:"notes,omitempty"`
	Items          []PayAppLineItemResponse `json:"items"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
	Version        int                      `json:"version"`
}

// CreatePayApplicationRequest represents a request to open a new billing
// period
type CreatePayApplicationRequest struct {
	PeriodFrom     time.Time `json:"period_from" binding:"required"`
	PeriodTo       time.Time `json:"period_to" binding:"required"`
	ContractorName string    `json:"contractor_name"`
	ContractNumber string    `json:"contract_number"`
}

// UpdateLineItemRequest represents a partial update to one line item.
// nil fields are left untouched; the Clear flags distinguish "remove the
// override" from "not provided". CertifiedThisPeriod and ClearCertified
// are writable by certifiers only.
type UpdateLineItemRequest struct {
	WorkCompletedThisPeriod *decimal.Decimal `json:"work_completed_this_period"`
	MaterialsStored         *decimal.Decimal `json:"materials_stored"`
	CertifiedThisPeriod     *decimal.Decimal `json:"certified_this_period"`
	ClearCertified          bool             `json:"clear_certified"`
	RetainagePctOverride    *decimal.Decimal `json:"retainage_pct_override"`
	ClearRetainageOverride  bool             `json:"clear_retainage_override"`
	IsCertifier             bool             `json:"-"`
}

// CertifyRequest represents a certification decision
type CertifyRequest struct {
	CertifiedBy uuid.UUID `json:"-"` // From auth context, not the request body
	IsCertifier bool      `json:"-"`
}

// MarkPaidRequest carries the caller's capability for recording payment
type MarkPaidRequest struct {
	IsCertifier bool `json:"-"`
}

// CertifyResponse carries the certified application plus any advisory
// warnings that did not block certification
type CertifyResponse struct {
	PayApplication *PayApplicationResponse `json:"pay_application"`
	Warnings       []string                `json:"warnings,omitempty"`
}

// DisputeRequest represents a request to dispute a pay application
type DisputeRequest struct {
	Notes string `json:"notes" binding:"required"`
}

// Create opens a new pay application for the next billing period. Line
// items are seeded from the schedule of values with previous balances
// carried forward from the latest certified (or paid) application. Number
// assignment retries on a concurrent collision.
func (s *PayApplicationService) Create(ctx context.Context, projectID uuid.UUID, req CreatePayApplicationRequest) (*PayApplicationResponse, error) {
	period, err := valueobject.NewPeriod(req.PeriodFrom, req.PeriodTo)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION", err.Error())
	}

	sov, err := s.sovRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	prior, err := s.payAppRepo.FindLatestCertified(ctx, projectID)
	if err != nil {
		var de *shared.DomainError
		if !errors.As(err, &de) || de.Code != "NOT_FOUND" {
			return nil, err
		}
		prior = nil // first application for the project
	}

	var app *billing.PayApplication
	for attempt := 0; attempt < maxNumberRetries; attempt++ {
		number, err := s.payAppRepo.NextPayAppNumber(ctx, projectID)
		if err != nil {
			return nil, err
		}

		app, err = billing.NewPayApplication(projectID, number, period, req.ContractorName, req.ContractNumber)
		if err != nil {
			return nil, err
		}

		items, err := billing.SeedLineItems(app.ID, sov, prior)
		if err != nil {
			return nil, err
		}
		if err := app.AttachItems(items); err != nil {
			return nil, err
		}

		err = s.payAppRepo.Create(ctx, app)
		if err == nil {
			s.metrics.RecordPayAppCreated(ctx)
			s.logger.Info("pay application created",
				zap.String("project_id", projectID.String()),
				zap.Int("pay_app_number", app.PayAppNumber),
				zap.Int("line_items", len(app.Items)))
			return toPayApplicationResponse(app), nil
		}
		var de *shared.DomainError
		if !errors.As(err, &de) || de.Code != "ALREADY_EXISTS" {
			return nil, err
		}
	}
	return nil, shared.NewDomainError("ALREADY_EXISTS", "Could not assign a unique pay application number, please retry")
}

// GetByID returns a pay application with its line items
func (s *PayApplicationService) GetByID(ctx context.Context, id uuid.UUID) (*PayApplicationResponse, error) {
	app, err := s.payAppRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPayApplicationResponse(app), nil
}

// ListByProject returns a page of a project's pay applications
func (s *PayApplicationService) ListByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (*shared.Paginated[PayApplicationResponse], error) {
	apps, err := s.payAppRepo.FindAllByProject(ctx, projectID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.payAppRepo.CountByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	responses := make([]PayApplicationResponse, 0, len(apps))
	for idx := range apps {
		responses = append(responses, *toPayApplicationResponse(&apps[idx]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// GetTotals recomputes the G702/G703 totals for a pay application. Totals
// are derived on every read and never stored.
func (s *PayApplicationService) GetTotals(ctx context.Context, id uuid.UUID) (*billing.PayAppTotals, error) {
	app, err := s.payAppRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sov, err := s.sovRepo.FindByProject(ctx, app.ProjectID)
	if err != nil {
		return nil, err
	}

	totals := billing.CalculateTotals(sov, app)
	return &totals, nil
}

// UpdateLineItem applies a partial update to one line item. Writes to the
// certified-this-period override require the certifier capability.
func (s *PayApplicationService) UpdateLineItem(ctx context.Context, payAppID, lineItemID uuid.UUID, req UpdateLineItemRequest) (*PayApplicationResponse, error) {
	if (req.CertifiedThisPeriod != nil || req.ClearCertified) && !req.IsCertifier {
		return nil, shared.NewDomainError("FORBIDDEN", "Caller is not authorized to set certified amounts")
	}

	app, err := s.payAppRepo.FindByID(ctx, payAppID)
	if err != nil {
		return nil, err
	}

	if req.WorkCompletedThisPeriod != nil {
		if err := app.SetLineThisPeriod(lineItemID, valueobject.NewMoneyUSD(*req.WorkCompletedThisPeriod)); err != nil {
			return nil, err
		}
	}
	if req.MaterialsStored != nil {
		if err := app.SetLineMaterialsStored(lineItemID, valueobject.NewMoneyUSD(*req.MaterialsStored)); err != nil {
			return nil, err
		}
	}
	if req.ClearCertified {
		if err := app.SetLineCertifiedAmount(lineItemID, nil); err != nil {
			return nil, err
		}
	} else if req.CertifiedThisPeriod != nil {
		amount := valueobject.NewMoneyUSD(*req.CertifiedThisPeriod)
		if err := app.SetLineCertifiedAmount(lineItemID, &amount); err != nil {
			return nil, err
		}
	}
	if req.ClearRetainageOverride {
		if err := app.SetLineRetainageOverride(lineItemID, nil); err != nil {
			return nil, err
		}
	} else if req.RetainagePctOverride != nil {
		pct, err := valueobject.NewPercent(*req.RetainagePctOverride)
		if err != nil {
			return nil, shared.NewDomainError("VALIDATION", err.Error())
		}
		if err := app.SetLineRetainageOverride(lineItemID, &pct); err != nil {
			return nil, err
		}
	}

	if err := s.payAppRepo.Save(ctx, app); err != nil {
		return nil, err
	}
	return toPayApplicationResponse(app), nil
}

// Submit moves a draft pay application into the certification workflow
func (s *PayApplicationService) Submit(ctx context.Context, id uuid.UUID) (*PayApplicationResponse, error) {
	return s.transition(ctx, id, func(app *billing.PayApplication) error {
		return app.Submit(s.now())
	})
}

// StartReview marks a submitted pay application as under review
func (s *PayApplicationService) StartReview(ctx context.Context, id uuid.UUID) (*PayApplicationResponse, error) {
	return s.transition(ctx, id, func(app *billing.PayApplication) error {
		return app.StartReview(s.now())
	})
}

// Certify certifies a pay application. The caller must hold the certifier
// capability. A missing lien waiver does not block certification but is
// reported as a warning.
func (s *PayApplicationService) Certify(ctx context.Context, id uuid.UUID, req CertifyRequest) (*CertifyResponse, error) {
	if !req.IsCertifier {
		return nil, shared.NewDomainError("FORBIDDEN", "Caller is not authorized to certify pay applications")
	}

	app, err := s.payAppRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := app.Certify(req.CertifiedBy, s.now()); err != nil {
		return nil, err
	}
	if err := s.payAppRepo.Save(ctx, app); err != nil {
		return nil, err
	}
	s.metrics.RecordTransition(ctx, app.Status.String())

	var warnings []string
	waiverCount, err := s.waiverRepo.CountByPayApplication(ctx, id)
	if err != nil {
		// don't fail a completed certification over a warning lookup
		s.logger.Warn("lien waiver lookup failed", zap.String("pay_application_id", id.String()), zap.Error(err))
	} else if waiverCount == 0 {
		warnings = append(warnings, "no lien waiver on file for this pay application")
		s.logger.Warn("certified without lien waiver",
			zap.String("pay_application_id", id.String()),
			zap.Int("pay_app_number", app.PayAppNumber))
	}

	return &CertifyResponse{
		PayApplication: toPayApplicationResponse(app),
		Warnings:       warnings,
	}, nil
}

// MarkPaid records payment of a certified pay application. The caller must
// hold the certifier capability. From this point the application is frozen.
func (s *PayApplicationService) MarkPaid(ctx context.Context, id uuid.UUID, req MarkPaidRequest) (*PayApplicationResponse, error) {
	if !req.IsCertifier {
		return nil, shared.NewDomainError("FORBIDDEN", "Caller is not authorized to record payments")
	}

	resp, err := s.transition(ctx, id, func(app *billing.PayApplication) error {
		return app.MarkPaid(s.now())
	})
	if err != nil {
		return nil, err
	}

	if totals, terr := s.GetTotals(ctx, id); terr == nil {
		net, _ := totals.NetPayment.Float64()
		s.metrics.RecordNetPayment(ctx, net)
	}
	return resp, nil
}

// Dispute moves a pay application to the disputed terminal state
func (s *PayApplicationService) Dispute(ctx context.Context, id uuid.UUID, req DisputeRequest) (*PayApplicationResponse, error) {
	return s.transition(ctx, id, func(app *billing.PayApplication) error {
		return app.Dispute(req.Notes, s.now())
	})
}

func (s *PayApplicationService) transition(ctx context.Context, id uuid.UUID, apply func(*billing.PayApplication) error) (*PayApplicationResponse, error) {
	app, err := s.payAppRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(app); err != nil {
		return nil, err
	}
	if err := s.payAppRepo.Save(ctx, app); err != nil {
		return nil, err
	}
	s.metrics.RecordTransition(ctx, app.Status.String())
	return toPayApplicationResponse(app), nil
}

func toPayApplicationResponse(app *billing.PayApplication) *PayApplicationResponse {
	items := make([]PayAppLineItemResponse, 0, len(app.Items))
	for _, item := range app.Items {
		items = append(items, PayAppLineItemResponse{
			ID:                      item.ID,
			SOVLineItemID:           item.SOVLineItemID,
			WorkCompletedPrevious:   item.WorkCompletedPrevious,
			WorkCompletedThisPeriod: item.WorkCompletedThisPeriod,
			MaterialsStored:         item.MaterialsStored,
			CertifiedThisPeriod:     item.CertifiedThisPeriod,
			RetainagePctOverride:    item.RetainagePctOverride,
		})
	}

	return &PayApplicationResponse{
		ID:             app.ID,
		ProjectID:      app.ProjectID,
		PayAppNumber:   app.PayAppNumber,
		PeriodFrom:     app.PeriodFrom,
		PeriodTo:       app.PeriodTo,
		Status:         app.Status.String(),
		ContractorName: app.ContractorName,
		ContractNumber: app.ContractNumber,
		SubmittedDate:  app.SubmittedDate,
		CertifiedDate:  app.CertifiedDate,
		CertifiedBy:    app.CertifiedBy,
		Notes:          app.Notes,
		Items:          items,
		CreatedAt:      app.CreatedAt,
		UpdatedAt:      app.UpdatedAt,
		Version:        app.Version,
	}
}

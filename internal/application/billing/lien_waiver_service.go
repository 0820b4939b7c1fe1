package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nspire/billing/internal/domain/billing"
	"github.com/nspire/billing/internal/domain/shared/valueobject"
)

// LienWaiverService provides application-level lien waiver operations
type LienWaiverService struct {
	waiverRepo billing.LienWaiverRepository
	payAppRepo billing.PayApplicationRepository
}

// NewLienWaiverService creates a new LienWaiverService
func NewLienWaiverService(
	waiverRepo billing.LienWaiverRepository,
	payAppRepo billing.PayApplicationRepository,
) *LienWaiverService {
	return &LienWaiverService{
		waiverRepo: waiverRepo,
		payAppRepo: payAppRepo,
	}
}

// LienWaiverResponse represents a lien waiver record in API responses
type LienWaiverResponse struct {
	ID               uuid.UUID        `json:"id"`
	PayApplicationID uuid.UUID        `json:"pay_application_id"`
	WaiverType       string           `json:"waiver_type"`
	Amount           *decimal.Decimal `json:"amount,omitempty"`
	ThroughDate      *time.Time       `json:"through_date,omitempty"`
	ReceivedDate     *time.Time       `json:"received_date,omitempty"`
	AttachmentURL    string           `json:"attachment_url,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// RecordLienWaiverRequest represents a request to record a received waiver
type RecordLienWaiverRequest struct {
	WaiverType    string           `json:"waiver_type" binding:"required"`
	Amount        *decimal.Decimal `json:"amount"`
	ThroughDate   *time.Time       `json:"through_date"`
	ReceivedDate  *time.Time       `json:"received_date"`
	AttachmentURL string           `json:"attachment_url"`
	Notes         string           `json:"notes"`
}

// Record attaches a lien waiver record to a pay application. The waiver
// amount is not checked against billed amounts; a mismatch is legitimate.
func (s *LienWaiverService) Record(ctx context.Context, payAppID uuid.UUID, req RecordLienWaiverRequest) (*LienWaiverResponse, error) {
	// waivers reference a real pay application, in any status
	if _, err := s.payAppRepo.FindByID(ctx, payAppID); err != nil {
		return nil, err
	}

	waiver, err := billing.NewLienWaiver(payAppID, billing.WaiverType(req.WaiverType))
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		waiver.SetAmount(valueobject.NewMoneyUSD(*req.Amount))
	}
	if req.ThroughDate != nil {
		waiver.SetThroughDate(*req.ThroughDate)
	}
	if req.ReceivedDate != nil {
		waiver.SetReceivedDate(*req.ReceivedDate)
	}
	if req.AttachmentURL != "" {
		waiver.SetAttachmentURL(req.AttachmentURL)
	}
	if req.Notes != "" {
		waiver.SetNotes(req.Notes)
	}

	if err := s.waiverRepo.Save(ctx, waiver); err != nil {
		return nil, err
	}
	return toLienWaiverResponse(waiver), nil
}

// ListByPayApplication returns all waivers recorded for a pay application
func (s *LienWaiverService) ListByPayApplication(ctx context.Context, payAppID uuid.UUID) ([]LienWaiverResponse, error) {
	waivers, err := s.waiverRepo.FindByPayApplication(ctx, payAppID)
	if err != nil {
		return nil, err
	}

	responses := make([]LienWaiverResponse, 0, len(waivers))
	for idx := range waivers {
		responses = append(responses, *toLienWaiverResponse(&waivers[idx]))
	}
	return responses, nil
}

// MissingWaiver reports whether a pay application has no waivers on file.
// Used to surface the advisory warning at certification time.
func (s *LienWaiverService) MissingWaiver(ctx context.Context, payAppID uuid.UUID) (bool, error) {
	count, err := s.waiverRepo.CountByPayApplication(ctx, payAppID)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func toLienWaiverResponse(w *billing.LienWaiver) *LienWaiverResponse {
	return &LienWaiverResponse{
		ID:               w.ID,
		PayApplicationID: w.PayApplicationID,
		WaiverType:       w.WaiverType.String(),
		Amount:           w.Amount,
		ThroughDate:      w.ThroughDate,
		ReceivedDate:     w.ReceivedDate,
		AttachmentURL:    w.AttachmentURL,
		Notes:            w.Notes,
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        w.UpdatedAt,
	}
}

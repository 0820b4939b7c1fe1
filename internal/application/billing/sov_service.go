package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nspire/billing/internal/domain/billing"
	"github.com/nspire/billing/internal/domain/shared"
	"github.com/nspire/billing/internal/domain/shared/valueobject"
)

// maxNumberRetries bounds retries when a concurrent writer grabs the same
// sequence number before our insert lands.
const maxNumberRetries = 3

// ScheduleOfValuesService provides application-level SOV operations
type ScheduleOfValuesService struct {
	sovRepo billing.ScheduleOfValuesRepository
}

// NewScheduleOfValuesService creates a new ScheduleOfValuesService
func NewScheduleOfValuesService(sovRepo billing.ScheduleOfValuesRepository) *ScheduleOfValuesService {
	return &ScheduleOfValuesService{sovRepo: sovRepo}
}

// SOVLineItemResponse represents an SOV line item in API responses
type SOVLineItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProjectID      uuid.UUID       `json:"project_id"`
	ItemNumber     int             `json:"item_number"`
	Description    string          `json:"description"`
	ScheduledValue decimal.Decimal `json:"scheduled_value"`
	RetainagePct   decimal.Decimal `json:"retainage_pct"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ScheduleOfValuesResponse represents a project's full schedule of values
type ScheduleOfValuesResponse struct {
	ProjectID   uuid.UUID             `json:"project_id"`
	Items       []SOVLineItemResponse `json:"items"`
	ContractSum decimal.Decimal       `json:"contract_sum"`
}

// CreateSOVLineItemRequest represents a request to add an SOV line item
type CreateSOVLineItemRequest struct {
	Description    string          `json:"description" binding:"required"`
	ScheduledValue decimal.Decimal `json:"scheduled_value" binding:"required"`
	RetainagePct   decimal.Decimal `json:"retainage_pct"`
}

// CreateLineItem appends a line item to a project's schedule of values.
// Item numbers are issued sequentially; on a concurrent-insert collision the
// assignment is retried with a fresh number.
func (s *ScheduleOfValuesService) CreateLineItem(ctx context.Context, projectID uuid.UUID, req CreateSOVLineItemRequest) (*SOVLineItemResponse, error) {
	scheduledValue := valueobject.NewMoneyUSD(req.ScheduledValue)
	retainagePct, err := valueobject.NewPercent(req.RetainagePct)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION", err.Error())
	}

	var item *billing.SOVLineItem
	for attempt := 0; attempt < maxNumberRetries; attempt++ {
		sov, err := s.sovRepo.FindByProject(ctx, projectID)
		if err != nil {
			return nil, err
		}

		item, err = billing.NewSOVLineItem(projectID, sov.NextItemNumber(), req.Description, scheduledValue, retainagePct)
		if err != nil {
			return nil, err
		}

		err = s.sovRepo.SaveItem(ctx, item)
		if err == nil {
			return toSOVLineItemResponse(item), nil
		}
		var de *shared.DomainError
		if !errors.As(err, &de) || de.Code != "ALREADY_EXISTS" {
			return nil, err
		}
	}
	return nil, shared.NewDomainError("ALREADY_EXISTS", "Could not assign a unique item number, please retry")
}

// GetScheduleOfValues returns the full schedule for a project, ordered by
// item number
func (s *ScheduleOfValuesService) GetScheduleOfValues(ctx context.Context, projectID uuid.UUID) (*ScheduleOfValuesResponse, error) {
	sov, err := s.sovRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	items := make([]SOVLineItemResponse, 0, len(sov.Items))
	for idx := range sov.Items {
		items = append(items, *toSOVLineItemResponse(&sov.Items[idx]))
	}

	return &ScheduleOfValuesResponse{
		ProjectID:   sov.ProjectID,
		Items:       items,
		ContractSum: sov.ContractSum().Amount(),
	}, nil
}

func toSOVLineItemResponse(item *billing.SOVLineItem) *SOVLineItemResponse {
	return &SOVLineItemResponse{
		ID:             item.ID,
		ProjectID:      item.ProjectID,
		ItemNumber:     item.ItemNumber,
		Description:    item.Description,
		ScheduledValue: item.ScheduledValue,
		RetainagePct:   item.RetainagePct,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}

package billing

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nspire/billing/internal/domain/shared"
	"github.com/nspire/billing/internal/domain/shared/valueobject"
)

// SOVLineItem is one billable line of a project's schedule of values.
// ItemNumber is the canonical ordering for all downstream reports and is
// never reassigned once issued.
type SOVLineItem struct {
	shared.BaseEntity
	ProjectID      uuid.UUID
	ItemNumber     int
	Description    string
	ScheduledValue decimal.Decimal
	RetainagePct   decimal.Decimal
}

// NewSOVLineItem creates a schedule-of-values line item
func NewSOVLineItem(projectID uuid.UUID, itemNumber int, description string, scheduledValue valueobject.Money, retainagePct valueobject.Percent) (*SOVLineItem, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Project ID cannot be empty")
	}
	if itemNumber <= 0 {
		return nil, shared.NewDomainError("VALIDATION", "Item number must be positive")
	}
	if description == "" {
		return nil, shared.NewDomainError("VALIDATION", "Description cannot be empty")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("VALIDATION", "Description cannot exceed 500 characters")
	}
	if !scheduledValue.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION", "Scheduled value must be positive")
	}

	return &SOVLineItem{
		BaseEntity:     shared.NewBaseEntity(),
		ProjectID:      projectID,
		ItemNumber:     itemNumber,
		Description:    description,
		ScheduledValue: scheduledValue.Amount(),
		RetainagePct:   retainagePct.Decimal(),
	}, nil
}

// ScheduledValueMoney returns the scheduled value as Money
func (i *SOVLineItem) ScheduledValueMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.ScheduledValue)
}

// RetainagePercent returns the default retainage rate
func (i *SOVLineItem) RetainagePercent() valueobject.Percent {
	return valueobject.MustNewPercent(i.RetainagePct)
}

// ScheduleOfValues is the catalog of billable line items for a project.
// Items are append-only: a mis-entered item is corrected with an offsetting
// item, never deleted or renumbered, so that existing pay applications keep
// their references stable.
type ScheduleOfValues struct {
	ProjectID uuid.UUID
	Items     []SOVLineItem
}

// NewScheduleOfValues creates an empty schedule for a project
func NewScheduleOfValues(projectID uuid.UUID) (*ScheduleOfValues, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Project ID cannot be empty")
	}
	return &ScheduleOfValues{
		ProjectID: projectID,
		Items:     make([]SOVLineItem, 0),
	}, nil
}

// ReconstructScheduleOfValues rebuilds a schedule from persisted items,
// restoring item-number order
func ReconstructScheduleOfValues(projectID uuid.UUID, items []SOVLineItem) *ScheduleOfValues {
	sorted := make([]SOVLineItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].ItemNumber < sorted[b].ItemNumber })
	return &ScheduleOfValues{ProjectID: projectID, Items: sorted}
}

// AddLineItem appends a new line item with the next item number
func (s *ScheduleOfValues) AddLineItem(description string, scheduledValue valueobject.Money, retainagePct valueobject.Percent) (*SOVLineItem, error) {
	item, err := NewSOVLineItem(s.ProjectID, s.NextItemNumber(), description, scheduledValue, retainagePct)
	if err != nil {
		return nil, err
	}
	s.Items = append(s.Items, *item)
	return item, nil
}

// NextItemNumber returns the item number the next added line will receive
func (s *ScheduleOfValues) NextItemNumber() int {
	max := 0
	for _, item := range s.Items {
		if item.ItemNumber > max {
			max = item.ItemNumber
		}
	}
	return max + 1
}

// ItemByID returns the line item with the given ID, or nil
func (s *ScheduleOfValues) ItemByID(id uuid.UUID) *SOVLineItem {
	for idx := range s.Items {
		if s.Items[idx].ID == id {
			return &s.Items[idx]
		}
	}
	return nil
}

// IsEmpty returns true if the schedule has no line items
func (s *ScheduleOfValues) IsEmpty() bool {
	return len(s.Items) == 0
}

// ContractSum returns the sum of all scheduled values (G702 line 1)
func (s *ScheduleOfValues) ContractSum() valueobject.Money {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.ScheduledValue)
	}
	return valueobject.NewMoneyUSD(total)
}

package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nspire/billing/internal/domain/shared"
	"github.com/nspire/billing/internal/domain/shared/valueobject"
)

// PayAppStatus represents the certification status of a pay application
type PayAppStatus string

const (
	PayAppStatusDraft       PayAppStatus = "DRAFT"
	PayAppStatusSubmitted   PayAppStatus = "SUBMITTED"
	PayAppStatusUnderReview PayAppStatus = "UNDER_REVIEW"
	PayAppStatusCertified   PayAppStatus = "CERTIFIED"
	PayAppStatusPaid        PayAppStatus = "PAID"
	PayAppStatusDisputed    PayAppStatus = "DISPUTED"
)

// IsValid checks if the status is a valid PayAppStatus
func (s PayAppStatus) IsValid() bool {
	switch s {
	case PayAppStatusDraft, PayAppStatusSubmitted, PayAppStatusUnderReview,
		PayAppStatusCertified, PayAppStatusPaid, PayAppStatusDisputed:
		return true
	}
	return false
}

// String returns the string representation of PayAppStatus
func (s PayAppStatus) String() string {
	return string(s)
}

// IsTerminal returns true for statuses with no outgoing transitions
func (s PayAppStatus) IsTerminal() bool {
	return s == PayAppStatusPaid || s == PayAppStatusDisputed
}

// CanTransitionTo checks if the status can transition to the target status
func (s PayAppStatus) CanTransitionTo(target PayAppStatus) bool {
	switch s {
	case PayAppStatusDraft:
		return target == PayAppStatusSubmitted || target == PayAppStatusDisputed
	case PayAppStatusSubmitted:
		return target == PayAppStatusUnderReview || target == PayAppStatusCertified || target == PayAppStatusDisputed
	case PayAppStatusUnderReview:
		return target == PayAppStatusCertified || target == PayAppStatusDisputed
	case PayAppStatusCertified:
		return target == PayAppStatusPaid || target == PayAppStatusDisputed
	case PayAppStatusPaid, PayAppStatusDisputed:
		return false // Terminal states
	}
	return false
}

// PayAppLineItem is one period's billing row against a single SOV line.
//
// WorkCompletedPrevious is a frozen snapshot taken at creation; it is never
// recomputed from history, so a later correction to a prior period cannot
// silently change this period's figures.
type PayAppLineItem struct {
	ID                      uuid.UUID
	PayApplicationID        uuid.UUID
	SOVLineItemID           uuid.UUID
	WorkCompletedPrevious   decimal.Decimal
	WorkCompletedThisPeriod decimal.Decimal
	MaterialsStored         decimal.Decimal
	CertifiedThisPeriod     *decimal.Decimal // nil means "certified = billed"
	RetainagePctOverride    *decimal.Decimal // nil means "use SOV default"
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// NewPayAppLineItem creates a line item with the given carried-forward previous total
func NewPayAppLineItem(payAppID, sovLineItemID uuid.UUID, previous valueobject.Money) (*PayAppLineItem, error) {
	if payAppID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Pay application ID cannot be empty")
	}
	if sovLineItemID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "SOV line item ID cannot be empty")
	}
	if previous.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION", "Previous work completed cannot be negative")
	}

	now := time.Now()
	return &PayAppLineItem{
		ID:                      uuid.New(),
		PayApplicationID:        payAppID,
		SOVLineItemID:           sovLineItemID,
		WorkCompletedPrevious:   previous.Amount(),
		WorkCompletedThisPeriod: decimal.Zero,
		MaterialsStored:         decimal.Zero,
		CreatedAt:               now,
		UpdatedAt:               now,
	}, nil
}

// CertifiedOrBilled returns the amount owed for this line in this period:
// the certified override when set, otherwise the billed this-period amount.
func (i *PayAppLineItem) CertifiedOrBilled() decimal.Decimal {
	if i.CertifiedThisPeriod != nil {
		return *i.CertifiedThisPeriod
	}
	return i.WorkCompletedThisPeriod
}

// Total returns previous + this period + materials stored
func (i *PayAppLineItem) Total() decimal.Decimal {
	return i.WorkCompletedPrevious.Add(i.WorkCompletedThisPeriod).Add(i.MaterialsStored)
}

// PayApplication is the aggregate root for one billing period's payment
// application (AIA G702/G703 style). Line items are seeded at creation by
// carry-forward and become frozen once the application is paid.
type PayApplication struct {
	shared.BaseAggregateRoot
	ProjectID      uuid.UUID
	PayAppNumber   int
	PeriodFrom     time.Time
	PeriodTo       time.Time
	Status         PayAppStatus
	ContractorName string
	ContractNumber string
	SubmittedDate  *time.Time
	CertifiedDate  *time.Time
	CertifiedBy    *uuid.UUID
	Notes          string
	Items          []PayAppLineItem
}

// NewPayApplication creates a pay application in DRAFT status.
// payAppNumber must be the next number for the project; the persistence
// layer enforces uniqueness of (project, number).
func NewPayApplication(projectID uuid.UUID, payAppNumber int, period valueobject.Period, contractorName, contractNumber string) (*PayApplication, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Project ID cannot be empty")
	}
	if payAppNumber <= 0 {
		return nil, shared.NewDomainError("VALIDATION", "Pay application number must be positive")
	}
	if len(contractorName) > 200 {
		return nil, shared.NewDomainError("VALIDATION", "Contractor name cannot exceed 200 characters")
	}
	if len(contractNumber) > 50 {
		return nil, shared.NewDomainError("VALIDATION", "Contract number cannot exceed 50 characters")
	}

	app := &PayApplication{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProjectID:         projectID,
		PayAppNumber:      payAppNumber,
		PeriodFrom:        period.From(),
		PeriodTo:          period.To(),
		Status:            PayAppStatusDraft,
		ContractorName:    contractorName,
		ContractNumber:    contractNumber,
		Items:             make([]PayAppLineItem, 0),
	}

	app.AddDomainEvent(NewPayApplicationCreatedEvent(app))

	return app, nil
}

// AttachItems attaches the seeded line items. Only valid once, at creation.
func (a *PayApplication) AttachItems(items []PayAppLineItem) error {
	if len(a.Items) > 0 {
		return shared.NewDomainError("INVALID_STATE", "Line items are already attached")
	}
	for i := range items {
		items[i].PayApplicationID = a.ID
	}
	a.Items = items
	return nil
}

// IsFrozen returns true once line items can no longer be edited
func (a *PayApplication) IsFrozen() bool {
	return a.Status == PayAppStatusPaid
}

// itemForEdit looks up a line item and enforces the frozen invariant
func (a *PayApplication) itemForEdit(lineItemID uuid.UUID) (*PayAppLineItem, error) {
	if a.IsFrozen() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot edit line items of a paid pay application")
	}
	for idx := range a.Items {
		if a.Items[idx].ID == lineItemID {
			return &a.Items[idx], nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Pay application line item not found")
}

// SetLineThisPeriod sets the work completed this period for a line.
// Over-billing past the scheduled value is allowed; it surfaces through the
// percent-complete figure rather than being blocked here.
func (a *PayApplication) SetLineThisPeriod(lineItemID uuid.UUID, amount valueobject.Money) error {
	if amount.IsNegative() {
		return shared.NewDomainError("VALIDATION", "Work completed this period cannot be negative")
	}
	item, err := a.itemForEdit(lineItemID)
	if err != nil {
		return err
	}
	item.WorkCompletedThisPeriod = amount.Amount()
	item.UpdatedAt = time.Now()
	a.UpdatedAt = item.UpdatedAt
	return nil
}

// SetLineMaterialsStored sets the stored-materials amount for a line
func (a *PayApplication) SetLineMaterialsStored(lineItemID uuid.UUID, amount valueobject.Money) error {
	if amount.IsNegative() {
		return shared.NewDomainError("VALIDATION", "Materials stored cannot be negative")
	}
	item, err := a.itemForEdit(lineItemID)
	if err != nil {
		return err
	}
	item.MaterialsStored = amount.Amount()
	item.UpdatedAt = time.Now()
	a.UpdatedAt = item.UpdatedAt
	return nil
}

// SetLineCertifiedAmount sets or clears the certified override for a line.
// nil clears the override, restoring "certified = billed". Zero is a valid
// certified amount, distinct from no override.
func (a *PayApplication) SetLineCertifiedAmount(lineItemID uuid.UUID, amount *valueobject.Money) error {
	if amount != nil && amount.IsNegative() {
		return shared.NewDomainError("VALIDATION", "Certified amount cannot be negative")
	}
	item, err := a.itemForEdit(lineItemID)
	if err != nil {
		return err
	}
	if amount == nil {
		item.CertifiedThisPeriod = nil
	} else {
		v := amount.Amount()
		item.CertifiedThisPeriod = &v
	}
	item.UpdatedAt = time.Now()
	a.UpdatedAt = item.UpdatedAt
	return nil
}

// SetLineRetainageOverride sets or clears the per-line retainage rate
// override. nil restores the SOV default.
func (a *PayApplication) SetLineRetainageOverride(lineItemID uuid.UUID, pct *valueobject.Percent) error {
	item, err := a.itemForEdit(lineItemID)
	if err != nil {
		return err
	}
	if pct == nil {
		item.RetainagePctOverride = nil
	} else {
		v := pct.Decimal()
		item.RetainagePctOverride = &v
	}
	item.UpdatedAt = time.Now()
	a.UpdatedAt = item.UpdatedAt
	return nil
}

// Submit transitions the application from DRAFT to SUBMITTED and stamps the
// submission date
func (a *PayApplication) Submit(now time.Time) error {
	if !a.Status.CanTransitionTo(PayAppStatusSubmitted) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot submit pay application in %s status", a.Status))
	}

	a.Status = PayAppStatusSubmitted
	a.SubmittedDate = &now
	a.UpdatedAt = now

	a.AddDomainEvent(NewPayApplicationSubmittedEvent(a))

	return nil
}

// StartReview transitions the application from SUBMITTED to UNDER_REVIEW
func (a *PayApplication) StartReview(now time.Time) error {
	if !a.Status.CanTransitionTo(PayAppStatusUnderReview) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot start review of pay application in %s status", a.Status))
	}

	a.Status = PayAppStatusUnderReview
	a.UpdatedAt = now

	a.AddDomainEvent(NewPayApplicationUnderReviewEvent(a))

	return nil
}

// Certify transitions the application to CERTIFIED, stamping the
// certification date and the approving user. The caller's certifier
// capability is checked by the application service, not here.
func (a *PayApplication) Certify(certifiedBy uuid.UUID, now time.Time) error {
	if !a.Status.CanTransitionTo(PayAppStatusCertified) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot certify pay application in %s status", a.Status))
	}
	if certifiedBy == uuid.Nil {
		return shared.NewDomainError("VALIDATION", "Certifier user ID cannot be empty")
	}

	a.Status = PayAppStatusCertified
	a.CertifiedDate = &now
	a.CertifiedBy = &certifiedBy
	a.UpdatedAt = now

	a.AddDomainEvent(NewPayApplicationCertifiedEvent(a))

	return nil
}

// MarkPaid transitions the application from CERTIFIED to PAID. Line items
// are frozen from this point on.
func (a *PayApplication) MarkPaid(now time.Time) error {
	if !a.Status.CanTransitionTo(PayAppStatusPaid) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot mark pay application paid in %s status", a.Status))
	}

	a.Status = PayAppStatusPaid
	a.UpdatedAt = now

	a.AddDomainEvent(NewPayApplicationPaidEvent(a))

	return nil
}

// Dispute transitions the application to DISPUTED, recording the dispute
// notes. The application is retained for audit; resolution happens
// out-of-band via a corrective application.
func (a *PayApplication) Dispute(disputeNotes string, now time.Time) error {
	if disputeNotes == "" {
		return shared.NewDomainError("VALIDATION", "Dispute notes cannot be empty")
	}
	if !a.Status.CanTransitionTo(PayAppStatusDisputed) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot dispute pay application in %s status", a.Status))
	}

	a.Status = PayAppStatusDisputed
	a.Notes = disputeNotes
	a.UpdatedAt = now

	a.AddDomainEvent(NewPayApplicationDisputedEvent(a))

	return nil
}

// GetItem returns a line item by its ID, or nil
func (a *PayApplication) GetItem(lineItemID uuid.UUID) *PayAppLineItem {
	for idx := range a.Items {
		if a.Items[idx].ID == lineItemID {
			return &a.Items[idx]
		}
	}
	return nil
}

// GetItemBySOVLine returns the line item for a given SOV line, or nil
func (a *PayApplication) GetItemBySOVLine(sovLineItemID uuid.UUID) *PayAppLineItem {
	for idx := range a.Items {
		if a.Items[idx].SOVLineItemID == sovLineItemID {
			return &a.Items[idx]
		}
	}
	return nil
}

// Period returns the billing period of this application
func (a *PayApplication) Period() valueobject.Period {
	p, _ := valueobject.NewPeriod(a.PeriodFrom, a.PeriodTo)
	return p
}

// IsCertifiedOrPaid reports whether this application can serve as a
// carry-forward source for the next period
func (a *PayApplication) IsCertifiedOrPaid() bool {
	return a.Status == PayAppStatusCertified || a.Status == PayAppStatusPaid
}

package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nspire/billing/internal/domain/shared"
	"github.com/nspire/billing/internal/domain/shared/valueobject"
)

// WaiverType classifies a lien waiver document
type WaiverType string

const (
	WaiverConditionalProgress   WaiverType = "CONDITIONAL_PROGRESS"
	WaiverUnconditionalProgress WaiverType = "UNCONDITIONAL_PROGRESS"
	WaiverConditionalFinal      WaiverType = "CONDITIONAL_FINAL"
	WaiverUnconditionalFinal    WaiverType = "UNCONDITIONAL_FINAL"
)

// IsValid checks if the value is one of the four waiver types
func (w WaiverType) IsValid() bool {
	switch w {
	case WaiverConditionalProgress, WaiverUnconditionalProgress,
		WaiverConditionalFinal, WaiverUnconditionalFinal:
		return true
	}
	return false
}

// String returns the string representation of WaiverType
func (w WaiverType) String() string {
	return string(w)
}

// LienWaiver records a lien waiver document associated with a pay
// application. Records are purely additive and never affect billing totals;
// the waiver amount often intentionally differs from the billed amount, so
// no cross-check is performed. The attachment URL points at an externally
// stored document.
type LienWaiver struct {
	shared.BaseEntity
	PayApplicationID uuid.UUID
	WaiverType       WaiverType
	Amount           *decimal.Decimal
	ThroughDate      *time.Time
	ReceivedDate     *time.Time
	AttachmentURL    string
	Notes            string
}

// NewLienWaiver creates a lien waiver record
func NewLienWaiver(payAppID uuid.UUID, waiverType WaiverType) (*LienWaiver, error) {
	if payAppID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Pay application ID cannot be empty")
	}
	if !waiverType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION", "Waiver type must be one of the four lien waiver types")
	}

	return &LienWaiver{
		BaseEntity:       shared.NewBaseEntity(),
		PayApplicationID: payAppID,
		WaiverType:       waiverType,
	}, nil
}

// SetAmount sets the waiver amount
func (w *LienWaiver) SetAmount(amount valueobject.Money) {
	v := amount.Amount()
	w.Amount = &v
	w.UpdatedAt = time.Now()
}

// SetThroughDate sets the date the waiver covers work through
func (w *LienWaiver) SetThroughDate(d time.Time) {
	w.ThroughDate = &d
	w.UpdatedAt = time.Now()
}

// SetReceivedDate sets the date the signed waiver was received
func (w *LienWaiver) SetReceivedDate(d time.Time) {
	w.ReceivedDate = &d
	w.UpdatedAt = time.Now()
}

// SetAttachmentURL sets the opaque URL of the stored waiver document
func (w *LienWaiver) SetAttachmentURL(url string) {
	w.AttachmentURL = url
	w.UpdatedAt = time.Now()
}

// SetNotes sets free-form notes
func (w *LienWaiver) SetNotes(notes string) {
	w.Notes = notes
	w.UpdatedAt = time.Now()
}

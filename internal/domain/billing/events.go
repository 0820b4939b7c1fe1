package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/nspire/billing/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypePayApplication = "PayApplication"
)

// Event type constants
const (
	EventTypePayApplicationCreated     = "PayApplicationCreated"
	EventTypePayApplicationSubmitted   = "PayApplicationSubmitted"
	EventTypePayApplicationUnderReview = "PayApplicationUnderReview"
	EventTypePayApplicationCertified   = "PayApplicationCertified"
	EventTypePayApplicationPaid        = "PayApplicationPaid"
	EventTypePayApplicationDisputed    = "PayApplicationDisputed"
)

// PayApplicationCreatedEvent is raised when a new pay application is created
type PayApplicationCreatedEvent struct {
	shared.BaseDomainEvent
	PayApplicationID uuid.UUID `json:"pay_application_id"`
	ProjectID        uuid.UUID `json:"project_id"`
	PayAppNumber     int       `json:"pay_app_number"`
	PeriodFrom       time.Time `json:"period_from"`
	PeriodTo         time.Time `json:"period_to"`
}

// NewPayApplicationCreatedEvent creates a new PayApplicationCreatedEvent
func NewPayApplicationCreatedEvent(app *PayApplication) *PayApplicationCreatedEvent {
	return &PayApplicationCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypePayApplicationCreated, AggregateTypePayApplication, app.ID),
		PayApplicationID: app.ID,
		ProjectID:        app.ProjectID,
		PayAppNumber:     app.PayAppNumber,
		PeriodFrom:       app.PeriodFrom,
		PeriodTo:         app.PeriodTo,
	}
}

// PayApplicationSubmittedEvent is raised when a pay application is submitted
type PayApplicationSubmittedEvent struct {
	shared.BaseDomainEvent
	PayApplicationID uuid.UUID  `json:"pay_application_id"`
	ProjectID        uuid.UUID  `json:"project_id"`
	PayAppNumber     int        `json:"pay_app_number"`
	SubmittedDate    *time.Time `json:"submitted_date"`
}

// NewPayApplicationSubmittedEvent creates a new PayApplicationSubmittedEvent
func NewPayApplicationSubmittedEvent(app *PayApplication) *PayApplicationSubmittedEvent {
	return &PayApplicationSubmittedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypePayApplicationSubmitted, AggregateTypePayApplication, app.ID),
		PayApplicationID: app.ID,
		ProjectID:        app.ProjectID,
		PayAppNumber:     app.PayAppNumber,
		SubmittedDate:    app.SubmittedDate,
	}
}

// PayApplicationUnderReviewEvent is raised when review of a submitted pay
// application begins
type PayApplicationUnderReviewEvent struct {
	shared.BaseDomainEvent
	PayApplicationID uuid.UUID `json:"pay_application_id"`
	ProjectID        uuid.UUID `json:"project_id"`
	PayAppNumber     int       `json:"pay_app_number"`
}

// NewPayApplicationUnderReviewEvent creates a new PayApplicationUnderReviewEvent
func NewPayApplicationUnderReviewEvent(app *PayApplication) *PayApplicationUnderReviewEvent {
	return &PayApplicationUnderReviewEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypePayApplicationUnderReview, AggregateTypePayApplication, app.ID),
		PayApplicationID: app.ID,
		ProjectID:        app.ProjectID,
		PayAppNumber:     app.PayAppNumber,
	}
}

// PayApplicationCertifiedEvent is raised when a pay application is certified
type PayApplicationCertifiedEvent struct {
	shared.BaseDomainEvent
	PayApplicationID uuid.UUID  `json:"pay_application_id"`
	ProjectID        uuid.UUID  `json:"project_id"`
	PayAppNumber     int        `json:"pay_app_number"`
	CertifiedDate    *time.Time `json:"certified_date"`
	CertifiedBy      *uuid.UUID `json:"certified_by"`
}

// NewPayApplicationCertifiedEvent creates a new PayApplicationCertifiedEvent
func NewPayApplicationCertifiedEvent(app *PayApplication) *PayApplicationCertifiedEvent {
	return &PayApplicationCertifiedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypePayApplicationCertified, AggregateTypePayApplication, app.ID),
		PayApplicationID: app.ID,
		ProjectID:        app.ProjectID,
		PayAppNumber:     app.PayAppNumber,
		CertifiedDate:    app.CertifiedDate,
		CertifiedBy:      app.CertifiedBy,
	}
}

// PayApplicationPaidEvent is raised when a certified pay application is
// marked paid and its line items freeze
type PayApplicationPaidEvent struct {
	shared.BaseDomainEvent
	PayApplicationID uuid.UUID `json:"pay_application_id"`
	ProjectID        uuid.UUID `json:"project_id"`
	PayAppNumber     int       `json:"pay_app_number"`
}

// NewPayApplicationPaidEvent creates a new PayApplicationPaidEvent
func NewPayApplicationPaidEvent(app *PayApplication) *PayApplicationPaidEvent {
	return &PayApplicationPaidEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypePayApplicationPaid, AggregateTypePayApplication, app.ID),
		PayApplicationID: app.ID,
		ProjectID:        app.ProjectID,
		PayAppNumber:     app.PayAppNumber,
	}
}

// PayApplicationDisputedEvent is raised when a pay application is disputed
type PayApplicationDisputedEvent struct {
	shared.BaseDomainEvent
	PayApplicationID uuid.UUID `json:"pay_application_id"`
	ProjectID        uuid.UUID `json:"project_id"`
	PayAppNumber     int       `json:"pay_app_number"`
	Notes            string    `json:"notes"`
}

// NewPayApplicationDisputedEvent creates a new PayApplicationDisputedEvent
func NewPayApplicationDisputedEvent(app *PayApplication) *PayApplicationDisputedEvent {
	return &PayApplicationDisputedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypePayApplicationDisputed, AggregateTypePayApplication, app.ID),
		PayApplicationID: app.ID,
		ProjectID:        app.ProjectID,
		PayAppNumber:     app.PayAppNumber,
		Notes:            app.Notes,
	}
}

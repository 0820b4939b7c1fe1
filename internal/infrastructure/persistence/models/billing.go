package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nspire/billing/internal/domain/billing"
	"github.com/nspire/billing/internal/domain/shared"
)

// SOVLineItemModel is the persistence model for schedule-of-values line
// items. Item numbers are unique per project; AutoMigrate enforces this via
// the composite unique index.
type SOVLineItemModel struct {
	BaseModel
	ProjectID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_sov_project_item,priority:1;index"`
	ItemNumber     int             `gorm:"not null;uniqueIndex:idx_sov_project_item,priority:2"`
	Description    string          `gorm:"type:varchar(500);not null"`
	ScheduledValue decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RetainagePct   decimal.Decimal `gorm:"type:decimal(7,4);not null"`
}

// TableName returns the table name for GORM
func (SOVLineItemModel) TableName() string {
	return "sov_line_items"
}

// ToDomain converts the persistence model to a domain SOVLineItem
func (m *SOVLineItemModel) ToDomain() *billing.SOVLineItem {
	return &billing.SOVLineItem{
		BaseEntity:     m.BaseModel.ToDomain(),
		ProjectID:      m.ProjectID,
		ItemNumber:     m.ItemNumber,
		Description:    m.Description,
		ScheduledValue: m.ScheduledValue,
		RetainagePct:   m.RetainagePct,
	}
}

// SOVLineItemModelFromDomain builds a persistence model from a domain
// SOVLineItem
func SOVLineItemModelFromDomain(item *billing.SOVLineItem) *SOVLineItemModel {
	m := &SOVLineItemModel{
		ProjectID:      item.ProjectID,
		ItemNumber:     item.ItemNumber,
		Description:    item.Description,
		ScheduledValue: item.ScheduledValue,
		RetainagePct:   item.RetainagePct,
	}
	m.FromDomainBaseEntity(item.BaseEntity)
	return m
}

// PayApplicationModel is the persistence model for the PayApplication
// aggregate root. The unique index on (project_id, pay_app_number) backstops
// concurrent number assignment.
type PayApplicationModel struct {
	AggregateModel
	ProjectID      uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_payapp_project_number,priority:1;index"`
	PayAppNumber   int                   `gorm:"not null;uniqueIndex:idx_payapp_project_number,priority:2"`
	PeriodFrom     time.Time             `gorm:"not null"`
	PeriodTo       time.Time             `gorm:"not null"`
	Status         billing.PayAppStatus  `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	ContractorName string                `gorm:"type:varchar(200)"`
	ContractNumber string                `gorm:"type:varchar(50)"`
	SubmittedDate  *time.Time
	CertifiedDate  *time.Time
	CertifiedBy    *uuid.UUID            `gorm:"type:uuid"`
	Notes          string                `gorm:"type:text"`
	Items          []PayAppLineItemModel `gorm:"foreignKey:PayApplicationID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PayApplicationModel) TableName() string {
	return "pay_applications"
}

// ToDomain converts the persistence model to a domain PayApplication
func (m *PayApplicationModel) ToDomain() *billing.PayApplication {
	items := make([]billing.PayAppLineItem, len(m.Items))
	for i := range m.Items {
		items[i] = *m.Items[i].ToDomain()
	}

	return &billing.PayApplication{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		ProjectID:      m.ProjectID,
		PayAppNumber:   m.PayAppNumber,
		PeriodFrom:     m.PeriodFrom,
		PeriodTo:       m.PeriodTo,
		Status:         m.Status,
		ContractorName: m.ContractorName,
		ContractNumber: m.ContractNumber,
		SubmittedDate:  m.SubmittedDate,
		CertifiedDate:  m.CertifiedDate,
		CertifiedBy:    m.CertifiedBy,
		Notes:          m.Notes,
		Items:          items,
	}
}

// PayApplicationModelFromDomain builds a persistence model from a domain
// PayApplication
func PayApplicationModelFromDomain(app *billing.PayApplication) *PayApplicationModel {
	items := make([]PayAppLineItemModel, len(app.Items))
	for i := range app.Items {
		items[i] = *PayAppLineItemModelFromDomain(&app.Items[i])
	}

	m := &PayApplicationModel{
		ProjectID:      app.ProjectID,
		PayAppNumber:   app.PayAppNumber,
		PeriodFrom:     app.PeriodFrom,
		PeriodTo:       app.PeriodTo,
		Status:         app.Status,
		ContractorName: app.ContractorName,
		ContractNumber: app.ContractNumber,
		SubmittedDate:  app.SubmittedDate,
		CertifiedDate:  app.CertifiedDate,
		CertifiedBy:    app.CertifiedBy,
		Notes:          app.Notes,
		Items:          items,
	}
	m.FromDomainAggregateRoot(app.BaseAggregateRoot)
	return m
}

// PayAppLineItemModel is the persistence model for pay application line
// items. One row per SOV line per application.
type PayAppLineItemModel struct {
	ID                      uuid.UUID        `gorm:"type:uuid;primary_key"`
	PayApplicationID        uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_payapp_line_sov,priority:1;index"`
	SOVLineItemID           uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_payapp_line_sov,priority:2"`
	WorkCompletedPrevious   decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	WorkCompletedThisPeriod decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	MaterialsStored         decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	CertifiedThisPeriod     *decimal.Decimal `gorm:"type:decimal(18,4)"`
	RetainagePctOverride    *decimal.Decimal `gorm:"type:decimal(7,4)"`
	CreatedAt               time.Time        `gorm:"not null"`
	UpdatedAt               time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PayAppLineItemModel) TableName() string {
	return "pay_app_line_items"
}

// ToDomain converts the persistence model to a domain PayAppLineItem
func (m *PayAppLineItemModel) ToDomain() *billing.PayAppLineItem {
	return &billing.PayAppLineItem{
		ID:                      m.ID,
		PayApplicationID:        m.PayApplicationID,
		SOVLineItemID:           m.SOVLineItemID,
		WorkCompletedPrevious:   m.WorkCompletedPrevious,
		WorkCompletedThisPeriod: m.WorkCompletedThisPeriod,
		MaterialsStored:         m.MaterialsStored,
		CertifiedThisPeriod:     m.CertifiedThisPeriod,
		RetainagePctOverride:    m.RetainagePctOverride,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
}

// PayAppLineItemModelFromDomain builds a persistence model from a domain
// PayAppLineItem
func PayAppLineItemModelFromDomain(item *billing.PayAppLineItem) *PayAppLineItemModel {
	return &PayAppLineItemModel{
		ID:                      item.ID,
		PayApplicationID:        item.PayApplicationID,
		SOVLineItemID:           item.SOVLineItemID,
		WorkCompletedPrevious:   item.WorkCompletedPrevious,
		WorkCompletedThisPeriod: item.WorkCompletedThisPeriod,
		MaterialsStored:         item.MaterialsStored,
		CertifiedThisPeriod:     item.CertifiedThisPeriod,
		RetainagePctOverride:    item.RetainagePctOverride,
		CreatedAt:               item.CreatedAt,
		UpdatedAt:               item.UpdatedAt,
	}
}

// LienWaiverModel is the persistence model for lien waiver records
type LienWaiverModel struct {
	BaseModel
	PayApplicationID uuid.UUID          `gorm:"type:uuid;not null;index"`
	WaiverType       billing.WaiverType `gorm:"type:varchar(30);not null"`
	Amount           *decimal.Decimal   `gorm:"type:decimal(18,4)"`
	ThroughDate      *time.Time
	ReceivedDate     *time.Time
	AttachmentURL    string             `gorm:"type:varchar(1000)"`
	Notes            string             `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LienWaiverModel) TableName() string {
	return "lien_waivers"
}

// ToDomain converts the persistence model to a domain LienWaiver
func (m *LienWaiverModel) ToDomain() *billing.LienWaiver {
	return &billing.LienWaiver{
		BaseEntity:       m.BaseModel.ToDomain(),
		PayApplicationID: m.PayApplicationID,
		WaiverType:       m.WaiverType,
		Amount:           m.Amount,
		ThroughDate:      m.ThroughDate,
		ReceivedDate:     m.ReceivedDate,
		AttachmentURL:    m.AttachmentURL,
		Notes:            m.Notes,
	}
}

// LienWaiverModelFromDomain builds a persistence model from a domain
// LienWaiver
func LienWaiverModelFromDomain(w *billing.LienWaiver) *LienWaiverModel {
	m := &LienWaiverModel{
		PayApplicationID: w.PayApplicationID,
		WaiverType:       w.WaiverType,
		Amount:           w.Amount,
		ThroughDate:      w.ThroughDate,
		ReceivedDate:     w.ReceivedDate,
		AttachmentURL:    w.AttachmentURL,
		Notes:            w.Notes,
	}
	m.FromDomainBaseEntity(w.BaseEntity)
	return m
}

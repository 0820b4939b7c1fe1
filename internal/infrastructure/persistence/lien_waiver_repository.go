package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nspire/billing/internal/domain/billing"
	"github.com/nspire/billing/internal/infrastructure/persistence/models"
)

// GormLienWaiverRepository implements LienWaiverRepository using GORM
type GormLienWaiverRepository struct {
	db *gorm.DB
}

// NewGormLienWaiverRepository creates a new GormLienWaiverRepository
func NewGormLienWaiverRepository(db *gorm.DB) *GormLienWaiverRepository {
	return &GormLienWaiverRepository{db: db}
}

// FindByPayApplication returns all waivers for a pay application in
// insertion order
func (r *GormLienWaiverRepository) FindByPayApplication(ctx context.Context, payAppID uuid.UUID) ([]billing.LienWaiver, error) {
	var waiverModels []models.LienWaiverModel
	if err := r.db.WithContext(ctx).
		Where("pay_application_id = ?", payAppID).
		Order("created_at ASC").
		Find(&waiverModels).Error; err != nil {
		return nil, err
	}

	waivers := make([]billing.LienWaiver, len(waiverModels))
	for i := range waiverModels {
		waivers[i] = *waiverModels[i].ToDomain()
	}
	return waivers, nil
}

// Save persists a lien waiver record
func (r *GormLienWaiverRepository) Save(ctx context.Context, waiver *billing.LienWaiver) error {
	model := models.LienWaiverModelFromDomain(waiver)
	return r.db.WithContext(ctx).Save(model).Error
}

// CountByPayApplication counts waivers recorded for a pay application
func (r *GormLienWaiverRepository) CountByPayApplication(ctx context.Context, payAppID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LienWaiverModel{}).
		Where("pay_application_id = ?", payAppID).
		Count(&count).Error
	return count, err
}

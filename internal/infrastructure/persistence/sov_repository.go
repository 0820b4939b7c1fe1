package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nspire/billing/internal/domain/billing"
	"github.com/nspire/billing/internal/domain/shared"
	"github.com/nspire/billing/internal/infrastructure/persistence/models"
)

// GormScheduleOfValuesRepository implements ScheduleOfValuesRepository using GORM
type GormScheduleOfValuesRepository struct {
	db *gorm.DB
}

// NewGormScheduleOfValuesRepository creates a new GormScheduleOfValuesRepository
func NewGormScheduleOfValuesRepository(db *gorm.DB) *GormScheduleOfValuesRepository {
	return &GormScheduleOfValuesRepository{db: db}
}

// FindByProject loads the full schedule of values for a project
func (r *GormScheduleOfValuesRepository) FindByProject(ctx context.Context, projectID uuid.UUID) (*billing.ScheduleOfValues, error) {
	var itemModels []models.SOVLineItemModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("item_number ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}

	items := make([]billing.SOVLineItem, len(itemModels))
	for i := range itemModels {
		items[i] = *itemModels[i].ToDomain()
	}
	return billing.ReconstructScheduleOfValues(projectID, items), nil
}

// SaveItem persists a single SOV line item
func (r *GormScheduleOfValuesRepository) SaveItem(ctx context.Context, item *billing.SOVLineItem) error {
	model := models.SOVLineItemModelFromDomain(item)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// CountByProject counts SOV line items for a project
func (r *GormScheduleOfValuesRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SOVLineItemModel{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}

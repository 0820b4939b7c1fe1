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

// GormPayApplicationRepository implements PayApplicationRepository using GORM
type GormPayApplicationRepository struct {
	db *gorm.DB
}

// NewGormPayApplicationRepository creates a new GormPayApplicationRepository
func NewGormPayApplicationRepository(db *gorm.DB) *GormPayApplicationRepository {
	return &GormPayApplicationRepository{db: db}
}

// FindByID finds a pay application with its line items by ID
func (r *GormPayApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PayApplication, error) {
	var model models.PayApplicationModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProjectAndNumber finds a pay application by its per-project number
func (r *GormPayApplicationRepository) FindByProjectAndNumber(ctx context.Context, projectID uuid.UUID, payAppNumber int) (*billing.PayApplication, error) {
	var model models.PayApplicationModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("project_id = ? AND pay_app_number = ?", projectID, payAppNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllByProject finds all pay applications for a project with pagination
func (r *GormPayApplicationRepository) FindAllByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]billing.PayApplication, error) {
	var appModels []models.PayApplicationModel
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("project_id = ?", projectID).
		Order("pay_app_number DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	if err := query.Find(&appModels).Error; err != nil {
		return nil, err
	}

	apps := make([]billing.PayApplication, len(appModels))
	for i := range appModels {
		apps[i] = *appModels[i].ToDomain()
	}
	return apps, nil
}

// FindLatestCertified finds the highest-numbered CERTIFIED or PAID pay
// application for a project. This is the carry-forward source.
func (r *GormPayApplicationRepository) FindLatestCertified(ctx context.Context, projectID uuid.UUID) (*billing.PayApplication, error) {
	var model models.PayApplicationModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("project_id = ? AND status IN ?", projectID,
			[]billing.PayAppStatus{billing.PayAppStatusCertified, billing.PayAppStatusPaid}).
		Order("pay_app_number DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// NextPayAppNumber returns max(existing)+1 for a project. The unique index
// on (project_id, pay_app_number) catches concurrent assignment; Create
// reports the collision and the caller retries.
func (r *GormPayApplicationRepository) NextPayAppNumber(ctx context.Context, projectID uuid.UUID) (int, error) {
	var max *int
	if err := r.db.WithContext(ctx).Model(&models.PayApplicationModel{}).
		Where("project_id = ?", projectID).
		Select("MAX(pay_app_number)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}

// Create inserts a new pay application and its line items atomically
func (r *GormPayApplicationRepository) Create(ctx context.Context, app *billing.PayApplication) error {
	model := models.PayApplicationModelFromDomain(app)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save updates a pay application and its line items with optimistic locking
func (r *GormPayApplicationRepository) Save(ctx context.Context, app *billing.PayApplication) error {
	expectedVersion := app.Version
	app.IncrementVersion()
	model := models.PayApplicationModelFromDomain(app)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PayApplicationModel{}).
			Where("id = ? AND version = ?", app.ID, expectedVersion).
			Select("*").
			Omit("Items", "id", "created_at").
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			app.Version = expectedVersion
			return shared.NewDomainError("VERSION_CONFLICT", "Pay application has been modified by another user")
		}

		for i := range model.Items {
			model.Items[i].PayApplicationID = app.ID
			if err := tx.Save(&model.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CountByProject counts pay applications for a project
func (r *GormPayApplicationRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PayApplicationModel{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}

package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/nspire/billing/internal/domain/shared"
)

// ScheduleOfValuesRepository defines the interface for SOV persistence
type ScheduleOfValuesRepository interface {
	// FindByProject loads the full schedule of values for a project,
	// ordered by item number
	FindByProject(ctx context.Context, projectID uuid.UUID) (*ScheduleOfValues, error)

	// SaveItem persists a single SOV line item. Item number uniqueness per
	// project is enforced by a unique constraint; callers retry assignment
	// on shared.ErrAlreadyExists.
	SaveItem(ctx context.Context, item *SOVLineItem) error

	// CountByProject counts SOV line items for a project
	CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error)
}

// PayApplicationRepository defines the interface for pay application
// persistence
type PayApplicationRepository interface {
	// FindByID finds a pay application (with line items) by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PayApplication, error)

	// FindByProjectAndNumber finds a pay application by its per-project number
	FindByProjectAndNumber(ctx context.Context, projectID uuid.UUID, payAppNumber int) (*PayApplication, error)

	// FindAllByProject finds all pay applications for a project with filtering
	FindAllByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]PayApplication, error)

	// FindLatestCertified finds the most recently numbered pay application
	// in CERTIFIED or PAID status for a project; returns shared.ErrNotFound
	// when none exists. This is the carry-forward source: a disputed or
	// still-open application is never read.
	FindLatestCertified(ctx context.Context, projectID uuid.UUID) (*PayApplication, error)

	// NextPayAppNumber returns max(existing)+1 for a project. The unique
	// constraint on (project_id, pay_app_number) backstops concurrent
	// assignment; Create returns shared.ErrAlreadyExists on collision and
	// the caller retries.
	NextPayAppNumber(ctx context.Context, projectID uuid.UUID) (int, error)

	// Create inserts a new pay application and its line items atomically
	Create(ctx context.Context, app *PayApplication) error

	// Save updates a pay application and its line items with optimistic
	// locking (version check)
	Save(ctx context.Context, app *PayApplication) error

	// CountByProject counts pay applications for a project
	CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error)
}

// LienWaiverRepository defines the interface for lien waiver persistence
type LienWaiverRepository interface {
	// FindByPayApplication returns all waivers for a pay application in
	// insertion order
	FindByPayApplication(ctx context.Context, payAppID uuid.UUID) ([]LienWaiver, error)

	// Save persists a lien waiver record
	Save(ctx context.Context, waiver *LienWaiver) error

	// CountByPayApplication counts waivers recorded for a pay application
	CountByPayApplication(ctx context.Context, payAppID uuid.UUID) (int64, error)
}

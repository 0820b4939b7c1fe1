package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nspire/billing/internal/domain/billing"
	"github.com/nspire/billing/internal/domain/shared"
)

// mockSOVRepo is a mock implementation of billing.ScheduleOfValuesRepository
type mockSOVRepo struct {
	mock.Mock
}

func (m *mockSOVRepo) FindByProject(ctx context.Context, projectID uuid.UUID) (*billing.ScheduleOfValues, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.ScheduleOfValues), args.Error(1)
}

func (m *mockSOVRepo) SaveItem(ctx context.Context, item *billing.SOVLineItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockSOVRepo) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(int64), args.Error(1)
}

// mockPayAppRepo is a mock implementation of billing.PayApplicationRepository
type mockPayAppRepo struct {
	mock.Mock
}

func (m *mockPayAppRepo) FindByID(ctx context.Context, id uuid.UUID) (*billing.PayApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PayApplication), args.Error(1)
}

func (m *mockPayAppRepo) FindByProjectAndNumber(ctx context.Context, projectID uuid.UUID, payAppNumber int) (*billing.PayApplication, error) {
	args := m.Called(ctx, projectID, payAppNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PayApplication), args.Error(1)
}

func (m *mockPayAppRepo) FindAllByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]billing.PayApplication, error) {
	args := m.Called(ctx, projectID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.PayApplication), args.Error(1)
}

func (m *mockPayAppRepo) FindLatestCertified(ctx context.Context, projectID uuid.UUID) (*billing.PayApplication, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PayApplication), args.Error(1)
}

func (m *mockPayAppRepo) NextPayAppNumber(ctx context.Context, projectID uuid.UUID) (int, error) {
	args := m.Called(ctx, projectID)
	return args.Int(0), args.Error(1)
}

func (m *mockPayAppRepo) Create(ctx context.Context, app *billing.PayApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *mockPayAppRepo) Save(ctx context.Context, app *billing.PayApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *mockPayAppRepo) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(int64), args.Error(1)
}

// mockWaiverRepo is a mock implementation of billing.LienWaiverRepository
type mockWaiverRepo struct {
	mock.Mock
}

func (m *mockWaiverRepo) FindByPayApplication(ctx context.Context, payAppID uuid.UUID) ([]billing.LienWaiver, error) {
	args := m.Called(ctx, payAppID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.LienWaiver), args.Error(1)
}

func (m *mockWaiverRepo) Save(ctx context.Context, waiver *billing.LienWaiver) error {
	args := m.Called(ctx, waiver)
	return args.Error(0)
}

func (m *mockWaiverRepo) CountByPayApplication(ctx context.Context, payAppID uuid.UUID) (int64, error) {
	args := m.Called(ctx, payAppID)
	return args.Get(0).(int64), args.Error(1)
}

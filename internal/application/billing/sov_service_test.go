package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nspire/billing/internal/domain/billing"
	"github.com/nspire/billing/internal/domain/shared"
)

func TestScheduleOfValuesService_CreateLineItem(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()

	req := CreateSOVLineItemRequest{
		Description:    "Site work",
		ScheduledValue: decimal.NewFromInt(100000),
		RetainagePct:   decimal.NewFromInt(10),
	}

	t.Run("assigns next item number", func(t *testing.T) {
		sovRepo := new(mockSOVRepo)
		svc := NewScheduleOfValuesService(sovRepo)

		sov := testSOV(t, projectID) // already holds item number 1
		sovRepo.On("FindByProject", ctx, projectID).Return(sov, nil)
		sovRepo.On("SaveItem", ctx, mock.AnythingOfType("*billing.SOVLineItem")).Return(nil)

		resp, err := svc.CreateLineItem(ctx, projectID, req)
		require.NoError(t, err)

		assert.Equal(t, 2, resp.ItemNumber)
		assert.Equal(t, "Site work", resp.Description)
		assert.Equal(t, "100000", resp.ScheduledValue.String())
	})

	t.Run("retries with a fresh number on collision", func(t *testing.T) {
		sovRepo := new(mockSOVRepo)
		svc := NewScheduleOfValuesService(sovRepo)

		empty, err := billing.NewScheduleOfValues(projectID)
		require.NoError(t, err)
		sov := testSOV(t, projectID)

		sovRepo.On("FindByProject", ctx, projectID).Return(empty, nil).Once()
		sovRepo.On("SaveItem", ctx, mock.AnythingOfType("*billing.SOVLineItem")).Return(shared.ErrAlreadyExists).Once()
		sovRepo.On("FindByProject", ctx, projectID).Return(sov, nil).Once()
		sovRepo.On("SaveItem", ctx, mock.AnythingOfType("*billing.SOVLineItem")).Return(nil).Once()

		resp, err := svc.CreateLineItem(ctx, projectID, req)
		require.NoError(t, err)
		assert.Equal(t, 2, resp.ItemNumber)
		sovRepo.AssertExpectations(t)
	})

	t.Run("rejects retainage over 100", func(t *testing.T) {
		svc := NewScheduleOfValuesService(new(mockSOVRepo))

		bad := req
		bad.RetainagePct = decimal.NewFromInt(101)
		_, err := svc.CreateLineItem(ctx, projectID, bad)

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "VALIDATION", de.Code)
	})
}

func TestScheduleOfValuesService_GetScheduleOfValues(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()

	sovRepo := new(mockSOVRepo)
	svc := NewScheduleOfValuesService(sovRepo)

	sovRepo.On("FindByProject", ctx, projectID).Return(testSOV(t, projectID), nil)

	resp, err := svc.GetScheduleOfValues(ctx, projectID)
	require.NoError(t, err)

	assert.Equal(t, projectID, resp.ProjectID)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "100000", resp.ContractSum.String())
}

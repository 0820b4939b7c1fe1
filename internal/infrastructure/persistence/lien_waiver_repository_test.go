package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nspire/billing/internal/domain/billing"
	"github.com/nspire/billing/internal/domain/shared/valueobject"
)

func TestGormLienWaiverRepository_SaveAndFind(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormLienWaiverRepository(db)
	ctx := context.Background()

	payAppID := uuid.New()

	waiver, err := billing.NewLienWaiver(payAppID, billing.WaiverConditionalProgress)
	require.NoError(t, err)
	waiver.SetAmount(valueobject.NewMoneyUSDFromFloat(36000))
	waiver.SetThroughDate(time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC))
	waiver.SetAttachmentURL("https://docs.example.com/waivers/w-1.pdf")
	require.NoError(t, repo.Save(ctx, waiver))

	second, err := billing.NewLienWaiver(payAppID, billing.WaiverUnconditionalProgress)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, second))

	waivers, err := repo.FindByPayApplication(ctx, payAppID)
	require.NoError(t, err)
	require.Len(t, waivers, 2)

	assert.Equal(t, billing.WaiverConditionalProgress, waivers[0].WaiverType)
	require.NotNil(t, waivers[0].Amount)
	assert.Equal(t, "36000", waivers[0].Amount.String())
	require.NotNil(t, waivers[0].ThroughDate)
	assert.Equal(t, "https://docs.example.com/waivers/w-1.pdf", waivers[0].AttachmentURL)
	assert.Nil(t, waivers[0].ReceivedDate)

	count, err := repo.CountByPayApplication(ctx, payAppID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountByPayApplication(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, count)
}

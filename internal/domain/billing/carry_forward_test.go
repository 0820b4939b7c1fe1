package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nspire/billing/internal/domain/shared/valueobject"
)

func TestSeedLineItems(t *testing.T) {
	t.Run("first application starts at zero", func(t *testing.T) {
		sov := buildSingleLineSOV(t, 100000, 10)

		items, err := SeedLineItems(uuid.New(), sov, nil)
		require.NoError(t, err)

		require.Len(t, items, 1)
		assert.True(t, items[0].WorkCompletedPrevious.IsZero())
		assert.Equal(t, sov.Items[0].ID, items[0].SOVLineItemID)
	})

	t.Run("rejects empty schedule", func(t *testing.T) {
		sov, err := NewScheduleOfValues(uuid.New())
		require.NoError(t, err)

		_, err = SeedLineItems(uuid.New(), sov, nil)
		assert.Equal(t, "PRECONDITION", domainCode(t, err))
	})

	t.Run("rejects uncertified prior", func(t *testing.T) {
		sov := buildSingleLineSOV(t, 100000, 10)
		prior := buildSeededPayApp(t, sov, 1, nil)

		_, err := SeedLineItems(uuid.New(), sov, prior)
		assert.Equal(t, "PRECONDITION", domainCode(t, err))
	})

	t.Run("carries forward billed total", func(t *testing.T) {
		sov := buildSingleLineSOV(t, 100000, 10)
		prior := buildSeededPayApp(t, sov, 1, nil)
		require.NoError(t, prior.SetLineThisPeriod(prior.Items[0].ID, valueobject.NewMoneyUSDFromFloat(40000)))
		require.NoError(t, prior.SetLineMaterialsStored(prior.Items[0].ID, valueobject.NewMoneyUSDFromFloat(2500)))
		require.NoError(t, prior.Submit(time.Now()))
		require.NoError(t, prior.Certify(uuid.New(), time.Now()))

		items, err := SeedLineItems(uuid.New(), sov, prior)
		require.NoError(t, err)

		assert.Equal(t, "42500", items[0].WorkCompletedPrevious.String())
	})

	t.Run("certified override replaces billed amount", func(t *testing.T) {
		sov := buildSingleLineSOV(t, 100000, 10)
		prior := buildSeededPayApp(t, sov, 1, nil)
		lineID := prior.Items[0].ID
		require.NoError(t, prior.SetLineThisPeriod(lineID, valueobject.NewMoneyUSDFromFloat(40000)))
		certified := valueobject.NewMoneyUSDFromFloat(35000)
		require.NoError(t, prior.SetLineCertifiedAmount(lineID, &certified))
		require.NoError(t, prior.Submit(time.Now()))
		require.NoError(t, prior.Certify(uuid.New(), time.Now()))

		items, err := SeedLineItems(uuid.New(), sov, prior)
		require.NoError(t, err)

		assert.Equal(t, "35000", items[0].WorkCompletedPrevious.String())
	})

	t.Run("sov line added after prior starts at zero", func(t *testing.T) {
		sov := buildSingleLineSOV(t, 100000, 10)
		prior := buildSeededPayApp(t, sov, 1, nil)
		require.NoError(t, prior.SetLineThisPeriod(prior.Items[0].ID, valueobject.NewMoneyUSDFromFloat(40000)))
		require.NoError(t, prior.Submit(time.Now()))
		require.NoError(t, prior.Certify(uuid.New(), time.Now()))

		pct, _ := valueobject.NewPercentFromFloat(10)
		added, err := sov.AddLineItem("Change order work", valueobject.NewMoneyUSDFromFloat(25000), pct)
		require.NoError(t, err)

		items, err := SeedLineItems(uuid.New(), sov, prior)
		require.NoError(t, err)

		require.Len(t, items, 2)
		for _, item := range items {
			if item.SOVLineItemID == added.ID {
				assert.True(t, item.WorkCompletedPrevious.IsZero())
			} else {
				assert.Equal(t, "40000", item.WorkCompletedPrevious.String())
			}
		}
	})

	// previous(N+1) must equal total certified-to-date(N): seeding the next
	// period from a certified application and billing nothing yields the same
	// cumulative figure.
	t.Run("carry-forward is idempotent across an empty period", func(t *testing.T) {
		sov := buildSingleLineSOV(t, 100000, 10)
		first := buildSeededPayApp(t, sov, 1, nil)
		require.NoError(t, first.SetLineThisPeriod(first.Items[0].ID, valueobject.NewMoneyUSDFromFloat(40000)))
		require.NoError(t, first.Submit(time.Now()))
		require.NoError(t, first.Certify(uuid.New(), time.Now()))

		second := buildSeededPayApp(t, sov, 2, first)
		require.NoError(t, second.Submit(time.Now()))
		require.NoError(t, second.Certify(uuid.New(), time.Now()))

		third := buildSeededPayApp(t, sov, 3, second)
		assert.Equal(t, "40000", third.Items[0].WorkCompletedPrevious.String())
	})
}

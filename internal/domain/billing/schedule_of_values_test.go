package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nspire/billing/internal/domain/shared/valueobject"
)

func TestNewSOVLineItem(t *testing.T) {
	projectID := uuid.New()
	value := valueobject.NewMoneyUSDFromFloat(100000)
	tenPct, err := valueobject.NewPercentFromFloat(10)
	require.NoError(t, err)

	t.Run("creates valid line item", func(t *testing.T) {
		item, err := NewSOVLineItem(projectID, 1, "Site work", value, tenPct)
		require.NoError(t, err)

		assert.Equal(t, projectID, item.ProjectID)
		assert.Equal(t, 1, item.ItemNumber)
		assert.Equal(t, "Site work", item.Description)
		assert.Equal(t, "100000", item.ScheduledValue.String())
		assert.Equal(t, "10", item.RetainagePct.String())
	})

	tests := []struct {
		name        string
		projectID   uuid.UUID
		itemNumber  int
		description string
		value       valueobject.Money
	}{
		{"empty project", uuid.Nil, 1, "Site work", value},
		{"zero item number", projectID, 0, "Site work", value},
		{"empty description", projectID, 1, "", value},
		{"zero scheduled value", projectID, 1, "Site work", valueobject.ZeroUSD()},
		{"negative scheduled value", projectID, 1, "Site work", valueobject.NewMoneyUSDFromFloat(-1)},
	}

	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			_, err := NewSOVLineItem(tt.projectID, tt.itemNumber, tt.description, tt.value, tenPct)
			assert.Equal(t, "VALIDATION", domainCode(t, err))
		})
	}
}

func TestScheduleOfValues_AddLineItem(t *testing.T) {
	pct, _ := valueobject.NewPercentFromFloat(10)

	t.Run("assigns sequential item numbers", func(t *testing.T) {
		sov, err := NewScheduleOfValues(uuid.New())
		require.NoError(t, err)

		first, err := sov.AddLineItem("Concrete", valueobject.NewMoneyUSDFromFloat(60000), pct)
		require.NoError(t, err)
		second, err := sov.AddLineItem("Framing", valueobject.NewMoneyUSDFromFloat(40000), pct)
		require.NoError(t, err)

		assert.Equal(t, 1, first.ItemNumber)
		assert.Equal(t, 2, second.ItemNumber)
		assert.Equal(t, 3, sov.NextItemNumber())
	})

	t.Run("contract sum is the sum of scheduled values", func(t *testing.T) {
		sov, _ := NewScheduleOfValues(uuid.New())
		_, err := sov.AddLineItem("Concrete", valueobject.NewMoneyUSDFromFloat(60000), pct)
		require.NoError(t, err)
		_, err = sov.AddLineItem("Framing", valueobject.NewMoneyUSDFromFloat(40000), pct)
		require.NoError(t, err)

		assert.Equal(t, "100000.00 USD", sov.ContractSum().String())
	})
}

func TestReconstructScheduleOfValues(t *testing.T) {
	projectID := uuid.New()
	pct, _ := valueobject.NewPercentFromFloat(5)

	a, _ := NewSOVLineItem(projectID, 3, "Roofing", valueobject.NewMoneyUSDFromFloat(30000), pct)
	b, _ := NewSOVLineItem(projectID, 1, "Site work", valueobject.NewMoneyUSDFromFloat(10000), pct)
	c, _ := NewSOVLineItem(projectID, 2, "Foundation", valueobject.NewMoneyUSDFromFloat(20000), pct)

	sov := ReconstructScheduleOfValues(projectID, []SOVLineItem{*a, *b, *c})

	require.Len(t, sov.Items, 3)
	assert.Equal(t, 1, sov.Items[0].ItemNumber)
	assert.Equal(t, 2, sov.Items[1].ItemNumber)
	assert.Equal(t, 3, sov.Items[2].ItemNumber)
	assert.NotNil(t, sov.ItemByID(b.ID))
	assert.Nil(t, sov.ItemByID(uuid.New()))
}

package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nspire/billing/internal/domain/shared/valueobject"
)

func TestWaiverType_IsValid(t *testing.T) {
	tests := []struct {
		waiverType WaiverType
		isValid    bool
	}{
		{WaiverConditionalProgress, true},
		{WaiverUnconditionalProgress, true},
		{WaiverConditionalFinal, true},
		{WaiverUnconditionalFinal, true},
		{WaiverType("PARTIAL"), false},
		{WaiverType(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.waiverType), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.waiverType.IsValid())
		})
	}
}

func TestNewLienWaiver(t *testing.T) {
	t.Run("creates waiver record", func(t *testing.T) {
		payAppID := uuid.New()
		w, err := NewLienWaiver(payAppID, WaiverConditionalProgress)
		require.NoError(t, err)

		assert.Equal(t, payAppID, w.PayApplicationID)
		assert.Equal(t, WaiverConditionalProgress, w.WaiverType)
		assert.Nil(t, w.Amount)
		assert.Nil(t, w.ThroughDate)
		assert.Nil(t, w.ReceivedDate)
	})

	t.Run("rejects empty pay application", func(t *testing.T) {
		_, err := NewLienWaiver(uuid.Nil, WaiverConditionalProgress)
		assert.Equal(t, "VALIDATION", domainCode(t, err))
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewLienWaiver(uuid.New(), WaiverType("PARTIAL"))
		assert.Equal(t, "VALIDATION", domainCode(t, err))
	})
}

func TestLienWaiver_Setters(t *testing.T) {
	w, err := NewLienWaiver(uuid.New(), WaiverUnconditionalFinal)
	require.NoError(t, err)

	// the waiver amount may intentionally differ from the billed amount
	w.SetAmount(valueobject.NewMoneyUSDFromFloat(36000))
	through := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	w.SetThroughDate(through)
	received := time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)
	w.SetReceivedDate(received)
	w.SetAttachmentURL("s3://waivers/2026/w-1001.pdf")
	w.SetNotes("final waiver")

	require.NotNil(t, w.Amount)
	assert.Equal(t, "36000", w.Amount.String())
	assert.Equal(t, through, *w.ThroughDate)
	assert.Equal(t, received, *w.ReceivedDate)
	assert.Equal(t, "s3://waivers/2026/w-1001.pdf", w.AttachmentURL)
	assert.Equal(t, "final waiver", w.Notes)
}

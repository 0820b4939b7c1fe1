package billing

import (
	"github.com/google/uuid"

	"github.com/nspire/billing/internal/domain/shared"
	"github.com/nspire/billing/internal/domain/shared/valueobject"
)

// SeedLineItems creates one PayAppLineItem per SOV line for a new pay
// application, carrying forward the cumulative total of the prior certified
// (or paid) application.
//
// For each line of the prior application the new previous balance is
// previous + certified-or-billed + materials stored: the certified override
// replaces the billed this-period amount when set, since certification can
// differ from what was billed. With no prior application every line starts
// at zero. SOV items added after the prior application was created have no
// matching prior line and also start at zero.
func SeedLineItems(payAppID uuid.UUID, sov *ScheduleOfValues, prior *PayApplication) ([]PayAppLineItem, error) {
	if sov == nil || sov.IsEmpty() {
		return nil, shared.NewDomainError("PRECONDITION", "Schedule of values has no line items to bill")
	}
	if prior != nil && !prior.IsCertifiedOrPaid() {
		return nil, shared.NewDomainError("PRECONDITION", "Carry-forward source must be a certified or paid pay application")
	}

	items := make([]PayAppLineItem, 0, len(sov.Items))
	for _, sovItem := range sov.Items {
		previous := valueobject.ZeroUSD()
		if prior != nil {
			if priorLine := prior.GetItemBySOVLine(sovItem.ID); priorLine != nil {
				carried := priorLine.WorkCompletedPrevious.
					Add(priorLine.CertifiedOrBilled()).
					Add(priorLine.MaterialsStored)
				previous = valueobject.NewMoneyUSD(carried)
			}
		}

		item, err := NewPayAppLineItem(payAppID, sovItem.ID, previous)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

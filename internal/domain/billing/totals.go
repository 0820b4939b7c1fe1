package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nspire/billing/internal/domain/shared/valueobject"
)

// LineTotals is the G703 continuation-sheet row for one line item.
// Percentages are rounded for display; monetary figures keep full precision.
type LineTotals struct {
	SOVLineItemID       uuid.UUID       `json:"sov_line_item_id"`
	ItemNumber          int             `json:"item_number"`
	Description         string          `json:"description"`
	ScheduledValue      decimal.Decimal `json:"scheduled_value"`
	Previous            decimal.Decimal `json:"previous"`
	ThisPeriod          decimal.Decimal `json:"this_period"`
	MaterialsStored     decimal.Decimal `json:"materials_stored"`
	Total               decimal.Decimal `json:"total"`
	PctComplete         decimal.Decimal `json:"pct_complete"`
	RetainagePct        decimal.Decimal `json:"retainage_pct"`
	Retainage           decimal.Decimal `json:"retainage"`
	CertifiedThisPeriod decimal.Decimal `json:"certified_this_period"`
}

// PayAppTotals is the G702 summary read model for one pay application.
// It is recomputed from line items on every read and never persisted, so a
// stale summary cannot exist.
type PayAppTotals struct {
	PayApplicationID    uuid.UUID       `json:"pay_application_id"`
	Lines               []LineTotals    `json:"lines"`
	ScheduledValue      decimal.Decimal `json:"scheduled_value"`
	CompletedPrevious   decimal.Decimal `json:"completed_previous"`
	CompletedThisPeriod decimal.Decimal `json:"completed_this_period"`
	MaterialsStored     decimal.Decimal `json:"materials_stored"`
	TotalEarned         decimal.Decimal `json:"total_earned"`
	RetainageHeld       decimal.Decimal `json:"retainage_held"`
	CertifiedThisPeriod decimal.Decimal `json:"certified_this_period"`
	PctComplete         decimal.Decimal `json:"pct_complete"`
	NetPayment          decimal.Decimal `json:"net_payment"`
}

// CalculateTotals computes the G703 column totals and G702 summary for a
// pay application against its schedule of values. It is a pure function of
// its inputs: sums use exact decimal addition with no intermediate rounding.
//
// NetPayment is the amount currently due: total earned net of retainage,
// minus everything carried forward from prior certified periods. This
// mirrors AIA G702 line 1-9 semantics.
func CalculateTotals(sov *ScheduleOfValues, app *PayApplication) PayAppTotals {
	totals := PayAppTotals{
		PayApplicationID:    app.ID,
		Lines:               make([]LineTotals, 0, len(app.Items)),
		ScheduledValue:      decimal.Zero,
		CompletedPrevious:   decimal.Zero,
		CompletedThisPeriod: decimal.Zero,
		MaterialsStored:     decimal.Zero,
		TotalEarned:         decimal.Zero,
		RetainageHeld:       decimal.Zero,
		CertifiedThisPeriod: decimal.Zero,
		PctComplete:         decimal.Zero,
		NetPayment:          decimal.Zero,
	}

	hundred := decimal.NewFromInt(100)

	for _, sovItem := range sov.Items {
		line := app.GetItemBySOVLine(sovItem.ID)
		if line == nil {
			// SOV items added after this application was created do not
			// retroactively appear in it; they still count toward the
			// aggregate scheduled value.
			totals.ScheduledValue = totals.ScheduledValue.Add(sovItem.ScheduledValue)
			continue
		}

		total := line.Total()

		pctComplete := decimal.Zero
		if sovItem.ScheduledValue.IsPositive() {
			pctComplete = total.Div(sovItem.ScheduledValue).Mul(hundred).Round(0)
		}

		retPct := sovItem.RetainagePct
		if line.RetainagePctOverride != nil {
			retPct = *line.RetainagePctOverride
		}
		retainage := total.Mul(retPct).Div(hundred)

		lt := LineTotals{
			SOVLineItemID:       sovItem.ID,
			ItemNumber:          sovItem.ItemNumber,
			Description:         sovItem.Description,
			ScheduledValue:      sovItem.ScheduledValue,
			Previous:            line.WorkCompletedPrevious,
			ThisPeriod:          line.WorkCompletedThisPeriod,
			MaterialsStored:     line.MaterialsStored,
			Total:               total,
			PctComplete:         pctComplete,
			RetainagePct:        retPct,
			Retainage:           retainage,
			CertifiedThisPeriod: line.CertifiedOrBilled(),
		}
		totals.Lines = append(totals.Lines, lt)

		totals.ScheduledValue = totals.ScheduledValue.Add(sovItem.ScheduledValue)
		totals.CompletedPrevious = totals.CompletedPrevious.Add(line.WorkCompletedPrevious)
		totals.CompletedThisPeriod = totals.CompletedThisPeriod.Add(line.WorkCompletedThisPeriod)
		totals.MaterialsStored = totals.MaterialsStored.Add(line.MaterialsStored)
		totals.TotalEarned = totals.TotalEarned.Add(total)
		totals.RetainageHeld = totals.RetainageHeld.Add(retainage)
		totals.CertifiedThisPeriod = totals.CertifiedThisPeriod.Add(line.CertifiedOrBilled())
	}

	if totals.ScheduledValue.IsPositive() {
		totals.PctComplete = totals.TotalEarned.Div(totals.ScheduledValue).Mul(hundred).Round(0)
	}
	totals.NetPayment = totals.TotalEarned.Sub(totals.RetainageHeld).Sub(totals.CompletedPrevious)

	return totals
}

// ContractSumToDate computes the G702 "contract sum to date" figure from the
// project budget and the approved change-order amounts. Both arrive from
// external collaborators; the figure is informational and does not feed
// back into NetPayment.
func ContractSumToDate(projectBudget valueobject.Money, approvedChangeOrders []valueobject.Money) (valueobject.Money, error) {
	total := projectBudget
	for _, co := range approvedChangeOrders {
		sum, err := total.Add(co)
		if err != nil {
			return valueobject.Money{}, err
		}
		total = sum
	}
	return total, nil
}

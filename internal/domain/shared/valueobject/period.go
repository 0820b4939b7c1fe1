package valueobject

import (
	"errors"
	"fmt"
	"time"
)

// Period is a value object for a billing period date range.
// To must not precede From.
type Period struct {
	from time.Time
	to   time.Time
}

// NewPeriod creates a Period from two dates
func NewPeriod(from, to time.Time) (Period, error) {
	if from.IsZero() || to.IsZero() {
		return Period{}, errors.New("period dates cannot be zero")
	}
	if to.Before(from) {
		return Period{}, fmt.Errorf("period end %s precedes start %s", to.Format("2006-01-02"), from.Format("2006-01-02"))
	}
	return Period{from: from, to: to}, nil
}

// From returns the period start date
func (p Period) From() time.Time {
	return p.from
}

// To returns the period end date
func (p Period) To() time.Time {
	return p.to
}

// Contains returns true if the given date falls within the period (inclusive)
func (p Period) Contains(d time.Time) bool {
	return !d.Before(p.from) && !d.After(p.to)
}

// Days returns the period length in whole days, inclusive of both ends
func (p Period) Days() int {
	return int(p.to.Sub(p.from).Hours()/24) + 1
}

// String returns the period formatted as "2006-01-02..2006-01-02"
func (p Period) String() string {
	return p.from.Format("2006-01-02") + ".." + p.to.Format("2006-01-02")
}

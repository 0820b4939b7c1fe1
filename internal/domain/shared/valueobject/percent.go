package valueobject

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a value object for percentage rates in the range [0, 100].
// Used for retainage rates and completion figures.
type Percent struct {
	value decimal.Decimal
}

// NewPercent creates a Percent, rejecting values outside [0, 100]
func NewPercent(value decimal.Decimal) (Percent, error) {
	if value.IsNegative() || value.GreaterThan(decimal.NewFromInt(100)) {
		return Percent{}, fmt.Errorf("percent must be between 0 and 100, got %s", value.String())
	}
	return Percent{value: value}, nil
}

// NewPercentFromFloat creates a Percent from a float64
func NewPercentFromFloat(value float64) (Percent, error) {
	return NewPercent(decimal.NewFromFloat(value))
}

// MustNewPercent creates a Percent, panicking on out-of-range values.
// For use with compile-time constants only.
func MustNewPercent(value decimal.Decimal) Percent {
	p, err := NewPercent(value)
	if err != nil {
		panic(err)
	}
	return p
}

// ZeroPercent returns a zero Percent
func ZeroPercent() Percent {
	return Percent{value: decimal.Zero}
}

// Decimal returns the underlying decimal value
func (p Percent) Decimal() decimal.Decimal {
	return p.value
}

// IsZero returns true if the percent is zero
func (p Percent) IsZero() bool {
	return p.value.IsZero()
}

// Equals returns true if both percents are equal
func (p Percent) Equals(other Percent) bool {
	return p.value.Equal(other.value)
}

// ApplyTo returns the given percentage of the amount
func (p Percent) ApplyTo(m Money) Money {
	return m.CalculatePercentage(p.value)
}

// String returns the percent formatted with two decimal places
func (p Percent) String() string {
	return p.value.StringFixed(2) + "%"
}

// MarshalJSON implements json.Marshaler
func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.value.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Percent) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	parsed, err := NewPercent(d)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value implements driver.Valuer for database storage
func (p Percent) Value() (driver.Value, error) {
	return p.value.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (p *Percent) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	parsed, err := NewPercent(d)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

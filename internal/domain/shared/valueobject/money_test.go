package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(100), USD)
		require.NoError(t, err)
		assert.Equal(t, USD, m.Currency())
		assert.Equal(t, "100", m.Amount().String())
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		assert.Error(t, err)
	})

	t.Run("negative amounts are allowed", func(t *testing.T) {
		m := NewMoneyUSDFromFloat(-5000)
		assert.True(t, m.IsNegative())
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyUSDFromFloat(100.50)
	b := NewMoneyUSDFromFloat(49.50)

	t.Run("add", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "150.00 USD", sum.String())
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.Equal(t, "51.00 USD", diff.String())
	})

	t.Run("rejects mixed currencies", func(t *testing.T) {
		cad, err := NewMoney(decimal.NewFromInt(10), CAD)
		require.NoError(t, err)

		_, err = a.Add(cad)
		assert.Error(t, err)
		_, err = a.Subtract(cad)
		assert.Error(t, err)
		_, err = a.LessThan(cad)
		assert.Error(t, err)
	})

	t.Run("exact decimal addition", func(t *testing.T) {
		x := NewMoneyUSDFromFloat(0.1)
		y := NewMoneyUSDFromFloat(0.2)
		sum, err := x.Add(y)
		require.NoError(t, err)
		assert.True(t, sum.Equals(NewMoneyUSDFromFloat(0.3)))
	})

	t.Run("percentage", func(t *testing.T) {
		p := NewMoneyUSDFromFloat(40000).CalculatePercentage(decimal.NewFromInt(10))
		assert.Equal(t, "4000.00 USD", p.String())
	})
}

func TestMoney_Comparisons(t *testing.T) {
	small := NewMoneyUSDFromFloat(10)
	large := NewMoneyUSDFromFloat(20)

	less, err := small.LessThan(large)
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := large.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, greater)

	assert.True(t, ZeroUSD().IsZero())
	assert.True(t, small.IsPositive())
	assert.True(t, small.Negate().IsNegative())
	assert.True(t, small.Equals(NewMoneyUSDFromFloat(10)))
	assert.False(t, small.Equals(large))
}

func TestMoney_JSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		m := NewMoneyUSDFromFloat(1234.56)
		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":"1234.56","currency":"USD"}`, string(data))

		var out Money
		require.NoError(t, json.Unmarshal(data, &out))
		assert.True(t, m.Equals(out))
	})

	t.Run("missing currency defaults", func(t *testing.T) {
		var out Money
		require.NoError(t, json.Unmarshal([]byte(`{"amount":"50"}`), &out))
		assert.Equal(t, DefaultCurrency, out.Currency())
	})
}

func TestMoney_SQL(t *testing.T) {
	t.Run("value stores amount only", func(t *testing.T) {
		v, err := NewMoneyUSDFromFloat(99.99).Value()
		require.NoError(t, err)
		assert.Equal(t, "99.99", v)
	})

	t.Run("scan string and bytes", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("123.45"))
		assert.Equal(t, "123.45 USD", m.String())

		var n Money
		require.NoError(t, n.Scan([]byte("67.89")))
		assert.Equal(t, "67.89 USD", n.String())
	})

	t.Run("scan nil yields zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("scan rejects unexpected types", func(t *testing.T) {
		var m Money
		assert.Error(t, m.Scan(123))
	})
}

func TestSumMoney(t *testing.T) {
	t.Run("empty slice is zero", func(t *testing.T) {
		sum, err := SumMoney(nil)
		require.NoError(t, err)
		assert.True(t, sum.IsZero())
	})

	t.Run("sums values", func(t *testing.T) {
		sum, err := SumMoney([]Money{
			NewMoneyUSDFromFloat(10),
			NewMoneyUSDFromFloat(20.5),
			NewMoneyUSDFromFloat(-5),
		})
		require.NoError(t, err)
		assert.Equal(t, "25.50 USD", sum.String())
	})
}

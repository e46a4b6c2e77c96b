package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid inputs", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(89.90), ARS)
		require.NoError(t, err)
		assert.Equal(t, ARS, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(89.90)))
	})

	t.Run("fails with empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(10), "")
		require.Error(t, err)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyARSFromFloat(100.50)
	b := NewMoneyARSFromFloat(49.50)

	t.Run("adds same currency", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "150.00", sum.StringFixed(2))
	})

	t.Run("subtracts same currency", func(t *testing.T) {
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.Equal(t, "51.00", diff.StringFixed(2))
	})

	t.Run("rejects mixed currencies", func(t *testing.T) {
		usd, err := NewMoney(decimal.NewFromInt(1), USD)
		require.NoError(t, err)
		_, err = a.Add(usd)
		assert.Error(t, err)
		_, err = a.Subtract(usd)
		assert.Error(t, err)
		_, err = a.LessThan(usd)
		assert.Error(t, err)
	})

	t.Run("multiplies by integer quantity", func(t *testing.T) {
		m := NewMoneyARSFromFloat(89.90).MultiplyByInt(4)
		assert.Equal(t, "359.60", m.StringFixed(2))
	})

	t.Run("percentage", func(t *testing.T) {
		m := NewMoneyARSFromFloat(200).CalculatePercentage(decimal.NewFromInt(10))
		assert.Equal(t, "20.00", m.StringFixed(2))
	})
}

func TestMoney_Comparisons(t *testing.T) {
	small := NewMoneyARSFromFloat(10)
	big := NewMoneyARSFromFloat(20)

	less, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := big.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, greater)

	m, err := small.Min(big)
	require.NoError(t, err)
	assert.True(t, m.Equals(small))

	m, err = big.Min(small)
	require.NoError(t, err)
	assert.True(t, m.Equals(small))
}

func TestMoney_Predicates(t *testing.T) {
	assert.True(t, ZeroARS().IsZero())
	assert.True(t, NewMoneyARSFromFloat(1).IsPositive())
	assert.True(t, NewMoneyARSFromFloat(-1).IsNegative())
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	original := NewMoneyARSFromFloat(114.90)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, original.Equals(decoded))
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "25.00 ARS", NewMoneyARSFromFloat(25).String())
}

func TestNewMoneyARSFromString(t *testing.T) {
	m, err := NewMoneyARSFromString("89.90")
	require.NoError(t, err)
	assert.Equal(t, "89.90", m.StringFixed(2))

	_, err = NewMoneyARSFromString("not-a-number")
	assert.Error(t, err)
}

package money

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInteger(t *testing.T) {
	c := NewConverter(2)
	tests := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"12.34", 1234},
		{"-12.34", -1234},
		{"0.1", 10},
		{"1000000.01", 100000001},
		{"0.005", 1},
		{"-0.005", -1},
		{"19.999", 2000},
	}
	for _, tt := range tests {
		got, err := c.ToInteger(decimal.RequireFromString(tt.in))
		require.NoError(t, err, "ToInteger(%s)", tt.in)
		assert.Equal(t, tt.want, got, "ToInteger(%s)", tt.in)
	}
}

func mustInteger(t *testing.T, c Converter, s string) int64 {
	t.Helper()
	n, err := c.ToInteger(decimal.RequireFromString(s))
	require.NoError(t, err)
	return n
}

func TestToInteger_Scale(t *testing.T) {
	assert.Equal(t, int64(12340), mustInteger(t, NewConverter(3), "12.34"))
	assert.Equal(t, int64(12), mustInteger(t, NewConverter(0), "12.34"))
	assert.Equal(t, int32(3), NewConverter(3).Places())
}

func TestToInteger_OutOfRange(t *testing.T) {
	c := NewConverter(2)
	for _, in := range []string{"100000000000000000000", "-100000000000000000000", "92233720368547758.08"} {
		_, err := c.ToInteger(decimal.RequireFromString(in))
		assert.ErrorIs(t, err, ErrOutOfRange, "input %s", in)
	}

	n, err := c.ToInteger(decimal.RequireFromString("92233720368547758.07"))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), n)

	n, err = c.ToInteger(decimal.RequireFromString("-92233720368547758.08"))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), n)
}

func TestToInteger_NoAccumulatedError(t *testing.T) {
	c := NewConverter(2)
	step := decimal.RequireFromString("0.1")
	total := int64(0)
	for range 1000 {
		n, err := c.ToInteger(step)
		require.NoError(t, err)
		total += n
	}
	assert.Equal(t, int64(10000), total)
}

func TestParse(t *testing.T) {
	c := NewConverter(2)
	tests := []struct {
		in   string
		want int64
	}{
		{"12.50", 1250},
		{"-4.00", -400},
		{"$1,234.56", 123456},
		{"(12.00)", -1200},
		{" 7 ", 700},
	}
	for _, tt := range tests {
		got, err := c.Parse(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestParse_Errors(t *testing.T) {
	c := NewConverter(2)
	for _, in := range []string{"", "abc", "1.2.3", "$999,999,999,999,999,999.99"} {
		_, err := c.Parse(in)
		assert.Error(t, err, "input %q", in)
	}
}

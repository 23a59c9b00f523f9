package money

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := Parse(" $85.50 ")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("85.5").Equal(d))

	d, err = Parse("-999999999999.99")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("-999999999999.99").Equal(d))

	_, err = Parse("twelve")
	assert.Error(t, err)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		target error
	}{
		{"exponent", "1e400", nil},
		{"small exponent", "8.55E1", nil},
		{"negative exponent", "-1e-3", nil},
		{"limit", "1000000000000", ErrOutOfRange},
		{"huge", "123456789012345678901234567890", ErrOutOfRange},
		{"negative huge", "-1000000000000.00", ErrOutOfRange},
		{"three places", "85.505", ErrTooPrecise},
		{"tiny fraction", "0.0000001", ErrTooPrecise},
		{"infinity", "Inf", nil},
		{"nan", "NaN", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.amount)

			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestCheck_TrailingZerosAreNotPrecision(t *testing.T) {
	assert.NoError(t, Check(decimal.RequireFromString("85.5000")))
	assert.ErrorIs(t, Check(decimal.RequireFromString("85.5001")), ErrTooPrecise)
}

func TestValue(t *testing.T) {
	v, err := Value(decimal.RequireFromString("85.50"))
	require.NoError(t, err)
	assert.Equal(t, "85.5", v)

	_, err = Value(decimal.New(1, 400))
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestColumn_Scan(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    string
		wantErr error
	}{
		{"real", 85.5, "85.5", nil},
		{"integer", int64(200), "200", nil},
		{"text", "12.25", "12.25", nil},
		{"positive infinity", math.Inf(1), "", ErrOutOfRange},
		{"negative infinity", math.Inf(-1), "", ErrOutOfRange},
		{"nan", math.NaN(), "", ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d decimal.Decimal

			err := Column(&d).Scan(tt.src)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(d), "got %s", d)
		})
	}

	t.Run("null", func(t *testing.T) {
		var d decimal.Decimal
		assert.Error(t, Column(&d).Scan(nil))
	})
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"whole", "285.5", "$285.50"},
		{"zero", "0", "$0.00"},
		{"negative", "-50", "-$50.00"},
		{"half to even down", "0.125", "$0.12"},
		{"half to even up", "0.135", "$0.14"},
		{"long fraction", "33.3333333333333333", "$33.33"},
		{"negative rounding to zero", "-0.004", "$0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(decimal.RequireFromString(tt.amount), "$"))
		})
	}
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "-10.00", Plain(decimal.NewFromInt(-10)))
	assert.Equal(t, "39.25", Plain(decimal.RequireFromString("39.25")))
}

func TestSum_DoesNotDrift(t *testing.T) {
	// given: a thousand ten-cent items
	amounts := make([]decimal.Decimal, 1000)
	for i := range amounts {
		amounts[i] = decimal.RequireFromString("0.1")
	}

	// when
	total := Sum(amounts...)

	// then
	assert.True(t, decimal.NewFromInt(100).Equal(total), "got %s", total)
}

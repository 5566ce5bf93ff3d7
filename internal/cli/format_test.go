package cli

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTime_Boundaries(t *testing.T) {
	tests := []struct {
		hours float64
		unit  Unit
		tone  Tone
		value float64
	}{
		{0, Minutes, ToneNone, 0},
		{0.5, Minutes, ToneNone, 30},
		{0.999, Minutes, ToneNone, 60},
		{1, Hours, ToneNone, 1},
		{7.99, Hours, ToneNone, 8},
		{8, Days, ToneNearTerm, 1},
		{39.99, Days, ToneNearTerm, 5},
		{40, Days, ToneOverdue, 5},
		{175.99, Days, ToneOverdue, 22},
		{176, Months, ToneNone, 1},
		{2111.99, Months, ToneNone, 12},
		{2112, Years, ToneNone, 1},
		{5280, Years, ToneNone, 2.5},
	}

	for _, tt := range tests {
		got := FormatTime(tt.hours)
		if got.Unit != tt.unit || got.Tone != tt.tone {
			t.Errorf("FormatTime(%v) = %s/%q, want %s/%q", tt.hours, got.Unit, got.Tone, tt.unit, tt.tone)
			continue
		}
		assert.InDelta(t, tt.value, got.Value, 1e-9, "FormatTime(%v)", tt.hours)
		assert.False(t, got.Negative)
	}
}

func TestFormatTime_Negative(t *testing.T) {
	got := FormatTime(-12)
	assert.True(t, got.Negative)
	assert.Equal(t, Days, got.Unit)
	assert.Equal(t, "-1.5 days", got.String())

	// Rounds to zero, so no sign.
	assert.Equal(t, "0 minutes", FormatTime(-0.001).String())
}

func TestSpanString(t *testing.T) {
	assert.Equal(t, "45 minutes", FormatTime(0.75).String())
	assert.Equal(t, "3.5 hours", FormatTime(3.5).String())
	assert.Equal(t, "1.25 years", FormatTime(2640).String())
}

func TestFormatAgeDiff(t *testing.T) {
	tests := []struct {
		years float64
		want  string
	}{
		{0, "0 days"},
		{0.001, "0 days"},
		{-0.001, "0 days"},
		{0.003, "1 days"},
		{29.0 / 365, "29 days"},
		{30.0 / 365, "1 months"},
		{-0.5, "-6 months"},
		{364.0 / 365, "12 months"},
		{1, "1.0 years"},
		{-2.26, "-2.3 years"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAgeDiff(tt.years).String(), "FormatAgeDiff(%v)", tt.years)
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "1,234.50", FormatMoney(1234.5))
	assert.Equal(t, "-20,000.00", FormatMoney(-20000))
	assert.Equal(t, "0.00", FormatMoney(0))
	assert.Equal(t, "+10.00", FormatDelta(10))
	assert.Equal(t, "-3.25", FormatDelta(-3.25))
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
		{math.MinInt64, "-9,223,372,036,854,775,808"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

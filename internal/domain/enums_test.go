package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSide(t *testing.T) {
	side, err := ParseSide("buy")
	require.NoError(t, err)
	assert.Equal(t, SideBuy, side)

	side, err = ParseSide("sell")
	require.NoError(t, err)
	assert.Equal(t, SideSell, side)

	_, err = ParseSide("BUY")
	assert.EqualError(t, err, "unsupported order side: BUY")
}

func TestParseOrderType(t *testing.T) {
	ot, err := ParseOrderType("limit")
	require.NoError(t, err)
	assert.Equal(t, OrderTypeLimit, ot)

	_, err = ParseOrderType("stop")
	assert.Error(t, err)
}

func TestParseTradingMode(t *testing.T) {
	tests := []struct {
		input     string
		expected  TradingMode
		shouldErr bool
	}{
		{input: "", expected: TradingModePaper},
		{input: "paper", expected: TradingModePaper},
		{input: "live", expected: TradingModeLive},
		{input: "real", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := ParseTradingMode(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, mode)
			assert.True(t, mode.IsValid())
		})
	}
}

package chart

import (
	"fmt"
	"math"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/momentum"
	"github.com/cinar/indicator/v2/trend"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/investorpro/internal/domain"
)

const (
	DefaultEMAPeriod = 20
	DefaultRSIPeriod = 14
)

// Indicators is the latest value of each indicator over a price history.
type Indicators struct {
	EMA     decimal.Decimal `json:"ema"`
	RSI     decimal.Decimal `json:"rsi"`
	Samples int             `json:"samples"`
}

// CalculateEMA calculates the Exponential Moving Average for the given period
func CalculateEMA(prices []decimal.Decimal, period int) ([]decimal.Decimal, error) {
	if period <= 0 {
		return nil, fmt.Errorf("invalid EMA period: %d", period)
	}
	if len(prices) < period {
		return nil, fmt.Errorf("not enough data points: need %d, got %d", period, len(prices))
	}

	ema := trend.NewEmaWithPeriod[float64](period)
	out := ema.Compute(helper.SliceToChan(decimalsToFloat64(prices)))

	return float64ToDecimals(helper.ChanToSlice(out)), nil
}

// CalculateRSI calculates the Relative Strength Index for the given period
func CalculateRSI(prices []decimal.Decimal, period int) ([]decimal.Decimal, error) {
	if period <= 0 {
		return nil, fmt.Errorf("invalid RSI period: %d", period)
	}
	if len(prices) < period+1 {
		return nil, fmt.Errorf("not enough data points for RSI: need %d, got %d", period+1, len(prices))
	}

	rsi := momentum.NewRsiWithPeriod[float64](period)
	out := rsi.Compute(helper.SliceToChan(decimalsToFloat64(prices)))

	return float64ToDecimals(helper.ChanToSlice(out)), nil
}

// Latest computes EMA and RSI over a polled price history.
func Latest(history []domain.PricePoint, emaPeriod, rsiPeriod int) (Indicators, error) {
	prices := make([]decimal.Decimal, len(history))
	for i, p := range history {
		prices[i] = p.Price
	}

	ema, err := CalculateEMA(prices, emaPeriod)
	if err != nil {
		return Indicators{}, fmt.Errorf("failed to calculate EMA%d: %w", emaPeriod, err)
	}
	rsi, err := CalculateRSI(prices, rsiPeriod)
	if err != nil {
		return Indicators{}, fmt.Errorf("failed to calculate RSI%d: %w", rsiPeriod, err)
	}
	if len(ema) == 0 || len(rsi) == 0 {
		return Indicators{}, fmt.Errorf("indicators produced no values for %d samples", len(prices))
	}

	return Indicators{
		EMA:     ema[len(ema)-1],
		RSI:     rsi[len(rsi)-1],
		Samples: len(prices),
	}, nil
}

func decimalsToFloat64(decimals []decimal.Decimal) []float64 {
	result := make([]float64, len(decimals))
	for i, d := range decimals {
		result[i], _ = d.Float64()
	}
	return result
}

// float64ToDecimals drops non-finite values, which decimal cannot represent.
func float64ToDecimals(floats []float64) []decimal.Decimal {
	result := make([]decimal.Decimal, 0, len(floats))
	for _, f := range floats {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		result = append(result, decimal.NewFromFloat(f))
	}
	return result
}

// Package indicators provides technical indicator calculations.
package indicators

import (
	"errors"
	"fmt"
	"math"

	"stock-analyzer/internal/models"
)

var (
	// ErrInsufficientData is returned when there's not enough data for calculation.
	ErrInsufficientData = errors.New("insufficient data for calculation")
	// ErrInvalidPeriod is returned when the period is invalid.
	ErrInvalidPeriod = errors.New("invalid period")
)

// EMA calculates Exponential Moving Average.
type EMA struct {
	period int
}

// NewEMA creates a new EMA indicator.
func NewEMA(period int) *EMA {
	return &EMA{period: period}
}

func (e *EMA) Name() string {
	return fmt.Sprintf("EMA_%d", e.period)
}

func (e *EMA) Period() int {
	return e.period
}

// Calculate computes the EMA series over the bars' closing prices.
// Bars must be ordered oldest-first; values before the seed index are zero.
func (e *EMA) Calculate(bars []models.PriceBar) ([]float64, error) {
	return CalculateEMA(closePrices(bars), e.period)
}

// Latest computes the most recent EMA value, rounded to 2 decimal places.
func (e *EMA) Latest(bars []models.PriceBar) (float64, error) {
	values, err := e.Calculate(bars)
	if err != nil {
		return 0, err
	}
	return round2(values[len(values)-1]), nil
}

// CalculateEMA calculates the EMA series on raw closing values.
// The first EMA is the simple average of the first period values; each
// subsequent value follows ema = (p - ema) * 2/(period+1) + ema.
func CalculateEMA(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(values) < period {
		return nil, ErrInsufficientData
	}

	result := make([]float64, len(values))
	multiplier := 2.0 / float64(period+1)

	// First EMA is SMA
	result[period-1] = mean(values[:period])

	for i := period; i < len(values); i++ {
		result[i] = (values[i]-result[i-1])*multiplier + result[i-1]
	}

	return result, nil
}

// LatestEMA computes the most recent EMA for raw closing values, rounded
// to 2 decimal places.
func LatestEMA(values []float64, period int) (float64, error) {
	result, err := CalculateEMA(values, period)
	if err != nil {
		return 0, err
	}
	return round2(result[len(result)-1]), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// closePrices extracts close prices from bars.
func closePrices(bars []models.PriceBar) []float64 {
	prices := make([]float64, len(bars))
	for i, b := range bars {
		prices[i] = b.Close
	}
	return prices
}

// Package scoring provides the potential score heuristic.
package scoring

import (
	"strings"
)

// BaseScore is the starting point before any signal adjustment.
const BaseScore = 50

// Signals holds the inputs to the potential score. Nil pointers mean the
// signal is unknown; unknown signals contribute nothing and are never
// penalized.
type Signals struct {
	Beta               *float64
	DividendYield      *float64
	PERatio            *float64
	RSI                *float64
	EMA20              *float64
	EMA50              *float64
	CandlestickPattern string
}

// PotentialScorer combines fundamentals and technical signals into a
// bounded 0-100 score via independent additive rules.
type PotentialScorer struct{}

// NewPotentialScorer creates a new potential scorer.
func NewPotentialScorer() *PotentialScorer {
	return &PotentialScorer{}
}

// Score applies the rule table to the known signals and clamps the result
// to [0, 100]. The thresholds and deltas are fixed business rules; do not
// retune them without a product decision.
func (s *PotentialScorer) Score(in Signals) int {
	score := BaseScore

	// Beta: lower is better for stability
	if in.Beta != nil {
		if *in.Beta < 1 {
			score += 10
		} else if *in.Beta > 1.5 {
			score -= 10
		}
	}

	// Dividend yield: higher is better
	if in.DividendYield != nil {
		if *in.DividendYield > 3 {
			score += 15
		} else if *in.DividendYield > 1 {
			score += 8
		}
	}

	// EMA trend: requires both averages
	if in.EMA20 != nil && in.EMA50 != nil {
		if *in.EMA20 > *in.EMA50 {
			score += 15
		} else if *in.EMA20 < *in.EMA50 {
			score -= 10
		}
	}

	// Candlestick pattern
	if strings.Contains(in.CandlestickPattern, "bullish") {
		score += 10
	} else if strings.Contains(in.CandlestickPattern, "bearish") {
		score -= 10
	}

	// P/E ratio: reasonable range
	if in.PERatio != nil {
		if *in.PERatio >= 15 && *in.PERatio <= 25 {
			score += 10
		} else if *in.PERatio > 40 {
			score -= 10
		}
	}

	// RSI: overbought/oversold
	if in.RSI != nil {
		if *in.RSI >= 30 && *in.RSI <= 70 {
			score += 5
		} else if *in.RSI > 70 {
			score -= 10
		} else if *in.RSI < 30 {
			score += 10
		}
	}

	return clamp(score, 0, 100)
}

func clamp(value, minVal, maxVal int) int {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}

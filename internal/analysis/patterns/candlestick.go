// Package patterns provides candlestick pattern classification.
package patterns

import (
	"strings"

	"stock-analyzer/internal/models"
)

// Label values produced by the classifier.
const (
	LabelInsufficientData = "insufficient data"
	LabelStrongBullish    = "strong bullish candle"
	LabelBullishMarubozu  = "bullish marubozu"
	LabelStrongBearish    = "strong bearish candle"
	LabelBearishMarubozu  = "bearish marubozu"
	LabelDoji             = "doji / indecision"
	LabelBullishHammer    = "bullish hammer"
	LabelNeutral          = "neutral pattern"
)

// Classifier classifies the most recent candle of a daily bar sequence.
type Classifier struct {
	dojiThreshold     float64 // body as fraction of range below which a candle is a doji
	longBodyThreshold float64 // body as fraction of range above which a candle is "strong"
	shadowThreshold   float64 // shadow as fraction of range below which a marubozu fires
}

// NewClassifier creates a classifier with the default thresholds.
func NewClassifier() *Classifier {
	return &Classifier{
		dojiThreshold:     0.1,
		longBodyThreshold: 0.7,
		shadowThreshold:   0.1,
	}
}

func (c *Classifier) Name() string {
	return "CandlestickClassifier"
}

// Classify inspects the last candle of the sequence and returns the matched
// pattern labels joined into a single string. A candle may match more than
// one rule. At least 3 bars are required; a zero-range candle is not
// classifiable and maps to the neutral label.
func (c *Classifier) Classify(bars []models.PriceBar) string {
	if len(bars) < 3 {
		return LabelInsufficientData
	}

	last := bars[len(bars)-1]
	body := last.Body()
	rng := last.Range()
	if rng == 0 {
		return LabelNeutral
	}

	var labels []string

	if last.IsBullish() {
		if body/rng > c.longBodyThreshold {
			labels = append(labels, LabelStrongBullish)
		} else if (last.High-last.Close)/rng < c.shadowThreshold {
			labels = append(labels, LabelBullishMarubozu)
		}
	} else if last.IsBearish() {
		if body/rng > c.longBodyThreshold {
			labels = append(labels, LabelStrongBearish)
		} else if (last.Close-last.Low)/rng < c.shadowThreshold {
			labels = append(labels, LabelBearishMarubozu)
		}
	}

	if body/rng < c.dojiThreshold {
		labels = append(labels, LabelDoji)
	}

	if last.IsBullish() && (last.Close-last.Low) > 2*body && (last.High-last.Close) < body {
		labels = append(labels, LabelBullishHammer)
	}

	if len(labels) == 0 {
		return LabelNeutral
	}
	return strings.Join(labels, ", ")
}

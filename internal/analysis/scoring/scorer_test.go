package scoring

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func f(v float64) *float64 { return &v }

func TestScore(t *testing.T) {
	scorer := NewPotentialScorer()

	tests := []struct {
		name string
		in   Signals
		want int
	}{
		{
			name: "no known signals keeps the base",
			in:   Signals{},
			want: 50,
		},
		{
			name: "unknown signals are never penalized",
			in:   Signals{CandlestickPattern: "neutral pattern"},
			want: 50,
		},
		{
			name: "low beta",
			in:   Signals{Beta: f(0.8)},
			want: 60,
		},
		{
			name: "high beta",
			in:   Signals{Beta: f(2.0)},
			want: 40,
		},
		{
			name: "beta between thresholds is neutral",
			in:   Signals{Beta: f(1.2)},
			want: 50,
		},
		{
			name: "generous dividend",
			in:   Signals{DividendYield: f(4.5)},
			want: 65,
		},
		{
			name: "modest dividend",
			in:   Signals{DividendYield: f(2.0)},
			want: 58,
		},
		{
			name: "uptrend",
			in:   Signals{EMA20: f(105), EMA50: f(100)},
			want: 65,
		},
		{
			name: "downtrend",
			in:   Signals{EMA20: f(95), EMA50: f(100)},
			want: 40,
		},
		{
			name: "EMA20 alone contributes nothing",
			in:   Signals{EMA20: f(105)},
			want: 50,
		},
		{
			name: "bullish pattern",
			in:   Signals{CandlestickPattern: "bullish marubozu, doji / indecision"},
			want: 60,
		},
		{
			name: "bearish pattern",
			in:   Signals{CandlestickPattern: "strong bearish candle"},
			want: 40,
		},
		{
			name: "reasonable P/E",
			in:   Signals{PERatio: f(20)},
			want: 60,
		},
		{
			name: "expensive P/E",
			in:   Signals{PERatio: f(50)},
			want: 40,
		},
		{
			name: "healthy RSI",
			in:   Signals{RSI: f(55)},
			want: 55,
		},
		{
			name: "overbought RSI",
			in:   Signals{RSI: f(80)},
			want: 40,
		},
		{
			name: "oversold RSI is a buying opportunity",
			in:   Signals{RSI: f(25)},
			want: 60,
		},
		{
			name: "every negative rule firing sums to zero",
			in: Signals{
				Beta:               f(2),
				EMA20:              f(95),
				EMA50:              f(100),
				CandlestickPattern: "strong bearish candle",
				PERatio:            f(50),
				RSI:                f(80),
			},
			want: 0,
		},
		{
			name: "every positive rule firing is capped below 100",
			in: Signals{
				Beta:               f(0.5),
				DividendYield:      f(5),
				EMA20:              f(110),
				EMA50:              f(100),
				CandlestickPattern: "strong bullish candle",
				PERatio:            f(18),
				RSI:                f(25),
			},
			want: 100, // 50+10+15+15+10+10+10 = 120, clamped
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(tt.in)
			if got != tt.want {
				t.Errorf("Score = %d, want %d", got, tt.want)
			}
		})
	}
}

// Property: whatever combination of signals is supplied, the score is
// always inside [0, 100].
func TestProperty_ScoreAlwaysClamped(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	scorer := NewPotentialScorer()
	patterns := []string{
		"", "neutral pattern", "strong bullish candle",
		"strong bearish candle", "bullish marubozu, doji / indecision",
		"bearish marubozu", "insufficient data",
	}

	optional := func(v float64, known bool) *float64 {
		if !known {
			return nil
		}
		return &v
	}

	properties.Property("score in [0,100]", prop.ForAll(
		func(beta, dividend, pe, rsi, ema20, ema50 float64,
			betaKnown, divKnown, peKnown, rsiKnown, emaKnown bool, patternIdx int) bool {

			score := scorer.Score(Signals{
				Beta:               optional(beta, betaKnown),
				DividendYield:      optional(dividend, divKnown),
				PERatio:            optional(pe, peKnown),
				RSI:                optional(rsi, rsiKnown),
				EMA20:              optional(ema20, emaKnown),
				EMA50:              optional(ema50, emaKnown),
				CandlestickPattern: patterns[patternIdx%len(patterns)],
			})
			return score >= 0 && score <= 100
		},
		gen.Float64Range(-5, 5),
		gen.Float64Range(-10, 20),
		gen.Float64Range(-100, 200),
		gen.Float64Range(-50, 150),
		gen.Float64Range(1, 1000),
		gen.Float64Range(1, 1000),
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
		gen.IntRange(0, 6),
	))

	properties.TestingRun(t)
}

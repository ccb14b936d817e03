// Package models provides domain models for the stock analyzer.
package models

import (
	"time"
)

// PriceBar represents daily OHLC data for a single trading session.
// Bars are supplied oldest-first by the market data provider.
type PriceBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
}

// Body returns the absolute open-close distance of the bar.
func (b PriceBar) Body() float64 {
	body := b.Close - b.Open
	if body < 0 {
		return -body
	}
	return body
}

// Range returns the high-low distance of the bar.
func (b PriceBar) Range() float64 {
	return b.High - b.Low
}

// IsBullish reports whether the bar closed above its open.
func (b PriceBar) IsBullish() bool {
	return b.Close > b.Open
}

// IsBearish reports whether the bar closed below its open.
func (b PriceBar) IsBearish() bool {
	return b.Open > b.Close
}

// Stock represents a ticker search result.
type Stock struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	CurrentPrice  *float64 `json:"current_price"`
	ChangePercent *float64 `json:"change_percent"`
}

// TickerDetails represents metadata for a listed ticker.
type TickerDetails struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// FundamentalsSnapshot holds the typed fundamentals scraped for a ticker.
// Every numeric field is a pointer: nil means the value could not be
// obtained or parsed and must be treated as unknown, never as zero.
type FundamentalsSnapshot struct {
	PERatio        *float64 `json:"pe_ratio"`
	ForwardPE      *float64 `json:"forward_pe"`
	PEGRatio       *float64 `json:"peg_ratio"`
	PSRatio        *float64 `json:"ps_ratio"`
	PBRatio        *float64 `json:"pb_ratio"`
	Beta           *float64 `json:"beta"`
	DividendYield  *float64 `json:"dividend_yield"`
	RSI            *float64 `json:"rsi"`
	SMA20          *float64 `json:"sma20"`
	SMA50          *float64 `json:"sma50"`
	SMA200         *float64 `json:"sma200"`
	Volatility     string   `json:"volatility"`
	TargetPrice    *float64 `json:"target_price"`
	Recommendation *float64 `json:"recommendation"`
	ROE            *float64 `json:"roe"`
	ROA            *float64 `json:"roa"`
	ProfitMargin   *float64 `json:"profit_margin"`
	DebtEquity     *float64 `json:"debt_equity"`
	EPSttm         *float64 `json:"eps_ttm"`
	MarketCap      string   `json:"market_cap"`
	PerfWeek       *float64 `json:"perf_week"`
	PerfMonth      *float64 `json:"perf_month"`
	PerfQuarter    *float64 `json:"perf_quarter"`
	PerfYear       *float64 `json:"perf_year"`
}

// IndicatorSet holds the technical indicators derived for one analysis
// request. EMA values are nil when the price series is too short.
type IndicatorSet struct {
	EMA20              *float64 `json:"ema_20"`
	EMA50              *float64 `json:"ema_50"`
	CandlestickPattern string   `json:"candlestick_pattern"`
}

// Recommendation represents a trading recommendation label.
type Recommendation string

const (
	Buy  Recommendation = "BUY"
	Sell Recommendation = "SELL"
	Hold Recommendation = "HOLD"
)

// Advice pairs a recommendation label with its narrative.
type Advice struct {
	Recommendation Recommendation `json:"recommendation"`
	Narrative      string         `json:"narrative"`
}

// Analysis is the full analysis result for a ticker.
type Analysis struct {
	Symbol       string               `json:"symbol"`
	Name         string               `json:"name"`
	Fundamentals FundamentalsSnapshot `json:"fundamentals"`
	Indicators   IndicatorSet         `json:"indicators"`

	CurrentPrice   *float64       `json:"current_price"`
	PotentialScore int            `json:"potential_score"`
	Recommendation Recommendation `json:"recommendation"`
	Narrative      string         `json:"ai_analysis"`

	// Closing prices of the most recent sessions, oldest first.
	RecentCloses []float64 `json:"historical_prices"`

	Timestamp time.Time `json:"timestamp"`
}

package models

import (
	"time"
)

// Holding represents a purchased position in the portfolio.
// Holdings are immutable after creation; the only further operation
// on one is deletion by id.
type Holding struct {
	ID            string    `json:"id" csv:"id"`
	Symbol        string    `json:"symbol" csv:"symbol"`
	Name          string    `json:"name" csv:"name"`
	Shares        float64   `json:"shares" csv:"shares"`
	PurchasePrice float64   `json:"purchase_price" csv:"purchase_price"`
	PurchaseDate  time.Time `json:"purchase_date" csv:"purchase_date"`
	CreatedAt     time.Time `json:"created_at" csv:"created_at"`
}

// ValuationLine is the per-holding valuation computed at read time.
type ValuationLine struct {
	ID                string  `json:"id"`
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Shares            float64 `json:"shares"`
	PurchasePrice     float64 `json:"purchase_price"`
	CurrentPrice      float64 `json:"current_price"`
	Invested          float64 `json:"invested"`
	CurrentValue      float64 `json:"current_value"`
	ProfitLoss        float64 `json:"profit_loss"`
	ProfitLossPercent float64 `json:"profit_loss_percent"`
}

// PortfolioSummary aggregates valuation lines across all holdings.
type PortfolioSummary struct {
	TotalInvested          float64         `json:"total_invested"`
	TotalCurrentValue      float64         `json:"total_current_value"`
	TotalProfitLoss        float64         `json:"total_profit_loss"`
	TotalProfitLossPercent float64         `json:"total_profit_loss_percent"`
	Lines                  []ValuationLine `json:"stocks"`
}

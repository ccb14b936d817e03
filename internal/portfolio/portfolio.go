// Package portfolio manages holdings and computes their valuation.
package portfolio

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "stock-analyzer/internal/errors"
	"stock-analyzer/internal/marketdata"
	"stock-analyzer/internal/models"
	"stock-analyzer/internal/store"
)

// Manager owns the holdings lifecycle: add, list, remove, and
// valuation against current market prices.
type Manager struct {
	store         store.PortfolioStore
	market        marketdata.Provider
	valuationDays int
	logger        zerolog.Logger
}

// NewManager creates a portfolio manager. valuationDays is the size of
// the trailing window used to look up a current price.
func NewManager(st store.PortfolioStore, market marketdata.Provider, valuationDays int, logger zerolog.Logger) *Manager {
	if valuationDays <= 0 {
		valuationDays = 2
	}
	return &Manager{
		store:         st,
		market:        market,
		valuationDays: valuationDays,
		logger:        logger,
	}
}

// Add records a new holding. The company name is resolved from the
// market data provider; when that lookup fails the symbol itself is
// used as the name.
func (m *Manager) Add(ctx context.Context, symbol string, shares, purchasePrice float64, purchaseDate time.Time) (*models.Holding, error) {
	if shares <= 0 {
		return nil, apperrors.NewValidationError("shares", shares, "must be positive")
	}
	if purchasePrice <= 0 {
		return nil, apperrors.NewValidationError("purchase_price", purchasePrice, "must be positive")
	}

	name := symbol
	if details, err := m.market.GetTickerDetails(ctx, symbol); err == nil {
		name = details.Name
	} else {
		m.logger.Warn().Err(err).Str("symbol", symbol).Msg("Could not resolve company name")
	}

	holding := &models.Holding{
		ID:            uuid.NewString(),
		Symbol:        symbol,
		Name:          name,
		Shares:        shares,
		PurchasePrice: purchasePrice,
		PurchaseDate:  purchaseDate,
		CreatedAt:     time.Now().UTC(),
	}

	if err := m.store.InsertHolding(ctx, holding); err != nil {
		return nil, err
	}
	return holding, nil
}

// List returns every holding, oldest first.
func (m *Manager) List(ctx context.Context) ([]models.Holding, error) {
	return m.store.ListHoldings(ctx)
}

// Remove deletes a holding by id.
func (m *Manager) Remove(ctx context.Context, id string) error {
	return m.store.DeleteHolding(ctx, id)
}

// Summary values every holding at the most recent close. A holding
// whose price cannot be fetched is valued at its purchase price, so a
// market data outage never breaks the summary.
func (m *Manager) Summary(ctx context.Context) (*models.PortfolioSummary, error) {
	holdings, err := m.store.ListHoldings(ctx)
	if err != nil {
		return nil, err
	}

	summary := &models.PortfolioSummary{
		Lines: make([]models.ValuationLine, 0, len(holdings)),
	}

	for _, h := range holdings {
		currentPrice := m.currentPrice(ctx, h.Symbol, h.PurchasePrice)

		invested := h.Shares * h.PurchasePrice
		currentValue := h.Shares * currentPrice
		profitLoss := currentValue - invested
		profitLossPercent := 0.0
		if invested > 0 {
			profitLossPercent = profitLoss / invested * 100
		}

		summary.TotalInvested += invested
		summary.TotalCurrentValue += currentValue

		summary.Lines = append(summary.Lines, models.ValuationLine{
			ID:                h.ID,
			Symbol:            h.Symbol,
			Name:              h.Name,
			Shares:            h.Shares,
			PurchasePrice:     h.PurchasePrice,
			CurrentPrice:      currentPrice,
			Invested:          round2(invested),
			CurrentValue:      round2(currentValue),
			ProfitLoss:        round2(profitLoss),
			ProfitLossPercent: round2(profitLossPercent),
		})
	}

	totalProfitLoss := summary.TotalCurrentValue - summary.TotalInvested
	totalPercent := 0.0
	if summary.TotalInvested > 0 {
		totalPercent = totalProfitLoss / summary.TotalInvested * 100
	}

	summary.TotalProfitLoss = round2(totalProfitLoss)
	summary.TotalProfitLossPercent = round2(totalPercent)
	summary.TotalInvested = round2(summary.TotalInvested)
	summary.TotalCurrentValue = round2(summary.TotalCurrentValue)

	return summary, nil
}

// ExportCSV writes all holdings as CSV.
func (m *Manager) ExportCSV(ctx context.Context, w io.Writer) error {
	holdings, err := m.store.ListHoldings(ctx)
	if err != nil {
		return err
	}
	return gocsv.Marshal(holdings, w)
}

func (m *Manager) currentPrice(ctx context.Context, symbol string, fallback float64) float64 {
	bars, err := m.market.GetDailyBars(ctx, symbol, m.valuationDays)
	if err != nil || len(bars) == 0 {
		if err != nil {
			m.logger.Warn().Err(err).Str("symbol", symbol).Msg("Price lookup failed, using purchase price")
		}
		return fallback
	}
	return bars[len(bars)-1].Close
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

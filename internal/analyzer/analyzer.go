// Package analyzer orchestrates fundamentals, indicators, scoring and
// AI advice into a single analysis result.
package analyzer

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"stock-analyzer/internal/advisor"
	"stock-analyzer/internal/analysis/indicators"
	"stock-analyzer/internal/analysis/patterns"
	"stock-analyzer/internal/analysis/scoring"
	"stock-analyzer/internal/config"
	apperrors "stock-analyzer/internal/errors"
	"stock-analyzer/internal/fundamentals"
	"stock-analyzer/internal/logging"
	"stock-analyzer/internal/marketdata"
	"stock-analyzer/internal/models"
)

// AdviceProvider produces trading advice for an analysis request.
type AdviceProvider interface {
	Advise(ctx context.Context, req advisor.Request) models.Advice
}

// Service runs the full analysis pipeline for a ticker.
type Service struct {
	market       marketdata.Provider
	fundamentals fundamentals.Source
	advisor      AdviceProvider
	classifier   *patterns.Classifier
	scorer       *scoring.PotentialScorer
	cfg          config.AnalysisConfig
	logger       zerolog.Logger
}

// NewService creates an analysis service.
func NewService(
	market marketdata.Provider,
	source fundamentals.Source,
	adviceProvider AdviceProvider,
	cfg config.AnalysisConfig,
	logger zerolog.Logger,
) *Service {
	return &Service{
		market:       market,
		fundamentals: source,
		advisor:      adviceProvider,
		classifier:   patterns.NewClassifier(),
		scorer:       scoring.NewPotentialScorer(),
		cfg:          cfg,
		logger:       logger,
	}
}

// Analyze produces the full analysis for a ticker. Price history is
// mandatory: without bars the analysis fails with ErrNoData. The
// fundamentals scrape and the AI advisor degrade independently, so a
// partial analysis is still returned when either is unavailable.
func (s *Service) Analyze(ctx context.Context, symbol string) (*models.Analysis, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	logger := logging.WithSymbol(s.logger, symbol)

	snapshot := s.fetchFundamentals(ctx, symbol, logger)

	bars, err := s.market.GetDailyBars(ctx, symbol, s.cfg.LookbackDays)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, apperrors.ErrNoData
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	currentPrice := closes[len(closes)-1]

	set := models.IndicatorSet{
		EMA20:              latestEMA(closes, 20),
		EMA50:              latestEMA(closes, 50),
		CandlestickPattern: s.classifier.Classify(lastBars(bars, s.cfg.PatternWindow)),
	}

	score := s.scorer.Score(scoring.Signals{
		Beta:               snapshot.Beta,
		DividendYield:      snapshot.DividendYield,
		PERatio:            snapshot.PERatio,
		RSI:                snapshot.RSI,
		EMA20:              set.EMA20,
		EMA50:              set.EMA50,
		CandlestickPattern: set.CandlestickPattern,
	})

	advice := s.advisor.Advise(ctx, advisor.Request{
		Symbol:       symbol,
		Fundamentals: snapshot,
		Indicators:   set,
		CurrentPrice: &currentPrice,
	})

	name := symbol
	if details, err := s.market.GetTickerDetails(ctx, symbol); err == nil {
		name = details.Name
	} else {
		logger.Warn().Err(err).Msg("Could not resolve company name")
	}

	analysis := &models.Analysis{
		Symbol:         symbol,
		Name:           name,
		Fundamentals:   snapshot,
		Indicators:     set,
		CurrentPrice:   &currentPrice,
		PotentialScore: score,
		Recommendation: advice.Recommendation,
		Narrative:      advice.Narrative,
		RecentCloses:   lastValues(closes, s.cfg.RecentCloses),
		Timestamp:      time.Now().UTC(),
	}

	logging.LogAnalysis(logger, symbol, score, string(advice.Recommendation))
	return analysis, nil
}

// Search looks up a ticker and attaches its latest close and day-over-day
// change. A price lookup failure degrades to a result without prices.
func (s *Service) Search(ctx context.Context, query string) ([]models.Stock, error) {
	symbol := strings.ToUpper(strings.TrimSpace(query))

	details, err := s.market.GetTickerDetails(ctx, symbol)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrSymbolNotFound) {
			return []models.Stock{}, nil
		}
		return nil, err
	}

	stock := models.Stock{
		Symbol: details.Symbol,
		Name:   details.Name,
	}

	bars, err := s.market.GetDailyBars(ctx, details.Symbol, s.cfg.ValuationDays)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", details.Symbol).Msg("Price lookup failed for search result")
		return []models.Stock{stock}, nil
	}

	if len(bars) > 0 {
		price := bars[len(bars)-1].Close
		stock.CurrentPrice = &price
	}
	if len(bars) >= 2 {
		prev := bars[len(bars)-2].Close
		if prev != 0 {
			change := round2((bars[len(bars)-1].Close - prev) / prev * 100)
			stock.ChangePercent = &change
		}
	}

	return []models.Stock{stock}, nil
}

func (s *Service) fetchFundamentals(ctx context.Context, symbol string, logger zerolog.Logger) models.FundamentalsSnapshot {
	raw, err := s.fundamentals.Fetch(ctx, symbol)
	if err != nil {
		logger.Warn().Err(err).Msg("Fundamentals scrape failed, continuing without")
		return models.FundamentalsSnapshot{}
	}
	return fundamentals.Normalize(raw)
}

func latestEMA(closes []float64, period int) *float64 {
	value, err := indicators.LatestEMA(closes, period)
	if err != nil {
		return nil
	}
	return &value
}

func lastBars(bars []models.PriceBar, n int) []models.PriceBar {
	if len(bars) > n {
		return bars[len(bars)-n:]
	}
	return bars
}

func lastValues(values []float64, n int) []float64 {
	if len(values) > n {
		return values[len(values)-n:]
	}
	return values
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

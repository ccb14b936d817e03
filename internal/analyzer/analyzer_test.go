package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"stock-analyzer/internal/advisor"
	"stock-analyzer/internal/config"
	apperrors "stock-analyzer/internal/errors"
	"stock-analyzer/internal/models"
)

type fakeMarket struct {
	bars       []models.PriceBar
	barsErr    error
	details    *models.TickerDetails
	detailsErr error
}

func (f *fakeMarket) GetDailyBars(_ context.Context, _ string, _ int) ([]models.PriceBar, error) {
	return f.bars, f.barsErr
}

func (f *fakeMarket) GetTickerDetails(_ context.Context, _ string) (*models.TickerDetails, error) {
	return f.details, f.detailsErr
}

type fakeFundamentals struct {
	raw map[string]string
	err error
}

func (f *fakeFundamentals) Fetch(_ context.Context, _ string) (map[string]string, error) {
	return f.raw, f.err
}

type fakeAdvisor struct {
	advice  models.Advice
	lastReq advisor.Request
}

func (f *fakeAdvisor) Advise(_ context.Context, req advisor.Request) models.Advice {
	f.lastReq = req
	return f.advice
}

func testConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		LookbackDays:  120,
		PatternWindow: 10,
		RecentCloses:  30,
		ValuationDays: 2,
	}
}

// risingBars produces n strictly rising daily bars ending at base+n.
func risingBars(n int) []models.PriceBar {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, n)
	for i := 0; i < n; i++ {
		c := 100 + float64(i)
		bars[i] = models.PriceBar{
			Timestamp: start.AddDate(0, 0, i),
			Open:      c - 0.5,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
		}
	}
	return bars
}

func TestService_Analyze(t *testing.T) {
	market := &fakeMarket{
		bars:    risingBars(80),
		details: &models.TickerDetails{Symbol: "AAPL", Name: "Apple Inc."},
	}
	funda := &fakeFundamentals{raw: map[string]string{
		"Beta":       "0.9",
		"Dividend %": "3.5%",
		"P/E":        "20",
		"RSI (14)":   "55",
	}}
	adv := &fakeAdvisor{advice: models.Advice{Recommendation: models.Buy, Narrative: "Sólido."}}

	svc := NewService(market, funda, adv, testConfig(), zerolog.Nop())

	analysis, err := svc.Analyze(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if analysis.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want uppercased AAPL", analysis.Symbol)
	}
	if analysis.Name != "Apple Inc." {
		t.Errorf("Name = %q", analysis.Name)
	}
	if analysis.CurrentPrice == nil || *analysis.CurrentPrice != 179 {
		t.Errorf("CurrentPrice = %v, want 179 (last close)", analysis.CurrentPrice)
	}
	if analysis.Indicators.EMA20 == nil || analysis.Indicators.EMA50 == nil {
		t.Fatal("both EMAs should be known for 80 bars")
	}
	if *analysis.Indicators.EMA20 <= *analysis.Indicators.EMA50 {
		t.Errorf("rising series should have EMA20 > EMA50: %v vs %v",
			*analysis.Indicators.EMA20, *analysis.Indicators.EMA50)
	}
	if len(analysis.RecentCloses) != 30 {
		t.Errorf("RecentCloses length = %d, want 30", len(analysis.RecentCloses))
	}
	if analysis.RecentCloses[29] != 179 {
		t.Errorf("last recent close = %v, want 179", analysis.RecentCloses[29])
	}
	if analysis.Recommendation != models.Buy || analysis.Narrative != "Sólido." {
		t.Errorf("advice not carried through: %q %q", analysis.Recommendation, analysis.Narrative)
	}

	// 50 +10 (beta) +15 (dividend) +15 (trend) +10 (P/E) +5 (RSI)
	// sums past the cap.
	if analysis.PotentialScore != 100 {
		t.Errorf("PotentialScore = %d, want 100", analysis.PotentialScore)
	}

	// The advisor sees the same signals that were scored.
	if adv.lastReq.Symbol != "AAPL" {
		t.Errorf("advisor request symbol = %q", adv.lastReq.Symbol)
	}
	if adv.lastReq.Fundamentals.Beta == nil || *adv.lastReq.Fundamentals.Beta != 0.9 {
		t.Errorf("advisor request beta = %v", adv.lastReq.Fundamentals.Beta)
	}
}

func TestService_AnalyzeNoBars(t *testing.T) {
	svc := NewService(
		&fakeMarket{bars: nil},
		&fakeFundamentals{raw: map[string]string{}},
		&fakeAdvisor{},
		testConfig(),
		zerolog.Nop(),
	)

	if _, err := svc.Analyze(context.Background(), "AAPL"); !apperrors.Is(err, apperrors.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestService_AnalyzeBarsError(t *testing.T) {
	wantErr := apperrors.NewDataError("polygon", "AAPL", "daily bars", errors.New("boom"))
	svc := NewService(
		&fakeMarket{barsErr: wantErr},
		&fakeFundamentals{raw: map[string]string{}},
		&fakeAdvisor{},
		testConfig(),
		zerolog.Nop(),
	)

	if _, err := svc.Analyze(context.Background(), "AAPL"); !errors.Is(err, wantErr) {
		t.Fatalf("expected the provider error, got %v", err)
	}
}

func TestService_AnalyzeShortSeries(t *testing.T) {
	svc := NewService(
		&fakeMarket{bars: risingBars(30), detailsErr: apperrors.ErrSymbolNotFound},
		&fakeFundamentals{err: errors.New("blocked")},
		&fakeAdvisor{advice: models.Advice{Recommendation: models.Hold, Narrative: "n/a"}},
		testConfig(),
		zerolog.Nop(),
	)

	analysis, err := svc.Analyze(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	// 30 closes: EMA20 resolves, EMA50 stays unknown.
	if analysis.Indicators.EMA20 == nil {
		t.Error("EMA20 should be known for 30 bars")
	}
	if analysis.Indicators.EMA50 != nil {
		t.Errorf("EMA50 = %v, want unknown for 30 bars", *analysis.Indicators.EMA50)
	}

	// Fundamentals scrape failed; everything fundamental is unknown.
	if analysis.Fundamentals.Beta != nil || analysis.Fundamentals.PERatio != nil {
		t.Error("failed scrape should yield unknown fundamentals")
	}

	// Name degrades to the symbol when the details lookup fails.
	if analysis.Name != "AAPL" {
		t.Errorf("Name = %q, want the symbol", analysis.Name)
	}

	if len(analysis.RecentCloses) != 30 {
		t.Errorf("RecentCloses length = %d, want all 30", len(analysis.RecentCloses))
	}
}

func TestService_Search(t *testing.T) {
	market := &fakeMarket{
		bars: []models.PriceBar{
			{Close: 100},
			{Close: 103},
		},
		details: &models.TickerDetails{Symbol: "AAPL", Name: "Apple Inc."},
	}
	svc := NewService(market, &fakeFundamentals{}, &fakeAdvisor{}, testConfig(), zerolog.Nop())

	stocks, err := svc.Search(context.Background(), " aapl ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(stocks) != 1 {
		t.Fatalf("got %d results, want 1", len(stocks))
	}

	s := stocks[0]
	if s.Symbol != "AAPL" || s.Name != "Apple Inc." {
		t.Errorf("unexpected result: %+v", s)
	}
	if s.CurrentPrice == nil || *s.CurrentPrice != 103 {
		t.Errorf("CurrentPrice = %v, want 103", s.CurrentPrice)
	}
	if s.ChangePercent == nil || *s.ChangePercent != 3 {
		t.Errorf("ChangePercent = %v, want 3", s.ChangePercent)
	}
}

func TestService_SearchUnknownSymbol(t *testing.T) {
	svc := NewService(
		&fakeMarket{detailsErr: apperrors.ErrSymbolNotFound},
		&fakeFundamentals{},
		&fakeAdvisor{},
		testConfig(),
		zerolog.Nop(),
	)

	stocks, err := svc.Search(context.Background(), "ZZZZ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(stocks) != 0 {
		t.Errorf("got %d results, want none", len(stocks))
	}
}

func TestService_SearchPriceDegrades(t *testing.T) {
	svc := NewService(
		&fakeMarket{
			details: &models.TickerDetails{Symbol: "AAPL", Name: "Apple Inc."},
			barsErr: errors.New("rate limited"),
		},
		&fakeFundamentals{},
		&fakeAdvisor{},
		testConfig(),
		zerolog.Nop(),
	)

	stocks, err := svc.Search(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(stocks) != 1 {
		t.Fatalf("got %d results, want 1", len(stocks))
	}
	if stocks[0].CurrentPrice != nil || stocks[0].ChangePercent != nil {
		t.Errorf("prices should be unknown when the lookup fails: %+v", stocks[0])
	}
}

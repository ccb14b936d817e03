// Package marketdata fetches price history and ticker metadata from
// the Polygon.io REST API.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "stock-analyzer/internal/errors"
	"stock-analyzer/internal/logging"
	"stock-analyzer/internal/models"
	"stock-analyzer/pkg/utils"
)

// Provider supplies market data for analysis and valuation.
type Provider interface {
	// GetDailyBars returns daily OHLC bars covering the trailing number
	// of calendar days, oldest first.
	GetDailyBars(ctx context.Context, symbol string, days int) ([]models.PriceBar, error)
	// GetTickerDetails returns reference metadata for a ticker.
	GetTickerDetails(ctx context.Context, symbol string) (*models.TickerDetails, error)
}

const polygonBaseURL = "https://api.polygon.io"

// PolygonProvider implements Provider using the Polygon.io REST API.
type PolygonProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	retry   utils.RetryConfig
	logger  zerolog.Logger
}

// NewPolygonProvider creates a Provider backed by Polygon.io.
func NewPolygonProvider(apiKey string, logger zerolog.Logger) *PolygonProvider {
	return &PolygonProvider{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: polygonBaseURL,
		apiKey:  apiKey,
		retry:   utils.DefaultRetryConfig(),
		logger:  logger,
	}
}

// NewPolygonProviderWithBaseURL creates a Provider against a custom base
// URL. Used by tests.
func NewPolygonProviderWithBaseURL(apiKey, baseURL string, logger zerolog.Logger) *PolygonProvider {
	p := NewPolygonProvider(apiKey, logger)
	p.baseURL = baseURL
	return p
}

// aggsResponse is the response structure of the Polygon aggregates API.
type aggsResponse struct {
	Ticker       string `json:"ticker"`
	Status       string `json:"status"`
	ResultsCount int    `json:"resultsCount"`
	Results      []struct {
		Timestamp int64   `json:"t"` // unix milliseconds
		Open      float64 `json:"o"`
		High      float64 `json:"h"`
		Low       float64 `json:"l"`
		Close     float64 `json:"c"`
	} `json:"results"`
	Error string `json:"error"`
}

// tickerDetailsResponse is the response structure of the Polygon ticker
// details API.
type tickerDetailsResponse struct {
	Status  string `json:"status"`
	Results struct {
		Ticker string `json:"ticker"`
		Name   string `json:"name"`
	} `json:"results"`
	Error string `json:"error"`
}

// get fetches an endpoint with retries. Client errors (4xx) are not
// retried; transient network and server failures are.
func (p *PolygonProvider) get(ctx context.Context, endpoint string, out interface{}) error {
	body, err := utils.RetryWithResult(ctx, p.retry, func() ([]byte, error) {
		return p.fetch(ctx, endpoint)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("polygon decode: %w", err)
	}
	return nil
}

func (p *PolygonProvider) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	u := p.baseURL + endpoint
	if strings.Contains(endpoint, "?") {
		u += "&apiKey=" + url.QueryEscape(p.apiKey)
	} else {
		u += "?apiKey=" + url.QueryEscape(p.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	logging.LogAPICall(p.logger, "polygon", endpoint, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("polygon fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("polygon read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, utils.Permanent(apperrors.ErrSymbolNotFound)
	}
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, utils.Permanent(fmt.Errorf("polygon: status %d, body: %s", resp.StatusCode, string(body)))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("polygon: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// GetDailyBars returns daily bars for the trailing window, oldest first.
func (p *PolygonProvider) GetDailyBars(ctx context.Context, symbol string, days int) ([]models.PriceBar, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -days)
	endpoint := fmt.Sprintf("/v2/aggs/ticker/%s/range/1/day/%s/%s?adjusted=true&sort=asc&limit=50000",
		url.PathEscape(symbol), from.Format("2006-01-02"), to.Format("2006-01-02"))

	var aggs aggsResponse
	if err := p.get(ctx, endpoint, &aggs); err != nil {
		return nil, apperrors.NewDataError("polygon", symbol, "daily bars", err)
	}
	if aggs.Error != "" {
		return nil, apperrors.NewDataError("polygon", symbol, aggs.Error, nil)
	}

	bars := make([]models.PriceBar, 0, len(aggs.Results))
	for _, r := range aggs.Results {
		bars = append(bars, models.PriceBar{
			Timestamp: time.UnixMilli(r.Timestamp),
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })
	return bars, nil
}

// GetTickerDetails returns the name and symbol registered for a ticker.
func (p *PolygonProvider) GetTickerDetails(ctx context.Context, symbol string) (*models.TickerDetails, error) {
	endpoint := fmt.Sprintf("/v3/reference/tickers/%s", url.PathEscape(symbol))

	var details tickerDetailsResponse
	if err := p.get(ctx, endpoint, &details); err != nil {
		if apperrors.Is(err, apperrors.ErrSymbolNotFound) {
			return nil, apperrors.ErrSymbolNotFound
		}
		return nil, apperrors.NewDataError("polygon", symbol, "ticker details", err)
	}
	if details.Error != "" {
		return nil, apperrors.NewDataError("polygon", symbol, details.Error, nil)
	}
	if details.Results.Ticker == "" {
		return nil, apperrors.ErrSymbolNotFound
	}

	return &models.TickerDetails{
		Symbol: details.Results.Ticker,
		Name:   details.Results.Name,
	}, nil
}

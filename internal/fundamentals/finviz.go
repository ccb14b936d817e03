package fundamentals

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"stock-analyzer/internal/logging"
)

// Source supplies a raw fundamentals table for a symbol.
type Source interface {
	Fetch(ctx context.Context, symbol string) (map[string]string, error)
}

// FinvizSource implements Source by scraping the FINVIZ quote page.
type FinvizSource struct {
	client  *http.Client
	baseURL string
	logger  zerolog.Logger
}

// NewFinvizSource creates a new FINVIZ fundamentals source.
func NewFinvizSource(logger zerolog.Logger) *FinvizSource {
	return &FinvizSource{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://finviz.com",
		logger:  logger,
	}
}

// NewFinvizSourceWithBaseURL creates a source against a custom base URL.
func NewFinvizSourceWithBaseURL(baseURL string, logger zerolog.Logger) *FinvizSource {
	src := NewFinvizSource(logger)
	src.baseURL = baseURL
	return src
}

// Fetch scrapes the snapshot table from the quote page and returns it as a
// raw label->string map. The map may be empty when the page has no
// snapshot table; transport and HTTP errors are returned to the caller,
// who is expected to degrade to an empty table.
func (f *FinvizSource) Fetch(ctx context.Context, symbol string) (map[string]string, error) {
	endpoint := fmt.Sprintf("%s/quote.ashx?t=%s", f.baseURL, url.QueryEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("finviz request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	start := time.Now()
	resp, err := f.client.Do(req)
	logging.LogAPICall(f.logger, "finviz", endpoint, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("finviz fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("finviz: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("finviz parse: %w", err)
	}

	return ParseSnapshotTable(doc), nil
}

// ParseSnapshotTable extracts the key/value grid from a quote page
// document. Cells come in label/value pairs across each row.
func ParseSnapshotTable(doc *goquery.Document) map[string]string {
	data := make(map[string]string)

	doc.Find("table.snapshot-table2 tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		for i := 0; i+1 < cells.Length(); i += 2 {
			key := strings.TrimSpace(cells.Eq(i).Text())
			value := strings.TrimSpace(cells.Eq(i + 1).Text())
			if key != "" {
				data[key] = value
			}
		}
	})

	return data
}

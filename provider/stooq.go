package provider

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/quantfold/stratsim/market"
)

// DefaultStooqURL is the public Stooq endpoint for daily history downloads.
const DefaultStooqURL = "https://stooq.com"

const stooqDayLayout = "20060102"

// StooqClient downloads daily OHLC history from stooq.com as CSV.
type StooqClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewStooqClient creates a Stooq client. An empty baseURL selects the public
// endpoint.
func NewStooqClient(baseURL string) *StooqClient {
	if baseURL == "" {
		baseURL = DefaultStooqURL
	}
	return &StooqClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch downloads the daily bars for symbol over [start, end]. Stooq answers
// unknown symbols with a "No data" body; that comes back as an empty series
// with a nil error.
func (c *StooqClient) Fetch(ctx context.Context, symbol string, start, end time.Time) (market.Series, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" || end.Before(start) {
		return market.Series{Symbol: symbol}, nil
	}

	q := url.Values{}
	q.Set("s", strings.ToLower(symbol))
	q.Set("d1", start.Format(stooqDayLayout))
	q.Set("d2", end.Format(stooqDayLayout))
	q.Set("i", "d")

	reqURL := fmt.Sprintf("%s/q/d/l/?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return market.Series{}, fmt.Errorf("stooq: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return market.Series{}, fmt.Errorf("stooq: fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return market.Series{}, fmt.Errorf("stooq: fetch %s: status %d: %s",
			symbol, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return parseDailyCSV(symbol, resp.Body)
}

// parseDailyCSV reads Date,Open,High,Low,Close[,Volume] rows into a series.
// A "No data" body or a bare header parses to an empty series.
func parseDailyCSV(symbol string, r io.Reader) (market.Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	series := market.Series{Symbol: symbol}
	sawFirst := false

	for {
		row, err := cr.Read()
		if err == io.EOF {
			return series, nil
		}
		if err != nil {
			return market.Series{}, fmt.Errorf("read csv: %w", err)
		}
		if len(row) == 0 {
			continue
		}

		first := strings.TrimSpace(row[0])
		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(first, "date") {
				continue
			}
			if strings.EqualFold(first, "no data") {
				return series, nil
			}
		}
		if len(row) < 5 {
			return market.Series{}, fmt.Errorf("bad row (need date,open,high,low,close): %v", row)
		}

		day, err := time.Parse("2006-01-02", first)
		if err != nil {
			return market.Series{}, fmt.Errorf("bad date %q: %w", first, err)
		}

		var prices [4]float64
		for i := 0; i < 4; i++ {
			prices[i], err = strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
			if err != nil {
				return market.Series{}, fmt.Errorf("bad price %q: %w", row[i+1], err)
			}
		}

		volume := 0.0
		if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
			volume, err = strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
			if err != nil {
				return market.Series{}, fmt.Errorf("bad volume %q: %w", row[5], err)
			}
		}

		bar := market.Bar{
			Time:   day,
			Open:   prices[0],
			High:   prices[1],
			Low:    prices[2],
			Close:  prices[3],
			Volume: volume,
		}
		if err := series.Append(bar); err != nil {
			return market.Series{}, err
		}
	}
}

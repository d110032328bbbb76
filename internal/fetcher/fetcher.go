package fetcher

import (
	"context"
	"errors"
	"time"

	"StockAnalyzer/internal/model"
)

// ErrNoData reports the data-unavailable condition: the provider answered but
// has no series for the requested ticker and date range (unknown ticker, or
// no trading days in range). Callers treat it as informational, not a fault.
var ErrNoData = errors.New("no price data for requested ticker and range")

// Fetcher retrieves daily closing prices for a ticker over [start, end].
type Fetcher interface {
	FetchDailyCloses(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
// When Series is nil it synthesizes a deterministic walk so the dashboard is
// usable without network access.
type MockFetcher struct {
	Series map[string]*model.PriceSeries
	Err    error
	Calls  int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyCloses(_ context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Series != nil {
		ps, ok := m.Series[symbol]
		if !ok || ps.Len() == 0 {
			return nil, ErrNoData
		}
		return ps, nil
	}
	return generateMockSeries(symbol, start, end), nil
}

func generateMockSeries(symbol string, start, end time.Time) *model.PriceSeries {
	base := 100.0
	for _, r := range symbol {
		base += float64(r % 17)
	}
	ps := &model.PriceSeries{Symbol: symbol, FetchedAt: time.Now()}
	i := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		drift := float64(i%13-6) * 0.004
		ps.Points = append(ps.Points, model.PricePoint{
			Date:  d,
			Close: base * (1 + drift + float64(i)*0.0008),
		})
		i++
	}
	return ps
}

package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"StockAnalyzer/internal/cache"
	"StockAnalyzer/internal/fetcher"
	"StockAnalyzer/internal/indicator"
	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/recorder"

	"github.com/google/uuid"
)

// MaxTickers is the most tickers a single request may analyze.
const MaxTickers = 2

// trendTail is how many trailing trend points the dashboard shows.
const trendTail = 7

// Request holds the parameters of one analysis pass.
type Request struct {
	Tickers     []string
	Start       time.Time
	End         time.Time
	ShortWindow int
	LongWindow  int
	TrendWindow int
	WithReturns bool
	WithTrend   bool
}

// Normalize cleans ticker symbols, truncates to MaxTickers, and returns
// user-facing warnings for anything it adjusted.
func (r *Request) Normalize() []string {
	var warnings []string

	cleaned := r.Tickers[:0]
	for _, t := range r.Tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			cleaned = append(cleaned, t)
		}
	}
	r.Tickers = cleaned

	if len(r.Tickers) > MaxTickers {
		warnings = append(warnings, fmt.Sprintf("more than %d tickers given, using %s",
			MaxTickers, strings.Join(r.Tickers[:MaxTickers], ", ")))
		r.Tickers = r.Tickers[:MaxTickers]
	}
	if len(r.Tickers) > 0 && r.ShortWindow >= r.LongWindow {
		warnings = append(warnings, "short window is not smaller than long window; the overlays will largely coincide")
	}
	return warnings
}

// Validate rejects caller contract violations before any fetch happens.
func (r *Request) Validate() error {
	if len(r.Tickers) == 0 {
		return errors.New("at least one ticker is required")
	}
	if r.End.Before(r.Start) {
		return errors.New("end date must not be before start date")
	}
	if r.ShortWindow <= 0 || r.LongWindow <= 0 || r.TrendWindow <= 0 {
		return errors.New("window lengths must be positive")
	}
	return nil
}

// TickerReport is the per-ticker result. Error is set when this ticker could
// not be analyzed; a failed ticker never prevents the other from rendering.
type TickerReport struct {
	Ticker      string             `json:"ticker"`
	Error       string             `json:"error,omitempty"`
	Price       *model.ChartSeries `json:"price,omitempty"`
	ShortMA     *model.ChartSeries `json:"short_ma,omitempty"`
	LongMA      *model.ChartSeries `json:"long_ma,omitempty"`
	Returns     *model.ChartSeries `json:"returns,omitempty"`
	Trend       *model.ChartSeries `json:"trend,omitempty"`
	CloseStats  *indicator.Summary `json:"close_stats,omitempty"`
	ReturnStats *indicator.Summary `json:"return_stats,omitempty"`
}

// Report is the full response for one analysis request.
type Report struct {
	Start    string         `json:"start"`
	End      string         `json:"end"`
	Warnings []string       `json:"warnings,omitempty"`
	Tickers  []TickerReport `json:"tickers"`
}

// Service runs the synchronous fetch → compute → assemble pass. Cache and
// Recorder are optional; a nil cache disables memoization.
type Service struct {
	Fetcher  fetcher.Fetcher
	Cache    *cache.SeriesCache
	Recorder recorder.Recorder
}

// NewService creates an analyzer service. rec may be nil.
func NewService(f fetcher.Fetcher, c *cache.SeriesCache, rec recorder.Recorder) *Service {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Service{Fetcher: f, Cache: c, Recorder: rec}
}

// Analyze validates the request, then produces a per-ticker report. Fetch and
// compute failures are isolated per ticker; only an invalid request returns a
// non-nil error.
func (s *Service) Analyze(ctx context.Context, req Request) (*Report, error) {
	started := time.Now()

	warnings := req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	report := &Report{
		Start:    req.Start.Format(model.DateFormat),
		End:      req.End.Format(model.DateFormat),
		Warnings: warnings,
	}

	rec := &recorder.RequestRecord{
		ID:          uuid.NewString(),
		Start:       report.Start,
		End:         report.End,
		ShortWindow: req.ShortWindow,
		LongWindow:  req.LongWindow,
		TrendWindow: req.TrendWindow,
	}

	for _, ticker := range req.Tickers {
		tr, outcome := s.analyzeTicker(ctx, ticker, req, &rec.CacheHits)
		report.Tickers = append(report.Tickers, tr)
		rec.Tickers = append(rec.Tickers, outcome)
	}

	rec.DurationMS = time.Since(started).Milliseconds()
	if err := s.Recorder.RecordRequest(rec); err != nil {
		log.Printf("[WARN] record request: %v", err)
	}

	return report, nil
}

func (s *Service) analyzeTicker(ctx context.Context, ticker string, req Request, cacheHits *int) (TickerReport, recorder.TickerOutcome) {
	tr := TickerReport{Ticker: ticker}
	outcome := recorder.TickerOutcome{Ticker: ticker}

	ps, hit, err := s.fetchCached(ctx, ticker, req.Start, req.End)
	if hit {
		*cacheHits++
	}
	if err != nil {
		if errors.Is(err, fetcher.ErrNoData) {
			tr.Error = fmt.Sprintf("no data for %s in the requested range", ticker)
			outcome.Outcome = recorder.OutcomeNoData
		} else {
			log.Printf("[ERROR] fetch %s: %v", ticker, err)
			tr.Error = fmt.Sprintf("fetching %s failed: %v", ticker, err)
			outcome.Outcome = recorder.OutcomeFailed
		}
		outcome.Detail = tr.Error
		return tr, outcome
	}
	outcome.Points = ps.Len()

	dates := ps.Dates()
	closes := ps.Closes()

	tr.Price = model.NewChartSeries(fmt.Sprintf("%s close", ticker), dates, closes)
	closeStats := indicator.Summarize(closes)
	tr.CloseStats = &closeStats

	shortMA, err := indicator.SeriesMovingAverage(ps, req.ShortWindow)
	if err != nil {
		// Engine errors mean a broken series or window; isolate to this ticker.
		tr.Error = fmt.Sprintf("computing indicators for %s failed: %v", ticker, err)
		outcome.Outcome = recorder.OutcomeFailed
		outcome.Detail = tr.Error
		return tr, outcome
	}
	longMA, _ := indicator.MovingAverage(closes, req.LongWindow)

	if !shortMA.Empty() {
		tr.ShortMA = model.NewAlignedChartSeries(fmt.Sprintf("MA %d", req.ShortWindow), dates, shortMA.Offset, shortMA.Values)
	}
	if !longMA.Empty() {
		tr.LongMA = model.NewAlignedChartSeries(fmt.Sprintf("MA %d", req.LongWindow), dates, longMA.Offset, longMA.Values)
	}

	if req.WithReturns {
		ret := indicator.DailyReturns(closes)
		if !ret.Empty() {
			tr.Returns = model.NewAlignedChartSeries(fmt.Sprintf("%s daily return", ticker), dates, ret.Offset, ret.Values)
			retStats := indicator.Summarize(ret.Values)
			tr.ReturnStats = &retStats
		}
	}

	if req.WithTrend {
		trend, err := indicator.TrendSignal(closes, req.ShortWindow, req.TrendWindow)
		if err == nil && !trend.Empty() {
			// Only the defined positions, trimmed to the most recent few days.
			defined := dates[trend.Offset : trend.Offset+len(trend.Values)]
			label := fmt.Sprintf("MA%d - MA%d", req.ShortWindow, req.TrendWindow)
			tr.Trend = model.NewChartSeries(label, defined, trend.Values).Tail(trendTail)
		}
	}

	outcome.Outcome = recorder.OutcomeOK
	return tr, outcome
}

// fetchCached fetches through the memoizing cache. The bool reports a cache hit.
func (s *Service) fetchCached(ctx context.Context, ticker string, start, end time.Time) (*model.PriceSeries, bool, error) {
	if s.Cache == nil {
		ps, err := s.Fetcher.FetchDailyCloses(ctx, ticker, start, end)
		return ps, false, err
	}

	key := cache.MakeKey(ticker, start, end)
	if ps, ok := s.Cache.Get(key); ok {
		return ps, true, nil
	}

	ps, err := s.Fetcher.FetchDailyCloses(ctx, ticker, start, end)
	if err != nil {
		return nil, false, err
	}
	s.Cache.Set(key, ps)
	return ps, false, nil
}

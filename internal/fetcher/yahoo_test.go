package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func chartJSON(timestamps []int64, closes []float64) string {
	ts, cl := "", ""
	for i := range timestamps {
		if i > 0 {
			ts += ","
			cl += ","
		}
		ts += fmt.Sprintf("%d", timestamps[i])
		if closes[i] == 0 {
			cl += "null"
		} else {
			cl += fmt.Sprintf("%g", closes[i])
		}
	}
	return fmt.Sprintf(`{"chart":{"result":[{"timestamp":[%s],"indicators":{"quote":[{"close":[%s]}]}}],"error":null}}`, ts, cl)
}

func testFetcher(handler http.HandlerFunc) (*YahooFetcher, *httptest.Server) {
	srv := httptest.NewServer(handler)
	f := NewYahooFetcher("", 5*time.Second)
	f.BaseURL = srv.URL
	return f, srv
}

func TestYahooFetcher_ParsesSeries(t *testing.T) {
	day1 := time.Date(2024, 3, 4, 14, 30, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	day3 := day1.AddDate(0, 0, 2)

	f, srv := testFetcher(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("interval"); got != "1d" {
			t.Errorf("expected interval=1d, got %q", got)
		}
		fmt.Fprint(w, chartJSON(
			[]int64{day1.Unix(), day2.Unix(), day3.Unix()},
			[]float64{101.5, 0, 103.25}, // middle bar is a null (holiday)
		))
	})
	defer srv.Close()

	ps, err := f.FetchDailyCloses(context.Background(), "AAPL", day1.AddDate(0, 0, -1), day3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ps.Symbol != "AAPL" {
		t.Errorf("expected symbol AAPL, got %q", ps.Symbol)
	}
	if ps.Len() != 2 {
		t.Fatalf("expected 2 points after skipping null bar, got %d", ps.Len())
	}
	if ps.Points[0].Close != 101.5 || ps.Points[1].Close != 103.25 {
		t.Errorf("unexpected closes: %+v", ps.Points)
	}
	if err := ps.Validate(); err != nil {
		t.Errorf("fetched series should be ordered: %v", err)
	}
}

func TestYahooFetcher_NoData(t *testing.T) {
	f, srv := testFetcher(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
	})
	defer srv.Close()

	_, err := f.FetchDailyCloses(context.Background(), "NOPE", time.Now().AddDate(0, -1, 0), time.Now())
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestYahooFetcher_APIError(t *testing.T) {
	f, srv := testFetcher(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	})
	defer srv.Close()

	_, err := f.FetchDailyCloses(context.Background(), "ZZZZ99", time.Now().AddDate(0, -1, 0), time.Now())
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData for Not Found code, got %v", err)
	}
}

func TestYahooFetcher_ServerError(t *testing.T) {
	f, srv := testFetcher(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream busted", http.StatusInternalServerError)
	})
	defer srv.Close()

	_, err := f.FetchDailyCloses(context.Background(), "AAPL", time.Now().AddDate(0, -1, 0), time.Now())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if errors.Is(err, ErrNoData) {
		t.Fatal("transport failure must not be reported as data-unavailable")
	}
}

func TestMockFetcher_Deterministic(t *testing.T) {
	m := &MockFetcher{}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	a, err := m.FetchDailyCloses(context.Background(), "AAPL", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := m.FetchDailyCloses(context.Background(), "AAPL", start, end)
	if a.Len() == 0 || a.Len() != b.Len() {
		t.Fatalf("expected stable non-empty series, got %d vs %d", a.Len(), b.Len())
	}
	if err := a.Validate(); err != nil {
		t.Errorf("mock series should be ordered: %v", err)
	}
	if m.Calls != 2 {
		t.Errorf("expected 2 recorded calls, got %d", m.Calls)
	}
}

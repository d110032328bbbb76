package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func days(n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
	}
	return out
}

func TestNewAlignedChartSeries(t *testing.T) {
	cs := NewAlignedChartSeries("MA 3", days(5), 2, []float64{11, 12.5, 13})
	if len(cs.Points) != 5 {
		t.Fatalf("expected 5 points, got %d", len(cs.Points))
	}
	if cs.Points[0].Value.Valid || cs.Points[1].Value.Valid {
		t.Error("head positions before the offset should be undefined")
	}
	if !cs.Points[2].Value.Valid || cs.Points[2].Value.Float64 != 11 {
		t.Errorf("unexpected first defined value: %+v", cs.Points[2])
	}

	raw, err := json.Marshal(cs)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"value":null`) {
		t.Error("undefined positions should marshal as null")
	}
	if !strings.Contains(string(raw), `"date":"2024-05-01"`) {
		t.Errorf("dates should use day precision: %s", raw)
	}
}

func TestChartSeriesTail(t *testing.T) {
	cs := NewChartSeries("trend", days(10), []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	tail := cs.Tail(7)
	if len(tail.Points) != 7 {
		t.Fatalf("expected 7 points, got %d", len(tail.Points))
	}
	if tail.Points[0].Value.Float64 != 3 {
		t.Errorf("tail should keep the last points, got first=%v", tail.Points[0].Value)
	}
	if got := cs.Tail(50); len(got.Points) != 10 {
		t.Errorf("oversized tail should keep everything, got %d", len(got.Points))
	}
}

func TestPriceSeriesValidate(t *testing.T) {
	d := days(3)
	ok := &PriceSeries{Points: []PricePoint{{Date: d[0]}, {Date: d[1]}, {Date: d[2]}}}
	if err := ok.Validate(); err != nil {
		t.Errorf("ordered series should validate: %v", err)
	}

	dup := &PriceSeries{Points: []PricePoint{{Date: d[0]}, {Date: d[0]}}}
	if err := dup.Validate(); err == nil {
		t.Error("duplicate dates should fail validation")
	}

	rev := &PriceSeries{Points: []PricePoint{{Date: d[2]}, {Date: d[0]}}}
	if err := rev.Validate(); err == nil {
		t.Error("reversed dates should fail validation")
	}
}

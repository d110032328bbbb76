package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// DateFormat is the wire format for chart axis labels.
const DateFormat = "2006-01-02"

// ChartPoint is one plotted value. Value is null for positions where the
// underlying indicator is undefined (e.g. the head of a moving average).
type ChartPoint struct {
	Date  string     `json:"date"`
	Value null.Float `json:"value"`
}

// ChartSeries is the minimal chart-data contract handed to the rendering
// front end: a label plus ordered (date, nullable value) pairs. Keeping the
// surface this small means the charting technology can change without
// touching the indicator engine.
type ChartSeries struct {
	Label  string       `json:"label"`
	Points []ChartPoint `json:"points"`
}

// NewChartSeries builds a fully-defined series from aligned dates and values.
// Inputs must be the same length.
func NewChartSeries(label string, dates []time.Time, values []float64) *ChartSeries {
	cs := &ChartSeries{Label: label, Points: make([]ChartPoint, len(dates))}
	for i, d := range dates {
		cs.Points[i] = ChartPoint{Date: d.Format(DateFormat), Value: null.FloatFrom(values[i])}
	}
	return cs
}

// NewAlignedChartSeries builds a series over all dates where values only
// cover positions [offset, offset+len(values)); the rest marshal as null.
func NewAlignedChartSeries(label string, dates []time.Time, offset int, values []float64) *ChartSeries {
	cs := &ChartSeries{Label: label, Points: make([]ChartPoint, len(dates))}
	for i, d := range dates {
		p := ChartPoint{Date: d.Format(DateFormat)}
		if i >= offset && i-offset < len(values) {
			p.Value = null.FloatFrom(values[i-offset])
		}
		cs.Points[i] = p
	}
	return cs
}

// Tail returns a copy keeping only the last n points (all points if n exceeds
// the length).
func (cs *ChartSeries) Tail(n int) *ChartSeries {
	if n >= len(cs.Points) {
		return cs
	}
	return &ChartSeries{Label: cs.Label, Points: cs.Points[len(cs.Points)-n:]}
}

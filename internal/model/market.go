package model

import (
	"errors"
	"time"
)

// PricePoint is one daily observation: a trading day and its closing price.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries holds the daily closing prices for one ticker over a date range.
// Points are strictly increasing by date with no duplicates. A series is
// immutable once fetched; a request with different parameters produces a new
// independent series.
type PriceSeries struct {
	Symbol    string
	Points    []PricePoint
	FetchedAt time.Time
}

// ErrUnordered reports a series whose points are not strictly increasing by date.
var ErrUnordered = errors.New("price series is not strictly date-ordered")

// Len returns the number of points in the series.
func (s *PriceSeries) Len() int { return len(s.Points) }

// Closes returns the closing prices in date order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Dates returns the trading days in order.
func (s *PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		dates[i] = p.Date
	}
	return dates
}

// Validate checks the ordering invariant: strictly increasing dates, no duplicates.
func (s *PriceSeries) Validate() error {
	for i := 1; i < len(s.Points); i++ {
		if !s.Points[i-1].Date.Before(s.Points[i].Date) {
			return ErrUnordered
		}
	}
	return nil
}

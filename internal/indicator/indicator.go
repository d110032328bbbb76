package indicator

import (
	"errors"

	"StockAnalyzer/internal/model"
)

// Series is a derived sequence aligned to the price series that produced it.
// Values[i] corresponds to input position Offset+i; positions before Offset
// (and a fully empty Values) are undefined rather than zero. A derived series
// holds no identity of its own: it is recomputed whenever the inputs change.
type Series struct {
	Offset int
	Values []float64
}

// ErrBadWindow reports a caller contract violation: a non-positive window.
var ErrBadWindow = errors.New("window must be positive")

// Empty reports whether the series has no defined values.
func (s Series) Empty() bool { return len(s.Values) == 0 }

// At returns the value at the given input-aligned position, or false when the
// position is undefined.
func (s Series) At(pos int) (float64, bool) {
	if pos < s.Offset || pos >= s.Offset+len(s.Values) {
		return 0, false
	}
	return s.Values[pos-s.Offset], true
}

// MovingAverage computes the simple moving average of closes over the given
// window. The result is aligned to the input with offset window-1, so its
// length is len(closes)-window+1. A window larger than the input is a
// legitimate edge case, not an error: the result is entirely undefined.
func MovingAverage(closes []float64, window int) (Series, error) {
	if window <= 0 {
		return Series{}, ErrBadWindow
	}
	if window > len(closes) {
		return Series{Offset: window - 1}, nil
	}

	out := Series{
		Offset: window - 1,
		Values: make([]float64, len(closes)-window+1),
	}
	sum := 0.0
	for i, c := range closes {
		sum += c
		if i >= window {
			sum -= closes[i-window]
		}
		if i >= window-1 {
			out.Values[i-window+1] = sum / float64(window)
		}
	}
	return out, nil
}

// DailyReturns computes the daily simple percentage change
// (close[i]-close[i-1])/close[i-1], aligned at offset 1. A series with fewer
// than two points yields an empty result; callers handle absence rather than
// expect a failure.
func DailyReturns(closes []float64) Series {
	if len(closes) < 2 {
		return Series{Offset: 1}
	}
	out := Series{Offset: 1, Values: make([]float64, len(closes)-1)}
	for i := 1; i < len(closes); i++ {
		out.Values[i-1] = (closes[i] - closes[i-1]) / closes[i-1]
	}
	return out
}

// TrendSignal computes the difference between a short-window and a long-window
// moving average, aligned on the later of the two valid starting positions.
// The sign indicates the direction of the short-term drift. This is an
// exploratory heuristic, nothing more. shortWindow < longWindow is the
// conventional call but is not enforced.
func TrendSignal(closes []float64, shortWindow, longWindow int) (Series, error) {
	short, err := MovingAverage(closes, shortWindow)
	if err != nil {
		return Series{}, err
	}
	long, err := MovingAverage(closes, longWindow)
	if err != nil {
		return Series{}, err
	}

	offset := short.Offset
	if long.Offset > offset {
		offset = long.Offset
	}
	if short.Empty() || long.Empty() {
		return Series{Offset: offset}, nil
	}

	out := Series{Offset: offset, Values: make([]float64, len(closes)-offset)}
	for pos := offset; pos < len(closes); pos++ {
		s, _ := short.At(pos)
		l, _ := long.At(pos)
		out.Values[pos-offset] = s - l
	}
	return out, nil
}

// SeriesMovingAverage is MovingAverage over a full price series. It rejects
// an unordered series since that indicates a broken caller, not bad data.
func SeriesMovingAverage(ps *model.PriceSeries, window int) (Series, error) {
	if err := ps.Validate(); err != nil {
		return Series{}, err
	}
	return MovingAverage(ps.Closes(), window)
}

// SeriesDailyReturns is DailyReturns over a full price series, with the same
// ordering check as SeriesMovingAverage.
func SeriesDailyReturns(ps *model.PriceSeries) (Series, error) {
	if err := ps.Validate(); err != nil {
		return Series{}, err
	}
	return DailyReturns(ps.Closes()), nil
}

// SeriesTrendSignal is TrendSignal over a full price series.
func SeriesTrendSignal(ps *model.PriceSeries, shortWindow, longWindow int) (Series, error) {
	if err := ps.Validate(); err != nil {
		return Series{}, err
	}
	return TrendSignal(ps.Closes(), shortWindow, longWindow)
}

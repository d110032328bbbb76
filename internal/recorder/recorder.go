package recorder

// Outcome values for a per-ticker result.
const (
	OutcomeOK      = "OK"
	OutcomeNoData  = "NO_DATA"
	OutcomeFailed  = "FAILED"
	OutcomeSkipped = "SKIPPED"
)

// TickerOutcome captures how one ticker fared within a request.
type TickerOutcome struct {
	Ticker  string
	Outcome string
	Detail  string
	Points  int
}

// RequestRecord describes one analysis request. It records that the request
// happened and how it went; computed indicator values are never stored.
type RequestRecord struct {
	ID          string
	Tickers     []TickerOutcome
	Start       string
	End         string
	ShortWindow int
	LongWindow  int
	TrendWindow int
	CacheHits   int
	DurationMS  int64
}

// Recorder persists analysis request history.
type Recorder interface {
	RecordRequest(rec *RequestRecord) error
	Close() error
}

// NoopRecorder is used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRequest(_ *RequestRecord) error { return nil }
func (n *NoopRecorder) Close() error                         { return nil }

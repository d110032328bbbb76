package cache

import (
	"container/list"
	"sync"
	"time"

	"StockAnalyzer/internal/model"
)

// Key identifies one fetch request. Dates are formatted to day precision so
// two requests for the same calendar range share an entry.
type Key struct {
	Symbol string
	Start  string
	End    string
}

// MakeKey builds a cache key from a ticker and a date range.
func MakeKey(symbol string, start, end time.Time) Key {
	return Key{
		Symbol: symbol,
		Start:  start.Format(model.DateFormat),
		End:    end.Format(model.DateFormat),
	}
}

type entry struct {
	key    Key
	series *model.PriceSeries
	expiry time.Time
}

// SeriesCache memoizes fetched price series so unchanged request parameters
// avoid a redundant network round-trip. Bounded least-recently-used eviction
// plus a TTL. Thread-safe.
type SeriesCache struct {
	mu         sync.Mutex
	items      map[Key]*list.Element
	order      *list.List // front = most recently used
	ttl        time.Duration
	maxEntries int
}

// New creates a SeriesCache with the given TTL and max entry count.
func New(ttl time.Duration, maxEntries int) *SeriesCache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &SeriesCache{
		items:      make(map[Key]*list.Element),
		order:      list.New(),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// Get returns a cached series if present and not expired, marking the entry
// as recently used.
func (c *SeriesCache) Get(key Key) (*model.PriceSeries, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if time.Now().After(e.expiry) {
		c.remove(el)
		return nil, false
	}
	c.order.MoveToFront(el)
	return e.series, true
}

// Set stores a series, evicting the least recently used entry at capacity.
func (c *SeriesCache) Set(key Key, series *model.PriceSeries) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry)
		e.series = series
		e.expiry = time.Now().Add(c.ttl)
		c.order.MoveToFront(el)
		return
	}

	if len(c.items) >= c.maxEntries {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest)
		}
	}

	el := c.order.PushFront(&entry{key: key, series: series, expiry: time.Now().Add(c.ttl)})
	c.items[key] = el
}

// Sweep drops all expired entries and returns how many were removed. Intended
// to run on a schedule in long-lived processes.
func (c *SeriesCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if now.After(el.Value.(*entry).expiry) {
			c.remove(el)
			removed++
		}
		el = prev
	}
	return removed
}

// Len returns the current number of entries.
func (c *SeriesCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// remove must be called with mu held.
func (c *SeriesCache) remove(el *list.Element) {
	e := el.Value.(*entry)
	c.order.Remove(el)
	delete(c.items, e.key)
}

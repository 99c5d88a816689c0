package feed

import (
	"context"
	"sync"
)

// Outcome describes what a cursor did with a request.
type Outcome int

const (
	// Applied means a page was fetched and accepted.
	Applied Outcome = iota
	// Busy means a fetch for this cursor is already in flight.
	Busy
	// Exhausted means the query has no further pages.
	Exhausted
	// Stale means the result belonged to a query key that is no longer current.
	Stale
	// Failed means the fetch returned an error.
	Failed
	// Started means a fetch was begun and must be resolved later.
	Started
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Busy:
		return "busy"
	case Exhausted:
		return "exhausted"
	case Stale:
		return "stale"
	case Failed:
		return "failed"
	case Started:
		return "started"
	default:
		return "unknown"
	}
}

// Ticket identifies one begun fetch. It is handed back to Resolve.
type Ticket struct {
	Key  QueryKey
	Page int
	gen  uint64
}

// Cursor tracks pagination for one query at a time. At most one fetch is in
// flight per cursor; results for an abandoned key are discarded.
type Cursor struct {
	mu        sync.Mutex
	key       QueryKey
	started   bool
	nextPage  int
	inFlight  bool
	exhausted bool
	gen       uint64
}

func NewCursor() *Cursor {
	return &Cursor{nextPage: 1}
}

// Begin starts a fetch for key. A key different from the current one resets
// the cursor and abandons any fetch still in flight for the old key.
func (c *Cursor) Begin(key QueryKey) (Ticket, Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started || key != c.key {
		c.resetLocked(key)
	}
	if c.inFlight {
		return Ticket{}, Busy
	}
	if c.exhausted {
		return Ticket{}, Exhausted
	}
	c.inFlight = true
	return Ticket{Key: key, Page: c.nextPage, gen: c.gen}, Started
}

// Reset switches the cursor to key and starts over at page 1, even when key is
// unchanged. Used for explicit refreshes.
func (c *Cursor) Reset(key QueryKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked(key)
}

func (c *Cursor) resetLocked(key QueryKey) {
	c.key = key
	c.started = true
	c.nextPage = 1
	c.exhausted = false
	c.inFlight = false
	c.gen++
}

// Resolve applies the result of a fetch begun with t. A stale ticket returns
// Stale and leaves the cursor as it is.
func (c *Cursor) Resolve(t Ticket, page Page, err error) (Page, Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.gen != c.gen || t.Key != c.key || !c.inFlight || t.Page != c.nextPage {
		return Page{}, Stale, nil
	}
	c.inFlight = false
	if err != nil {
		return Page{}, Failed, newFetchError(t.Key, t.Page, err)
	}
	page.Number = t.Page
	c.nextPage++
	c.exhausted = page.Exhausted
	return page, Applied, nil
}

// FetchNext is Begin, a blocking call to src and Resolve in one step.
func (c *Cursor) FetchNext(ctx context.Context, src DataSource, key QueryKey, pageSize int) (Page, Outcome, error) {
	t, out := c.Begin(key)
	if out != Started {
		return Page{}, out, nil
	}
	raw, err := src.Fetch(ctx, t.Page, t.Key, pageSize)
	if err != nil {
		return c.Resolve(t, Page{}, err)
	}
	return c.Resolve(t, pageFromRaw(t.Page, raw), nil)
}

func (c *Cursor) Key() QueryKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key
}

// LoadedPages is the number of pages accepted for the current key.
func (c *Cursor) LoadedPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nextPage - 1
}

func (c *Cursor) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

func (c *Cursor) Exhausted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exhausted
}

package feed

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

const DefaultPageSize = 20

// Request is a begun fetch. Run may be called off the event loop; its Result
// must be handed back to the Controller that issued it.
type Request struct {
	ticket   Ticket
	src      DataSource
	pageSize int
}

func (r Request) Key() QueryKey { return r.ticket.Key }

func (r Request) Page() int { return r.ticket.Page }

// Run performs the network call. It does not touch cursor or store state.
func (r Request) Run(ctx context.Context) Result {
	raw, err := r.src.Fetch(ctx, r.ticket.Page, r.ticket.Key, r.pageSize)
	if err != nil {
		return Result{ticket: r.ticket, err: err}
	}
	return Result{ticket: r.ticket, page: pageFromRaw(r.ticket.Page, raw)}
}

// Result is the completed, not yet applied, outcome of a Request.
type Result struct {
	ticket Ticket
	page   Page
	err    error
}

func (r Result) Key() QueryKey { return r.ticket.Key }

func (r Result) Page() int { return r.ticket.Page }

func (r Result) Err() error { return r.err }

// Controller owns one Store, its Cursor and the DataSource they page through.
// The grid and the reels player each own one.
type Controller struct {
	name     string
	src      DataSource
	pageSize int
	cursor   *Cursor
	store    *Store
	log      zerolog.Logger

	mu      sync.Mutex
	lastErr error
}

func NewController(name string, src DataSource, pageSize int, logger zerolog.Logger) *Controller {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Controller{
		name:     name,
		src:      src,
		pageSize: pageSize,
		cursor:   NewCursor(),
		store:    NewStore(),
		log:      logger.With().Str("feed", name).Logger(),
	}
}

// SetQuery starts over on key, abandoning whatever is in flight. The first
// page replaces the store once applied.
func (c *Controller) SetQuery(key QueryKey) (Request, Outcome) {
	c.cursor.Reset(key)
	return c.begin(key)
}

// Next begins the fetch of the following page of the current query.
func (c *Controller) Next() (Request, Outcome) {
	return c.begin(c.cursor.Key())
}

func (c *Controller) begin(key QueryKey) (Request, Outcome) {
	t, out := c.cursor.Begin(key)
	if out != Started {
		c.log.Debug().Str("query", key.String()).Stringer("outcome", out).Msg("fetch not started")
		return Request{}, out
	}
	c.log.Debug().Str("query", key.String()).Int("page", t.Page).Msg("fetch started")
	return Request{ticket: t, src: c.src, pageSize: c.pageSize}, Started
}

// Apply resolves res against the cursor and writes accepted items to the
// store. Page 1 replaces, later pages append.
func (c *Controller) Apply(res Result) (Outcome, error) {
	page, out, err := c.cursor.Resolve(res.ticket, res.page, res.err)
	switch out {
	case Stale:
		c.log.Debug().Str("query", res.ticket.Key.String()).Int("page", res.ticket.Page).Msg("discarded stale page")
		return Stale, nil
	case Failed:
		c.setLastErr(err)
		c.log.Warn().Err(err).Str("query", res.ticket.Key.String()).Int("page", res.ticket.Page).Msg("fetch failed")
		return Failed, err
	}

	added := len(page.Items)
	if page.Number == 1 {
		c.store.Replace(page)
	} else {
		added = c.store.Append(page)
	}
	c.setLastErr(nil)
	c.log.Debug().
		Str("query", res.ticket.Key.String()).
		Int("page", page.Number).
		Int("added", added).
		Bool("exhausted", page.Exhausted).
		Msg("page applied")
	return Applied, nil
}

// Query is SetQuery, Run and Apply in one blocking call.
func (c *Controller) Query(ctx context.Context, key QueryKey) (Outcome, error) {
	req, out := c.SetQuery(key)
	if out != Started {
		return out, nil
	}
	return c.Apply(req.Run(ctx))
}

// LoadMore is Next, Run and Apply in one blocking call.
func (c *Controller) LoadMore(ctx context.Context) (Outcome, error) {
	req, out := c.Next()
	if out != Started {
		return out, nil
	}
	return c.Apply(req.Run(ctx))
}

// MarkReady records that the media unit for id finished mounting.
func (c *Controller) MarkReady(id string) bool {
	return c.store.MarkReady(id)
}

func (c *Controller) Name() string { return c.name }

func (c *Controller) Store() *Store { return c.store }

func (c *Controller) Key() QueryKey { return c.cursor.Key() }

func (c *Controller) Loading() bool { return c.cursor.InFlight() }

func (c *Controller) Exhausted() bool { return c.cursor.Exhausted() }

func (c *Controller) LoadedPages() int { return c.cursor.LoadedPages() }

// LastError is the error of the most recent failed fetch, cleared by the next
// applied page.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Controller) setLastErr(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}

// Package playback drives the reels player: one current item, one playing
// media unit, and pagination requests as the viewer nears the end.
package playback

import (
	"github.com/rs/zerolog"

	"github.com/glabrego/reelfeed-cli/internal/feed"
)

type State int

const (
	Idle State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "idle"
}

// Session is the user-visible playback state.
type Session struct {
	Index   int
	Playing bool
	Muted   bool
}

type Options struct {
	// PrefetchThreshold requests the next page once fewer than this many items
	// remain after the current one.
	PrefetchThreshold int
	// PreloadAhead is how many following items are handed to a Preloader.
	PreloadAhead int
}

func DefaultOptions() Options {
	return Options{PrefetchThreshold: 2, PreloadAhead: 1}
}

// Step reports the effect of a navigation call.
type Step struct {
	Moved bool
	Index int
	// FetchMore asks the caller to load the next page.
	FetchMore bool
}

// handle is the acquired media unit of the current item.
type handle struct {
	id   string
	unit MediaUnit
}

// Coordinator is the reels state machine. It is not safe for concurrent use;
// call it from the event loop.
type Coordinator struct {
	host  MediaHost
	pager Pager
	opts  Options
	log   zerolog.Logger

	items      []feed.Item
	generation uint64
	synced     bool

	state   State
	session Session
	active  *handle
}

func NewCoordinator(host MediaHost, pager Pager, opts Options, logger zerolog.Logger) *Coordinator {
	if opts.PrefetchThreshold < 0 {
		opts.PrefetchThreshold = 0
	}
	if opts.PreloadAhead < 0 {
		opts.PreloadAhead = 0
	}
	return &Coordinator{
		host:    host,
		pager:   pager,
		opts:    opts,
		log:     logger.With().Str("component", "playback").Logger(),
		session: Session{Playing: true},
	}
}

// Sync updates the coordinator's view of the feed. A new store generation
// starts over at the first item; appended items keep the current index.
func (c *Coordinator) Sync(snap feed.Snapshot) Step {
	if !c.synced || snap.Generation != c.generation {
		c.synced = true
		c.generation = snap.Generation
		c.items = snap.Items
		c.release()
		c.session.Index = 0
		if len(c.items) == 0 {
			c.state = Idle
			return Step{}
		}
		c.state = Ready
		c.session.Playing = true
		c.activate()
		return Step{Moved: true, Index: 0, FetchMore: c.nearEnd()}
	}

	c.items = snap.Items
	if c.state == Idle && len(c.items) > 0 {
		c.state = Ready
		c.session.Index = 0
		c.session.Playing = true
		c.activate()
		return Step{Moved: true, Index: 0, FetchMore: c.nearEnd()}
	}
	if c.session.Index >= len(c.items) {
		c.session.Index = max(len(c.items)-1, 0)
	}
	return Step{Index: c.session.Index}
}

// Advance moves one item forward (dir > 0) or back (dir < 0). Moving past the
// loaded items asks for more unless a fetch is running or the feed is done.
func (c *Coordinator) Advance(dir int) Step {
	idx := c.session.Index
	switch {
	case dir > 0:
		if c.state == Ready && idx+1 < len(c.items) {
			return c.moveTo(idx + 1)
		}
		return Step{Index: idx, FetchMore: c.canFetch()}
	case dir < 0:
		if c.state == Ready && idx > 0 {
			return c.moveTo(idx - 1)
		}
	}
	return Step{Index: idx}
}

// JumpTo selects index directly. Out-of-range indexes are ignored.
func (c *Coordinator) JumpTo(index int) Step {
	if c.state != Ready || index < 0 || index >= len(c.items) {
		return Step{Index: c.session.Index}
	}
	return c.moveTo(index)
}

func (c *Coordinator) moveTo(index int) Step {
	c.session.Index = index
	c.session.Playing = true
	c.activate()
	return Step{Moved: true, Index: index, FetchMore: c.nearEnd()}
}

// SetPlaying pauses or resumes the current unit.
func (c *Coordinator) SetPlaying(playing bool) {
	c.session.Playing = playing
	if c.active == nil {
		return
	}
	var err error
	if playing {
		err = c.active.unit.Play()
	} else {
		err = c.active.unit.Pause()
	}
	if err != nil {
		c.log.Warn().Err(err).Str("item", c.active.id).Bool("playing", playing).Msg("set playing failed")
	}
}

// SetMuted changes the sticky mute preference.
func (c *Coordinator) SetMuted(muted bool) {
	c.session.Muted = muted
	if c.active == nil {
		return
	}
	if err := c.active.unit.SetMuted(muted); err != nil {
		c.log.Warn().Err(err).Str("item", c.active.id).Msg("set muted failed")
	}
}

// Close releases the current unit. The coordinator goes back to Idle.
func (c *Coordinator) Close() {
	c.release()
	c.state = Idle
	c.synced = false
	c.items = nil
	c.session.Index = 0
}

func (c *Coordinator) State() State { return c.state }

func (c *Coordinator) Session() Session { return c.session }

func (c *Coordinator) Len() int { return len(c.items) }

// Current returns the item at the current index.
func (c *Coordinator) Current() (feed.Item, bool) {
	if c.state != Ready || c.session.Index >= len(c.items) {
		return feed.Item{}, false
	}
	return c.items[c.session.Index], true
}

// ActiveID is the id of the item whose unit is held, or "".
func (c *Coordinator) ActiveID() string {
	if c.active == nil {
		return ""
	}
	return c.active.id
}

// activate acquires the unit of the current item, releasing the previous one
// first. Only the held unit is ever asked to play.
func (c *Coordinator) activate() {
	it := c.items[c.session.Index]
	if c.active == nil || c.active.id != it.ID {
		c.release()
		unit := c.host.Unit(it.ID)
		if unit == nil {
			c.log.Warn().Str("item", it.ID).Msg("media host has no unit")
			return
		}
		c.active = &handle{id: it.ID, unit: unit}
		c.log.Debug().Str("item", it.ID).Int("index", c.session.Index).Msg("acquired media unit")
	}

	if err := c.active.unit.SetMuted(c.session.Muted); err != nil {
		c.log.Warn().Err(err).Str("item", it.ID).Msg("set muted failed")
	}
	if c.session.Playing {
		if err := c.active.unit.Play(); err != nil {
			c.log.Warn().Err(err).Str("item", it.ID).Msg("play failed")
		}
	}
	c.preload()
}

func (c *Coordinator) release() {
	if c.active == nil {
		return
	}
	h := c.active
	c.active = nil
	if err := h.unit.Pause(); err != nil {
		c.log.Warn().Err(err).Str("item", h.id).Msg("pause failed")
	}
	if err := h.unit.SeekToStart(); err != nil {
		c.log.Warn().Err(err).Str("item", h.id).Msg("rewind failed")
	}
	c.log.Debug().Str("item", h.id).Msg("released media unit")
}

func (c *Coordinator) preload() {
	p, ok := c.host.(Preloader)
	if !ok || c.opts.PreloadAhead == 0 {
		return
	}
	start := c.session.Index + 1
	end := min(start+c.opts.PreloadAhead, len(c.items))
	if start >= end {
		return
	}
	ids := make([]string, 0, end-start)
	for _, it := range c.items[start:end] {
		ids = append(ids, it.ID)
	}
	p.Preload(ids)
}

func (c *Coordinator) canFetch() bool {
	if c.pager == nil {
		return false
	}
	return !c.pager.Loading() && !c.pager.Exhausted()
}

func (c *Coordinator) nearEnd() bool {
	remaining := len(c.items) - 1 - c.session.Index
	return remaining < c.opts.PrefetchThreshold && c.canFetch()
}

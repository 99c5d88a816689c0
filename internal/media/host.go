// Package media is the terminal stand-in for a video element host. Units keep
// a play clock and a muted flag; buffering completes after a fixed delay that
// the TUI turns into a ready message.
package media

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/glabrego/reelfeed-cli/internal/playback"
)

const (
	DefaultBufferDelay = 400 * time.Millisecond
	DefaultClipLength  = 15 * time.Second
)

type Options struct {
	BufferDelay time.Duration
	ClipLength  time.Duration
	// Now is the clock. Defaults to time.Now.
	Now    func() time.Time
	Logger zerolog.Logger
}

// Host implements playback.MediaHost and playback.Preloader.
type Host struct {
	mu      sync.Mutex
	units   map[string]*Unit
	pending []string
	// epoch counts Forget calls. Buffering started before a Forget reports
	// against an older epoch.
	epoch   uint64
	opts    Options
	log     zerolog.Logger
}

var (
	_ playback.MediaHost = (*Host)(nil)
	_ playback.Preloader = (*Host)(nil)
)

func NewHost(opts Options) *Host {
	if opts.BufferDelay <= 0 {
		opts.BufferDelay = DefaultBufferDelay
	}
	if opts.ClipLength <= 0 {
		opts.ClipLength = DefaultClipLength
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Host{
		units: make(map[string]*Unit),
		opts:  opts,
		log:   opts.Logger.With().Str("component", "media").Logger(),
	}
}

// Unit returns the unit for id, creating it and starting to buffer on first use.
func (h *Host) Unit(id string) playback.MediaUnit {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.unitLocked(id)
}

func (h *Host) Preload(ids []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, id := range ids {
		h.unitLocked(id)
	}
}

func (h *Host) unitLocked(id string) *Unit {
	if u, ok := h.units[id]; ok {
		return u
	}
	u := &Unit{id: id, now: h.opts.Now, length: h.opts.ClipLength, muted: true, log: h.log}
	h.units[id] = u
	h.pending = append(h.pending, id)
	h.log.Debug().Str("item", id).Msg("buffering")
	return u
}

// DrainBuffering returns the ids that started buffering since the last call.
func (h *Host) DrainBuffering() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.pending
	h.pending = nil
	return out
}

// Epoch identifies the current generation of units.
func (h *Host) Epoch() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.epoch
}

// BufferDelay is how long a unit takes to become ready.
func (h *Host) BufferDelay() time.Duration { return h.opts.BufferDelay }

// MarkBuffered records that id finished buffering. It reports false for
// unknown or already buffered ids.
func (h *Host) MarkBuffered(id string) bool {
	h.mu.Lock()
	u, ok := h.units[id]
	h.mu.Unlock()
	if !ok {
		return false
	}
	return u.markBuffered()
}

// Lookup returns the unit for id without creating it.
func (h *Host) Lookup(id string) (*Unit, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	u, ok := h.units[id]
	return u, ok
}

// Playing returns the ids of all units currently playing.
func (h *Host) Playing() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for id, u := range h.units {
		if u.IsPlaying() {
			out = append(out, id)
		}
	}
	return out
}

// Forget drops every unit, e.g. after the query changed.
func (h *Host) Forget() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, u := range h.units {
		_ = u.Pause()
	}
	h.units = make(map[string]*Unit)
	h.pending = nil
	h.epoch++
}

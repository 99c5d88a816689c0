// Package input turns keys, wheel ticks and swipes into single next/previous
// navigation signals.
package input

import (
	"math"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"
)

type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// Signal is one discrete navigation step.
type Signal struct {
	Direction Direction
}

// Wheel is a wheel or trackpad scroll from a host that reports deltas.
// Positive DeltaY scrolls down.
type Wheel struct {
	DeltaY float64
}

// Swipe is a completed touch swipe. Positive DeltaY means the finger moved up.
type Swipe struct {
	DeltaY float64
}

type KeyMap struct {
	Next key.Binding
	Prev key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("down", "j", "pgdown", " "),
			key.WithHelp("↓/j/space", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up", "k", "pgup"),
			key.WithHelp("↑/k", "previous"),
		),
	}
}

type Options struct {
	// Debounce is the minimum interval between two emitted signals.
	Debounce time.Duration
	// WheelThreshold is the smallest |Wheel.DeltaY| that counts.
	WheelThreshold float64
	// SwipeThreshold is the smallest |Swipe.DeltaY| that counts.
	SwipeThreshold float64
	// SwipeMinRows is the smallest vertical mouse drag, in rows, that counts as a swipe.
	SwipeMinRows int
}

func DefaultOptions() Options {
	return Options{
		Debounce:       350 * time.Millisecond,
		WheelThreshold: 10,
		SwipeThreshold: 50,
		SwipeMinRows:   3,
	}
}

// Normalizer is stateful: it tracks drags in progress and the debounce window.
type Normalizer struct {
	keys    KeyMap
	opts    Options
	limiter *rate.Limiter

	dragging  bool
	dragStart int
}

func NewNormalizer(keys KeyMap, opts Options) *Normalizer {
	limit := rate.Inf
	if opts.Debounce > 0 {
		limit = rate.Every(opts.Debounce)
	}
	return &Normalizer{
		keys:    keys,
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Normalize maps msg to a signal. Unmapped messages and messages arriving
// inside the debounce window yield false.
func (n *Normalizer) Normalize(msg tea.Msg, now time.Time) (Signal, bool) {
	dir, ok := n.direction(msg)
	if !ok {
		return Signal{}, false
	}
	if !n.limiter.AllowN(now, 1) {
		return Signal{}, false
	}
	return Signal{Direction: dir}, true
}

func (n *Normalizer) direction(msg tea.Msg) (Direction, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, n.keys.Next):
			return Next, true
		case key.Matches(msg, n.keys.Prev):
			return Prev, true
		}
	case tea.MouseMsg:
		return n.mouse(msg)
	case Wheel:
		if math.Abs(msg.DeltaY) < n.opts.WheelThreshold || msg.DeltaY == 0 {
			return 0, false
		}
		return sign(msg.DeltaY), true
	case Swipe:
		if math.Abs(msg.DeltaY) < n.opts.SwipeThreshold || msg.DeltaY == 0 {
			return 0, false
		}
		return sign(msg.DeltaY), true
	}
	return 0, false
}

func (n *Normalizer) mouse(msg tea.MouseMsg) (Direction, bool) {
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelDown:
		return Next, true
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelUp:
		return Prev, true
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		n.dragging = true
		n.dragStart = msg.Y
	case msg.Action == tea.MouseActionRelease && n.dragging:
		n.dragging = false
		delta := n.dragStart - msg.Y
		if delta == 0 || abs(delta) < n.opts.SwipeMinRows {
			return 0, false
		}
		return sign(float64(delta)), true
	}
	return 0, false
}

// Help returns the bindings for a help line.
func (n *Normalizer) Help() []key.Binding {
	return []key.Binding{n.keys.Next, n.keys.Prev}
}

func sign(v float64) Direction {
	if v < 0 {
		return Prev
	}
	return Next
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

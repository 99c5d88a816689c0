package media

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Unit is a simulated clip. Position advances with the clock while playing
// and loops at the clip length.
type Unit struct {
	mu       sync.Mutex
	id       string
	now      func() time.Time
	length   time.Duration
	log      zerolog.Logger
	playing  bool
	muted    bool
	buffered bool
	offset   time.Duration
	started  time.Time
}

func (u *Unit) Play() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.playing {
		return nil
	}
	u.playing = true
	u.started = u.now()
	u.log.Debug().Str("item", u.id).Msg("play")
	return nil
}

func (u *Unit) Pause() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.playing {
		return nil
	}
	u.offset = u.positionLocked()
	u.playing = false
	u.log.Debug().Str("item", u.id).Dur("position", u.offset).Msg("pause")
	return nil
}

func (u *Unit) SeekToStart() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.offset = 0
	if u.playing {
		u.started = u.now()
	}
	return nil
}

func (u *Unit) SetMuted(muted bool) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.muted = muted
	return nil
}

func (u *Unit) IsPlaying() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.playing
}

func (u *Unit) IsMuted() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.muted
}

func (u *Unit) Buffered() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.buffered
}

// Position is the playhead within the clip.
func (u *Unit) Position() time.Duration {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.positionLocked()
}

// Progress is Position as a fraction of the clip length.
func (u *Unit) Progress() float64 {
	return float64(u.Position()) / float64(u.length)
}

// positionLocked does not advance until the clip is buffered.
func (u *Unit) positionLocked() time.Duration {
	pos := u.offset
	if u.playing && u.buffered {
		pos += u.now().Sub(u.started)
	}
	return pos % u.length
}

func (u *Unit) markBuffered() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.buffered {
		return false
	}
	u.buffered = true
	if u.playing {
		u.started = u.now()
	}
	return true
}

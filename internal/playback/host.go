package playback

// MediaUnit is one playable element owned by the UI layer.
type MediaUnit interface {
	Play() error
	Pause() error
	SeekToStart() error
	SetMuted(muted bool) error
}

// MediaHost hands out the playable unit for an item id. Readiness is reported
// by the host separately and recorded on the feed store.
type MediaHost interface {
	Unit(id string) MediaUnit
}

// Preloader is implemented by hosts that can start buffering ahead of time.
type Preloader interface {
	Preload(ids []string)
}

// Pager exposes the pagination state of the feed being played.
type Pager interface {
	Exhausted() bool
	Loading() bool
}

package feed

import "sync"

// Snapshot is a read-only view of a Store at one version.
type Snapshot struct {
	Items []Item
	// Generation changes on every Replace. Consumers use it to tell a new
	// query from an append.
	Generation uint64
	// Version changes on every mutation.
	Version uint64
}

// Store is the ordered, id-unique list of items fetched for the current query.
// It never talks to the network.
type Store struct {
	mu          sync.RWMutex
	items       []Item
	index       map[string]int
	generation  uint64
	version     uint64
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

func NewStore() *Store {
	return &Store{
		index:       make(map[string]int),
		subscribers: make(map[int]func(Snapshot)),
	}
}

// Replace discards all items and reseeds the store from page, in page order.
// Repeated ids inside the page keep their first occurrence.
func (s *Store) Replace(page Page) {
	s.mu.Lock()
	s.items = make([]Item, 0, len(page.Items))
	s.index = make(map[string]int, len(page.Items))
	s.appendLocked(page.Items)
	s.generation++
	s.version++
	snap, subs := s.snapshotLocked(), s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
}

// Append adds the items of page whose id is not already present and returns
// how many were added. Redelivered items are dropped silently.
func (s *Store) Append(page Page) int {
	s.mu.Lock()
	added := s.appendLocked(page.Items)
	if added == 0 {
		s.mu.Unlock()
		return 0
	}
	s.version++
	snap, subs := s.snapshotLocked(), s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
	return added
}

func (s *Store) appendLocked(items []Item) int {
	added := 0
	for _, it := range items {
		if _, dup := s.index[it.ID]; dup {
			continue
		}
		s.index[it.ID] = len(s.items)
		s.items = append(s.items, it)
		added++
	}
	return added
}

// MarkReady flags the item as mounted. It reports false for unknown ids and
// for items that were already ready.
func (s *Store) MarkReady(id string) bool {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok || s.items[i].Ready {
		s.mu.Unlock()
		return false
	}
	s.items[i].Ready = true
	s.version++
	snap, subs := s.snapshotLocked(), s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
	return true
}

// Items returns a copy of the current items.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Item(nil), s.items...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every mutation. The
// returned func removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Items:      append([]Item(nil), s.items...),
		Generation: s.generation,
		Version:    s.version,
	}
}

func (s *Store) subscribersLocked() []func(Snapshot) {
	if len(s.subscribers) == 0 {
		return nil
	}
	out := make([]func(Snapshot), 0, len(s.subscribers))
	for id := 0; id < s.nextSubID; id++ {
		if fn, ok := s.subscribers[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}

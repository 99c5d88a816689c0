package feedapi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/glabrego/reelfeed-cli/internal/feed"
)

// MemorySource serves fixed item lists per category. Used by demo mode and tests.
type MemorySource struct {
	mu      sync.Mutex
	items   map[string][]feed.RawItem
	latency time.Duration
	fail    map[int]error
}

func NewMemorySource(items map[string][]feed.RawItem) *MemorySource {
	return &MemorySource{items: items, fail: make(map[int]error)}
}

// WithLatency delays every Fetch, so in-flight states are visible in the UI.
func (m *MemorySource) WithLatency(d time.Duration) *MemorySource {
	m.latency = d
	return m
}

// FailPage makes the next Fetch of page return err once.
func (m *MemorySource) FailPage(page int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[page] = err
}

func (m *MemorySource) Fetch(ctx context.Context, page int, key feed.QueryKey, pageSize int) (feed.RawPage, error) {
	if m.latency > 0 {
		select {
		case <-ctx.Done():
			return feed.RawPage{}, ctx.Err()
		case <-time.After(m.latency):
		}
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = feed.DefaultPageSize
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.fail[page]; ok {
		delete(m.fail, page)
		return feed.RawPage{}, err
	}

	all := m.filtered(key)
	start := (page - 1) * pageSize
	if start >= len(all) {
		return feed.RawPage{}, nil
	}
	end := min(start+pageSize, len(all))
	return feed.RawPage{
		Items:   append([]feed.RawItem(nil), all[start:end]...),
		HasMore: end < len(all),
	}, nil
}

// filtered applies the "new" filter by keeping every other item, which is
// enough to make the two queries visibly different.
func (m *MemorySource) filtered(key feed.QueryKey) []feed.RawItem {
	all := m.items[key.Category]
	if key.Filter != "new" {
		return all
	}
	out := make([]feed.RawItem, 0, len(all)/2+1)
	for i := 0; i < len(all); i += 2 {
		out = append(out, all[i])
	}
	return out
}

// DemoItems builds a deterministic catalogue for the given categories. The
// height hints cycle through a fixed pattern rather than being random.
func DemoItems(categories []string, perCategory int) map[string][]feed.RawItem {
	hints := []string{"tall", "short", "medium", "short", "tall", "medium", "medium"}
	out := make(map[string][]feed.RawItem, len(categories))
	for ci, cat := range categories {
		items := make([]feed.RawItem, 0, perCategory)
		for i := 0; i < perCategory; i++ {
			id := fmt.Sprintf("%s-%03d", cat, i+1)
			items = append(items, feed.RawItem{
				ID:          id,
				HeightHint:  hints[(i+ci)%len(hints)],
				MediaURL:    fmt.Sprintf("https://media.example.com/%s.mp4", id),
				MediaKind:   "video",
				Title:       fmt.Sprintf("%s #%d", cat, i+1),
				CaptionHTML: fmt.Sprintf("<p>Clip <strong>%d</strong> from <em>%s</em></p>", i+1, cat),
			})
		}
		out[cat] = items
	}
	return out
}

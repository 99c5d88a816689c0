package feed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fetchCall struct {
	page int
	key  QueryKey
}

type fakeSource struct {
	mu      sync.Mutex
	pages   map[QueryKey][]RawPage
	err     error
	calls   []fetchCall
	release chan struct{}
}

func (f *fakeSource) Fetch(_ context.Context, page int, key QueryKey, _ int) (RawPage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{page: page, key: key})
	release := f.release
	err := f.err
	pages := f.pages[key]
	f.mu.Unlock()

	if release != nil {
		<-release
	}
	if err != nil {
		return RawPage{}, err
	}
	if page-1 >= len(pages) {
		return RawPage{}, nil
	}
	return pages[page-1], nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func rawItems(ids ...string) []RawItem {
	out := make([]RawItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, RawItem{ID: id, HeightHint: "medium"})
	}
	return out
}

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

var (
	keyA = QueryKey{Category: "art"}
	keyB = QueryKey{Category: "music"}
)

func TestCursor_BusyWhileInFlight(t *testing.T) {
	c := NewCursor()

	first, out := c.Begin(keyA)
	require.Equal(t, Started, out)
	require.Equal(t, 1, first.Page)

	_, out = c.Begin(keyA)
	require.Equal(t, Busy, out)

	page, out, err := c.Resolve(first, Page{Items: []Item{{ID: "a"}}}, nil)
	require.NoError(t, err)
	require.Equal(t, Applied, out)
	require.Equal(t, 1, page.Number)

	second, out := c.Begin(keyA)
	require.Equal(t, Started, out)
	require.Equal(t, 2, second.Page)
}

func TestCursor_StaleResponseAfterKeyChange(t *testing.T) {
	c := NewCursor()

	ticketA, out := c.Begin(keyA)
	require.Equal(t, Started, out)

	ticketB, out := c.Begin(keyB)
	require.Equal(t, Started, out, "a new key must not wait for the old fetch")

	_, out, err := c.Resolve(ticketA, Page{Items: []Item{{ID: "old"}}}, nil)
	require.NoError(t, err)
	require.Equal(t, Stale, out)
	require.True(t, c.InFlight(), "stale result must not clear the new fetch")

	_, out, err = c.Resolve(ticketB, Page{Items: []Item{{ID: "new"}}, Exhausted: true}, nil)
	require.NoError(t, err)
	require.Equal(t, Applied, out)
	require.True(t, c.Exhausted())
	require.Equal(t, keyB, c.Key())
}

func TestCursor_FailureIsRetryable(t *testing.T) {
	c := NewCursor()
	ticket, _ := c.Begin(keyA)

	_, out, err := c.Resolve(ticket, Page{}, errors.New("timeout"))
	require.Equal(t, Failed, out)
	require.True(t, IsRetryable(err))

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, 1, fe.Page)
	require.False(t, c.InFlight())

	retry, out := c.Begin(keyA)
	require.Equal(t, Started, out)
	require.Equal(t, 1, retry.Page, "a failed page is requested again")
}

func TestCursor_NonRetryableError(t *testing.T) {
	c := NewCursor()
	ticket, _ := c.Begin(keyA)

	_, _, err := c.Resolve(ticket, Page{}, NonRetryable{Err: errors.New("bad request")})
	require.Error(t, err)
	require.False(t, IsRetryable(err))
}

func TestCursor_ExhaustedStopsFetching(t *testing.T) {
	src := &fakeSource{pages: map[QueryKey][]RawPage{
		keyA: {{Items: rawItems("1"), HasMore: false}},
	}}
	c := NewCursor()

	_, out, err := c.FetchNext(context.Background(), src, keyA, 10)
	require.NoError(t, err)
	require.Equal(t, Applied, out)

	_, out, err = c.FetchNext(context.Background(), src, keyA, 10)
	require.NoError(t, err)
	require.Equal(t, Exhausted, out)
	require.Equal(t, 1, src.callCount())
}

func TestStore_ReplaceAndAppendDeduplicate(t *testing.T) {
	s := NewStore()
	s.Replace(Page{Number: 1, Items: []Item{{ID: "a"}, {ID: "b"}, {ID: "a"}}})
	require.Equal(t, []string{"a", "b"}, ids(s.Items()))

	added := s.Append(Page{Number: 2, Items: []Item{{ID: "b"}, {ID: "c"}}})
	require.Equal(t, 1, added)
	require.Equal(t, []string{"a", "b", "c"}, ids(s.Items()))

	s.Replace(Page{Number: 1, Items: []Item{{ID: "z"}}})
	require.Equal(t, []string{"z"}, ids(s.Items()))
	require.False(t, s.Contains("a"))
}

func TestStore_NeverHoldsDuplicateIDs(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := NewStore()

	for step := 0; step < 300; step++ {
		n := rng.Intn(6)
		items := make([]Item, 0, n)
		for i := 0; i < n; i++ {
			items = append(items, Item{ID: fmt.Sprintf("id-%d", rng.Intn(25))})
		}
		if rng.Intn(5) == 0 {
			s.Replace(Page{Number: 1, Items: items})
		} else {
			s.Append(Page{Number: 2, Items: items})
		}

		seen := make(map[string]bool)
		for _, it := range s.Items() {
			require.False(t, seen[it.ID], "duplicate id %s at step %d", it.ID, step)
			seen[it.ID] = true
		}
	}
}

func TestStore_SubscribeReceivesSnapshots(t *testing.T) {
	s := NewStore()
	var got []Snapshot
	unsubscribe := s.Subscribe(func(snap Snapshot) { got = append(got, snap) })

	s.Replace(Page{Number: 1, Items: []Item{{ID: "a"}}})
	s.Append(Page{Number: 2, Items: []Item{{ID: "a"}}})
	s.Append(Page{Number: 2, Items: []Item{{ID: "b"}}})
	require.True(t, s.MarkReady("b"))
	require.False(t, s.MarkReady("b"))

	require.Len(t, got, 3, "no-op append and repeated MarkReady do not notify")
	require.Equal(t, got[0].Generation, got[1].Generation)
	require.Less(t, got[0].Version, got[1].Version)
	require.True(t, got[2].Items[1].Ready)

	unsubscribe()
	s.Replace(Page{Number: 1})
	require.Len(t, got, 3)
}

func TestController_QueryThenLoadMore(t *testing.T) {
	src := &fakeSource{pages: map[QueryKey][]RawPage{
		keyA: {
			{Items: rawItems("1", "2"), HasMore: true},
			{Items: rawItems("2", "3"), HasMore: false},
		},
	}}
	c := NewController("grid", src, 2, zerolog.Nop())

	out, err := c.Query(context.Background(), keyA)
	require.NoError(t, err)
	require.Equal(t, Applied, out)

	out, err = c.LoadMore(context.Background())
	require.NoError(t, err)
	require.Equal(t, Applied, out)
	require.Equal(t, []string{"1", "2", "3"}, ids(c.Store().Items()))
	require.True(t, c.Exhausted())

	out, err = c.LoadMore(context.Background())
	require.NoError(t, err)
	require.Equal(t, Exhausted, out)
	require.Equal(t, 2, src.callCount())
}

func TestController_RapidRetriggerIssuesOneRequest(t *testing.T) {
	src := &fakeSource{
		pages:   map[QueryKey][]RawPage{keyA: {{Items: rawItems("1"), HasMore: true}}},
		release: make(chan struct{}),
	}
	c := NewController("reels", src, 10, zerolog.Nop())

	req, out := c.SetQuery(keyA)
	require.Equal(t, Started, out)

	for i := 0; i < 5; i++ {
		_, out = c.Next()
		require.Equal(t, Busy, out)
	}

	done := make(chan Result)
	go func() { done <- req.Run(context.Background()) }()
	close(src.release)

	out, err := c.Apply(<-done)
	require.NoError(t, err)
	require.Equal(t, Applied, out)
	require.Equal(t, 1, src.callCount())
	require.Equal(t, 1, c.Store().Len())
}

func TestController_StaleQueryNeverOverwrites(t *testing.T) {
	src := &fakeSource{pages: map[QueryKey][]RawPage{
		keyA: {{Items: rawItems("a1", "a2"), HasMore: true}},
		keyB: {{Items: rawItems("b1"), HasMore: true}},
	}}
	c := NewController("grid", src, 10, zerolog.Nop())

	reqA, _ := c.SetQuery(keyA)
	reqB, _ := c.SetQuery(keyB)

	resB := reqB.Run(context.Background())
	resA := reqA.Run(context.Background())

	out, err := c.Apply(resB)
	require.NoError(t, err)
	require.Equal(t, Applied, out)

	out, err = c.Apply(resA)
	require.NoError(t, err)
	require.Equal(t, Stale, out)
	require.Equal(t, []string{"b1"}, ids(c.Store().Items()))
}

func TestController_FailedLoadMoreKeepsItems(t *testing.T) {
	src := &fakeSource{pages: map[QueryKey][]RawPage{
		keyA: {{Items: rawItems("1", "2"), HasMore: true}},
	}}
	c := NewController("grid", src, 2, zerolog.Nop())
	_, err := c.Query(context.Background(), keyA)
	require.NoError(t, err)

	src.mu.Lock()
	src.err = errors.New("connection reset")
	src.mu.Unlock()

	out, err := c.LoadMore(context.Background())
	require.Equal(t, Failed, out)
	require.True(t, IsRetryable(err))
	require.ErrorIs(t, c.LastError(), err)
	require.Equal(t, []string{"1", "2"}, ids(c.Store().Items()))
	require.False(t, c.Loading())

	src.mu.Lock()
	src.err = nil
	src.pages[keyA] = append(src.pages[keyA], RawPage{Items: rawItems("3")})
	src.mu.Unlock()

	out, err = c.LoadMore(context.Background())
	require.NoError(t, err)
	require.Equal(t, Applied, out)
	require.NoError(t, c.LastError())
	require.Equal(t, []string{"1", "2", "3"}, ids(c.Store().Items()))
}

func TestRawItem_ToItem(t *testing.T) {
	it := RawItem{ID: "x", HeightHint: "TALL", MediaURL: "https://cdn.example.com/x.mp4", MediaKind: "video"}.ToItem()
	require.Equal(t, HeightTall, it.Height)
	require.Equal(t, "https://cdn.example.com/x.mp4", it.Media.URL)
	require.False(t, it.Ready)

	require.Equal(t, HeightUnknown, RawItem{ID: "y", HeightHint: "huge"}.ToItem().Height)
}

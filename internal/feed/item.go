package feed

import (
	"context"
	"strings"
)

// HeightHint is the data-source supplied relative height of an item's media.
type HeightHint int

const (
	HeightUnknown HeightHint = iota
	HeightShort
	HeightMedium
	HeightTall
)

func (h HeightHint) String() string {
	switch h {
	case HeightShort:
		return "short"
	case HeightMedium:
		return "medium"
	case HeightTall:
		return "tall"
	default:
		return "unknown"
	}
}

// ParseHeightHint maps a wire value to a hint. Anything unrecognised is HeightUnknown.
func ParseHeightHint(raw string) HeightHint {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "short":
		return HeightShort
	case "medium":
		return HeightMedium
	case "tall":
		return HeightTall
	default:
		return HeightUnknown
	}
}

// MediaRef is an opaque pointer to the playable media of an item.
type MediaRef struct {
	URL  string
	Kind string
}

// Item is one entry of a feed.
type Item struct {
	ID          string
	Height      HeightHint
	Media       MediaRef
	Title       string
	CaptionHTML string
	Ready       bool
}

// RawItem is the shape returned by a DataSource.
type RawItem struct {
	ID          string `json:"id"`
	HeightHint  string `json:"height_hint"`
	MediaURL    string `json:"media_url"`
	MediaKind   string `json:"media_kind"`
	Title       string `json:"title"`
	CaptionHTML string `json:"caption_html"`
}

func (r RawItem) ToItem() Item {
	return Item{
		ID:          r.ID,
		Height:      ParseHeightHint(r.HeightHint),
		Media:       MediaRef{URL: r.MediaURL, Kind: r.MediaKind},
		Title:       r.Title,
		CaptionHTML: r.CaptionHTML,
	}
}

// Page is one page of results for a query.
type Page struct {
	Number    int
	Items     []Item
	Exhausted bool
}

// QueryKey identifies the query a cursor is paging through. Two keys are the
// same query iff they compare equal.
type QueryKey struct {
	Category string
	Filter   string
}

func (k QueryKey) String() string {
	if k.Filter == "" {
		return k.Category
	}
	return k.Category + "/" + k.Filter
}

// RawPage is what a DataSource returns for one request.
type RawPage struct {
	Items   []RawItem
	HasMore bool
}

// DataSource fetches one page of a query. Implementations must be safe to call
// from a goroutine other than the event loop.
type DataSource interface {
	Fetch(ctx context.Context, page int, key QueryKey, pageSize int) (RawPage, error)
}

func pageFromRaw(number int, raw RawPage) Page {
	items := make([]Item, 0, len(raw.Items))
	for _, ri := range raw.Items {
		if ri.ID == "" {
			continue
		}
		items = append(items, ri.ToItem())
	}
	return Page{Number: number, Items: items, Exhausted: !raw.HasMore}
}

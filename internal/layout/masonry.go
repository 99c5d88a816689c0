// Package layout packs feed items into height-balanced columns.
//
// Packing is greedy: every item goes to the column with the smallest
// accumulated weight, lowest index on ties. The result depends only on the
// item order and the column count.
package layout

import (
	"errors"
	"fmt"

	"github.com/glabrego/reelfeed-cli/internal/feed"
)

// ErrInvalidColumnCount is returned for a column count below one.
var ErrInvalidColumnCount = errors.New("layout: column count must be at least 1")

// Weight is the relative height used for packing.
func Weight(h feed.HeightHint) float64 {
	switch h {
	case feed.HeightShort:
		return 0.75
	case feed.HeightTall:
		return 1.33
	default:
		return 1.0
	}
}

// Column is one packed column.
type Column struct {
	Items  []feed.Item
	Height float64
}

// Packer places items one after another into a fixed set of columns.
type Packer struct {
	columns []Column
}

func NewPacker(columnCount int) (*Packer, error) {
	if columnCount < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidColumnCount, columnCount)
	}
	return &Packer{columns: make([]Column, columnCount)}, nil
}

// Add continues packing on top of the columns' current heights.
func (p *Packer) Add(items ...feed.Item) {
	for _, it := range items {
		i := p.shortest()
		p.columns[i].Items = append(p.columns[i].Items, it)
		p.columns[i].Height += Weight(it.Height)
	}
}

func (p *Packer) shortest() int {
	best := 0
	for i := 1; i < len(p.columns); i++ {
		if p.columns[i].Height < p.columns[best].Height {
			best = i
		}
	}
	return best
}

func (p *Packer) ColumnCount() int { return len(p.columns) }

// Columns returns a deep copy of the packed columns.
func (p *Packer) Columns() []Column {
	out := make([]Column, len(p.columns))
	for i, c := range p.columns {
		out[i] = Column{Items: append([]feed.Item(nil), c.Items...), Height: c.Height}
	}
	return out
}

// Layout packs items into columnCount columns from scratch.
func Layout(items []feed.Item, columnCount int) ([]Column, error) {
	p, err := NewPacker(columnCount)
	if err != nil {
		return nil, err
	}
	p.Add(items...)
	return p.Columns(), nil
}

// Assignment maps every item id to the index of the column holding it.
func Assignment(columns []Column) map[string]int {
	out := make(map[string]int)
	for ci, c := range columns {
		for _, it := range c.Items {
			out[it.ID] = ci
		}
	}
	return out
}

// Spread is the difference between the tallest and the shortest column.
func Spread(columns []Column) float64 {
	if len(columns) == 0 {
		return 0
	}
	lo, hi := columns[0].Height, columns[0].Height
	for _, c := range columns[1:] {
		lo = min(lo, c.Height)
		hi = max(hi, c.Height)
	}
	return hi - lo
}

package layout

import "github.com/glabrego/reelfeed-cli/internal/feed"

type slot struct {
	col, row int
}

// Engine keeps the layout of one feed across store updates. A new query or a
// new column count repacks from scratch; appended items are packed on top of
// the existing columns so nothing already placed moves.
type Engine struct {
	packer      *Packer
	columnCount int
	generation  uint64
	placed      []string
	slots       []slot
	relayouts   int
}

func NewEngine() *Engine {
	return &Engine{}
}

// Sync brings the layout up to date with snap for columnCount columns.
func (e *Engine) Sync(snap feed.Snapshot, columnCount int) ([]Column, error) {
	if columnCount < 1 {
		return nil, ErrInvalidColumnCount
	}

	if e.needsRelayout(snap, columnCount) {
		p, err := NewPacker(columnCount)
		if err != nil {
			return nil, err
		}
		e.packer = p
		e.columnCount = columnCount
		e.generation = snap.Generation
		e.placed = e.placed[:0]
		e.slots = e.slots[:0]
		e.relayouts++
	}

	for _, it := range snap.Items[len(e.placed):] {
		col := e.packer.shortest()
		e.slots = append(e.slots, slot{col: col, row: len(e.packer.columns[col].Items)})
		e.packer.Add(it)
		e.placed = append(e.placed, it.ID)
	}

	// Refresh per-item state such as Ready without moving anything.
	for i, it := range snap.Items {
		s := e.slots[i]
		e.packer.columns[s.col].Items[s.row] = it
	}
	return e.packer.Columns(), nil
}

func (e *Engine) needsRelayout(snap feed.Snapshot, columnCount int) bool {
	if e.packer == nil || columnCount != e.columnCount || snap.Generation != e.generation {
		return true
	}
	if len(snap.Items) < len(e.placed) {
		return true
	}
	for i, id := range e.placed {
		if snap.Items[i].ID != id {
			return true
		}
	}
	return false
}

// Relayouts counts full repacks, for diagnostics.
func (e *Engine) Relayouts() int { return e.relayouts }

// ColumnCount is the column count of the current layout, 0 before the first Sync.
func (e *Engine) ColumnCount() int { return e.columnCount }

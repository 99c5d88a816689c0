package state

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

// GridPosition finds id in columns of item ids.
func GridPosition(columns [][]string, id string) (col, row int, ok bool) {
	for c, ids := range columns {
		for r, other := range ids {
			if other == id {
				return c, r, true
			}
		}
	}
	return 0, 0, false
}

// FirstInGrid is the top item of the leftmost non-empty column.
func FirstInGrid(columns [][]string) (string, bool) {
	for _, ids := range columns {
		if len(ids) > 0 {
			return ids[0], true
		}
	}
	return "", false
}

// MoveInGrid moves a selection by dc columns and dr rows. Rows clamp inside
// the target column; moving onto an empty column keeps the old position.
func MoveInGrid(columns [][]string, col, row, dc, dr int) (int, int) {
	if len(columns) == 0 {
		return 0, 0
	}
	nc := ClampCursor(col+dc, len(columns))
	if len(columns[nc]) == 0 {
		nc = col
	}
	if nc < 0 || nc >= len(columns) || len(columns[nc]) == 0 {
		return col, row
	}
	return nc, ClampCursor(row+dr, len(columns[nc]))
}

// AtColumnEnd reports whether (col, row) is the last item of its column.
func AtColumnEnd(columns [][]string, col, row int) bool {
	if col < 0 || col >= len(columns) {
		return false
	}
	return len(columns[col]) > 0 && row == len(columns[col])-1
}

// IndexByID returns the position of id in ids, or -1.
func IndexByID(ids []string, id string) int {
	for i, other := range ids {
		if other == id {
			return i
		}
	}
	return -1
}

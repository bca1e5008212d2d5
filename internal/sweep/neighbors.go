package sweep

// The eight adjacent offsets, top-left to bottom-right. The order is
// fixed but carries no meaning: conclusions only ever count or filter
// neighbors.
var neighborOffsets = [8]struct{ dr, dc int }{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Neighbors returns the positions adjacent to (row, col) clipped to
// the board. The input cell itself is never included. Out-of-range
// inputs are absorbed by clipping and simply yield fewer (possibly
// zero) neighbors.
func Neighbors(b Board, row, col int) []Position {
	neighbors := make([]Position, 0, 8)
	for _, d := range neighborOffsets {
		r, c := row+d.dr, col+d.dc
		if b.InBounds(r, c) {
			neighbors = append(neighbors, Position{Row: r, Col: c})
		}
	}
	return neighbors
}

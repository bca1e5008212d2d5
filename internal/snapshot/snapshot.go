// Package snapshot normalizes board captures from a live game source
// into the total-grid representation the deduction engine consumes.
package snapshot

import (
	"fmt"

	"github.com/yuuuno/sweeper/internal/sweep"
)

// Cell is the wire encoding of one grid cell as reported by the game
// server: 0 through 8 are open cells with a surrounding mine count,
// negative values and the post-game codes (64 and up) all describe
// cells whose contents the source cannot attest.
type Cell int8

const (
	Question Cell = -3
	Unknown  Cell = -2
	Flag     Cell = -1
)

func (c Cell) Open() bool {
	return 0 <= c && c <= 8
}

// Document is one full board capture at one instant.
type Document struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Grid   []Cell `json:"grid"`
}

// Board converts the capture into an engine board. Every cell that is
// not plainly open enters the board as hidden: flags, question marks
// and post-game markers carry no signal the engine models. This is
// the gap-filling policy — the engine itself never sees a partial
// grid.
func (d Document) Board() (sweep.Board, error) {
	if d.Width < 0 || d.Height < 0 {
		return sweep.Board{}, fmt.Errorf(
			"invalid dimensions %dx%d", d.Height, d.Width,
		)
	}
	if len(d.Grid) != d.Width*d.Height {
		return sweep.Board{}, fmt.Errorf(
			"grid has %d cells, want %d for %dx%d",
			len(d.Grid), d.Width*d.Height, d.Height, d.Width,
		)
	}
	grid := make([]sweep.TileState, len(d.Grid))
	for i, c := range d.Grid {
		if c.Open() {
			grid[i] = sweep.TileState(c)
		} else {
			grid[i] = sweep.Hidden
		}
	}
	return sweep.Board{Width: d.Width, Height: d.Height, Grid: grid}, nil
}

// FromRows builds a board from possibly ragged row data, padding
// short rows with hidden tiles up to the widest row. Sources that
// capture row fragments can hand them over as-is.
func FromRows(rows [][]Cell) sweep.Board {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return sweep.Board{}
	}
	grid := make([]sweep.TileState, 0, width*len(rows))
	for _, row := range rows {
		for _, c := range row {
			if c.Open() {
				grid = append(grid, sweep.TileState(c))
			} else {
				grid = append(grid, sweep.Hidden)
			}
		}
		for i := len(row); i < width; i++ {
			grid = append(grid, sweep.Hidden)
		}
	}
	return sweep.Board{Width: width, Height: len(rows), Grid: grid}
}

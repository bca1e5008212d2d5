package sweep

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Position addresses a single tile: zero-based, row grows downward,
// col grows rightward.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

type TileState int8

const (
	Hidden TileState = -2
	// 0 through 8 are revealed tiles carrying a clue: the number of
	// mines among the tile's neighbors.
)

// Revealed builds the state of a revealed tile with the given clue.
func Revealed(clue int) TileState {
	return TileState(clue)
}

func (s TileState) Revealed() bool {
	return 0 <= s && s <= 8
}

// Clue is only meaningful for revealed tiles.
func (s TileState) Clue() int {
	return int(s)
}

func (s TileState) String() string {
	switch {
	case s == Hidden:
		return " "
	case s.Revealed():
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

type Tile struct {
	Pos   Position
	State TileState
}

// Board is a total rectangular grid of tiles, stored row-major.
// Every position in [0,Height)x[0,Width) holds exactly one tile;
// whoever constructs a Board from a partial capture must have filled
// the gaps with Hidden already.
type Board struct {
	Width, Height int
	Grid          []TileState
}

// NewBoard copies rows into a Board. Rows must be rectangular; ragged
// input is a caller bug and produces an error rather than a truncated
// board.
func NewBoard(rows [][]TileState) (Board, error) {
	height := len(rows)
	if height == 0 {
		return Board{}, nil
	}
	width := len(rows[0])
	grid := make([]TileState, 0, width*height)
	for y, row := range rows {
		if len(row) != width {
			return Board{}, fmt.Errorf(
				"row %d has %d tiles, want %d", y, len(row), width,
			)
		}
		grid = append(grid, row...)
	}
	return Board{Width: width, Height: height, Grid: grid}, nil
}

func (b Board) At(row, col int) TileState {
	return b.Grid[row*b.Width+col]
}

func (b Board) InBounds(row, col int) bool {
	return 0 <= row && row < b.Height && 0 <= col && col < b.Width
}

func (b Board) TileAt(row, col int) Tile {
	return Tile{Pos: Position{Row: row, Col: col}, State: b.At(row, col)}
}

func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < b.Height; row++ {
		for col := 0; col < b.Width; col++ {
			fmt.Fprint(&sb, b.At(row, col).String()+" ")
		}
		fmt.Fprint(&sb, "\n")
	}
	return sb.String()
}

type PositionSet map[Position]struct{}

func NewPositionSet(positions ...Position) PositionSet {
	s := make(PositionSet, len(positions))
	for _, p := range positions {
		s.Add(p)
	}
	return s
}

func (s PositionSet) Add(p Position) {
	s[p] = struct{}{}
}

func (s PositionSet) Has(p Position) bool {
	_, ok := s[p]
	return ok
}

func (s PositionSet) Len() int {
	return len(s)
}

// Positions returns the members ordered by row, then col, so callers
// serializing a set get a stable result.
func (s PositionSet) Positions() []Position {
	positions := make([]Position, 0, len(s))
	for p := range s {
		positions = append(positions, p)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Row != positions[j].Row {
			return positions[i].Row < positions[j].Row
		}
		return positions[i].Col < positions[j].Col
	})
	return positions
}

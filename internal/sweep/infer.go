package sweep

// Conclusions are the tiles provably classifiable from one board
// snapshot. Safe and Mines are disjoint.
type Conclusions struct {
	Safe  PositionSet
	Mines PositionSet
}

// Infer runs two deduction passes over the snapshot and returns every
// conclusion reachable from it.
//
// Pass 1: a clue whose value equals its number of hidden neighbors
// forces all of them to be mines.
//
// Pass 2: a clue whose value is already covered by mines found in
// pass 1 clears its remaining hidden neighbors.
//
// Both passes read the same snapshot; the result is not iterated to a
// fixed point, so conclusions that would only follow from re-running
// pass 1 against pass 2's output are left on the table. Pure function:
// no state survives between calls, and any well-formed board (empty
// included) yields a result, never an error.
func Infer(b Board) Conclusions {
	mines := NewPositionSet()
	safe := NewPositionSet()

	for row := 0; row < b.Height; row++ {
		for col := 0; col < b.Width; col++ {
			state := b.At(row, col)
			if !state.Revealed() {
				continue
			}
			var hidden []Position
			for _, p := range Neighbors(b, row, col) {
				if b.At(p.Row, p.Col) == Hidden {
					hidden = append(hidden, p)
				}
			}
			if state.Clue() == len(hidden) {
				for _, p := range hidden {
					mines.Add(p)
				}
			}
		}
	}

	for row := 0; row < b.Height; row++ {
		for col := 0; col < b.Width; col++ {
			state := b.At(row, col)
			if !state.Revealed() {
				continue
			}
			neighbors := Neighbors(b, row, col)
			identified := 0
			for _, p := range neighbors {
				if mines.Has(p) {
					identified++
				}
			}
			if state.Clue() != identified {
				continue
			}
			for _, p := range neighbors {
				if b.At(p.Row, p.Col) == Hidden && !mines.Has(p) {
					safe.Add(p)
				}
			}
		}
	}

	return Conclusions{Safe: safe, Mines: mines}
}

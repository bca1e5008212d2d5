package sweep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		b, err := NewBoard(nil)
		require.NoError(t, err)
		assert.Zero(t, b.Width)
		assert.Zero(t, b.Height)
	})

	t.Run("rectangular", func(t *testing.T) {
		b := mustBoard(t, [][]TileState{
			{Revealed(1), Hidden, Hidden},
			{Revealed(0), Revealed(2), Hidden},
		})
		assert.Equal(t, 3, b.Width)
		assert.Equal(t, 2, b.Height)
		assert.Equal(t, Revealed(2), b.At(1, 1))
		assert.Equal(t, Hidden, b.At(0, 2))
		assert.Equal(t, Tile{Position{1, 0}, Revealed(0)}, b.TileAt(1, 0))
	})

	t.Run("ragged rows rejected", func(t *testing.T) {
		_, err := NewBoard([][]TileState{
			{Hidden, Hidden},
			{Hidden},
		})
		assert.Error(t, err)
	})
}

func TestTileState(t *testing.T) {
	t.Parallel()

	assert.False(t, Hidden.Revealed())
	for clue := 0; clue <= 8; clue++ {
		assert.True(t, Revealed(clue).Revealed())
		assert.Equal(t, clue, Revealed(clue).Clue())
	}
	assert.Equal(t, " ", Hidden.String())
	assert.Equal(t, "3", Revealed(3).String())
}

func TestPositionSet(t *testing.T) {
	t.Parallel()

	s := NewPositionSet(Position{2, 1}, Position{0, 5}, Position{2, 0})
	s.Add(Position{0, 5}) // duplicate

	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Has(Position{2, 0}))
	assert.False(t, s.Has(Position{1, 1}))
	assert.Equal(t,
		[]Position{{0, 5}, {2, 0}, {2, 1}},
		s.Positions(),
	)
}

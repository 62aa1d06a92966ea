package searcher

import (
	"testing"

	"chomp/game"

	"github.com/stretchr/testify/require"
)

func newPosition(t *testing.T, rows, cols int) game.Position {
	t.Helper()
	p, err := game.NewPosition(rows, cols)
	require.NoError(t, err)
	return p
}

// shapes lists every staircase position reachable on a rows x cols board,
// including the empty one.
func shapes(t *testing.T, rows, cols int) []game.Position {
	t.Helper()
	var out []game.Position
	heights := make([]int, cols)
	var fill func(col, max int)
	fill = func(col, max int) {
		if col == cols {
			p, err := game.FromHeights(rows, cols, heights)
			require.NoError(t, err)
			out = append(out, p)
			return
		}
		for h := 0; h <= max; h++ {
			heights[col] = h
			fill(col+1, h)
		}
	}
	fill(0, rows)
	return out
}

func TestWinningMove(t *testing.T) {
	t.Run("single cell board has no winning move", func(t *testing.T) {
		_, ok := WinningMove(newPosition(t, 1, 1))
		require.False(t, ok)
	})

	t.Run("only the poison cell left has no winning move", func(t *testing.T) {
		p := newPosition(t, 3, 3)
		p.Chomp(0, 1)
		p.Chomp(1, 0)
		require.Equal(t, 1, p.Remaining())

		_, ok := WinningMove(p)
		require.False(t, ok)
	})

	t.Run("2x2 winning move forces a loss on the opponent", func(t *testing.T) {
		p := newPosition(t, 2, 2)

		move, ok := WinningMove(p)
		require.True(t, ok)
		require.Equal(t, game.Move{Row: 1, Col: 1}, move)

		_, ok = WinningMove(p.Play(move))
		require.False(t, ok, "Opponent should have no winning reply")
	})

	t.Run("2x2 after eating (1, 1) has no winning move", func(t *testing.T) {
		p := newPosition(t, 2, 2)
		_, ok := WinningMove(p)
		require.True(t, ok)

		p.Chomp(1, 1)

		_, ok = WinningMove(p)
		require.False(t, ok)
	})

	t.Run("known first winning moves in row-major order", func(t *testing.T) {
		cases := []struct {
			rows, cols int
			want       game.Move
		}{
			{1, 2, game.Move{Row: 0, Col: 1}},
			{1, 5, game.Move{Row: 0, Col: 1}},
			{2, 1, game.Move{Row: 1, Col: 0}},
			{4, 1, game.Move{Row: 1, Col: 0}},
			{2, 3, game.Move{Row: 1, Col: 2}},
			{2, 4, game.Move{Row: 1, Col: 3}},
			{3, 3, game.Move{Row: 1, Col: 1}},
		}
		for _, tc := range cases {
			move, ok := WinningMove(newPosition(t, tc.rows, tc.cols))
			require.True(t, ok, "%dx%d", tc.rows, tc.cols)
			require.Equal(t, tc.want, move, "%dx%d", tc.rows, tc.cols)
		}
	})

	t.Run("deterministic and does not mutate its argument", func(t *testing.T) {
		p := newPosition(t, 3, 3)
		p.Chomp(2, 2)
		before := p

		first, firstOK := WinningMove(p)
		second, secondOK := WinningMove(p)

		require.Equal(t, first, second)
		require.Equal(t, firstOK, secondOK)
		require.Equal(t, before, p)
	})

	t.Run("returned move is always a present non-poison cell", func(t *testing.T) {
		for _, p := range shapes(t, 3, 3) {
			move, ok := WinningMove(p)
			if !ok {
				continue
			}
			require.False(t, move.IsPoison())
			require.NoError(t, p.Validate(move))
			_, reply := WinningMove(p.Play(move))
			require.False(t, reply, "position %v move %s", p.Heights(), move)
		}
	})
}

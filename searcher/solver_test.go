package searcher

import (
	"sync"
	"testing"

	"chomp/experiments/metrics"
	"chomp/game"

	"github.com/stretchr/testify/require"
)

func TestSolverMatchesPlainSearch(t *testing.T) {
	for _, size := range [][2]int{{2, 4}, {4, 2}, {3, 3}} {
		solver := NewSolver()
		for _, p := range shapes(t, size[0], size[1]) {
			wantMove, wantOK := WinningMove(p)
			gotMove, gotOK := solver.WinningMove(p)
			require.Equal(t, wantOK, gotOK, "shape %v", p.Heights())
			require.Equal(t, wantMove, gotMove, "shape %v", p.Heights())
		}
	}
}

func TestSolverSharesShapesAcrossBoardSizes(t *testing.T) {
	solver := NewSolver()
	for _, size := range [][2]int{{4, 4}, {2, 3}, {3, 4}, {1, 4}} {
		for _, p := range shapes(t, size[0], size[1]) {
			wantMove, wantOK := WinningMove(p)
			gotMove, gotOK := solver.WinningMove(p)
			require.Equal(t, wantOK, gotOK, "%dx%d shape %v", size[0], size[1], p.Heights())
			require.Equal(t, wantMove, gotMove, "%dx%d shape %v", size[0], size[1], p.Heights())
		}
	}
}

func TestSolverWithoutMemoMatchesPlainSearch(t *testing.T) {
	solver := NewSolver(WithoutMemo())
	for _, p := range shapes(t, 3, 3) {
		wantMove, wantOK := WinningMove(p)
		gotMove, gotOK := solver.WinningMove(p)
		require.Equal(t, wantOK, gotOK)
		require.Equal(t, wantMove, gotMove)
	}
}

func TestSolverFullBoards(t *testing.T) {
	t.Run("every rectangle except 1x1 is a first player win", func(t *testing.T) {
		solver := NewSolver()
		for rows := 1; rows <= game.MaxRows; rows++ {
			for cols := 1; cols <= game.MaxCols; cols++ {
				p := newPosition(t, rows, cols)
				move, ok := solver.WinningMove(p)
				if rows == 1 && cols == 1 {
					require.False(t, ok)
					continue
				}
				require.True(t, ok, "%dx%d", rows, cols)
				_, reply := solver.WinningMove(p.Play(move))
				require.False(t, reply, "%dx%d move %s", rows, cols, move)
			}
		}
	})

	t.Run("square boards are won by taking (1, 1)", func(t *testing.T) {
		solver := NewSolver()
		for n := 2; n <= game.MaxRows; n++ {
			move, ok := solver.WinningMove(newPosition(t, n, n))
			require.True(t, ok)
			require.Equal(t, game.Move{Row: 1, Col: 1}, move, "%dx%d", n, n)
		}
	})

	t.Run("two-row positions lose exactly when the top row is one longer", func(t *testing.T) {
		solver := NewSolver()
		for _, p := range shapes(t, 2, game.MaxCols) {
			top, bottom := 0, 0
			for _, h := range p.Heights() {
				if h >= 1 {
					top++
				}
				if h == 2 {
					bottom++
				}
			}
			if top == 0 {
				continue
			}
			_, ok := solver.WinningMove(p)
			require.Equal(t, top != bottom+1, ok, "top %d bottom %d", top, bottom)
		}
	})
}

func TestSolverMetrics(t *testing.T) {
	t.Run("second query is answered from the table", func(t *testing.T) {
		collector := metrics.NewCollector()
		table := NewMemoryTable()
		solver := NewSolver(WithTable(table), WithCollector(collector))
		p := newPosition(t, 3, 4)

		solver.WinningMove(p)
		first := collector.Totals()
		require.Equal(t, int64(1), first.Searches)
		require.Positive(t, first.Nodes)
		require.Equal(t, int(first.Nodes), table.Len(), "Every expanded shape should be stored")

		solver.WinningMove(p)
		second := collector.Totals()
		require.Equal(t, int64(2), second.Searches)
		require.Equal(t, first.Nodes, second.Nodes, "No new positions should be expanded")
		require.Equal(t, first.TableHits+1, second.TableHits)
	})

	t.Run("plain search counts every visited position", func(t *testing.T) {
		collector := metrics.NewCollector()
		solver := NewSolver(WithoutMemo(), WithCollector(collector))

		solver.WinningMove(newPosition(t, 1, 1))
		require.Equal(t, int64(1), collector.Totals().Nodes)

		solver.WinningMove(newPosition(t, 1, 2))
		// 1x2 visits itself and the poison-only child
		require.Equal(t, int64(3), collector.Totals().Nodes)
		require.Zero(t, collector.Totals().TableHits)
	})
}

func TestSolverConcurrentQueries(t *testing.T) {
	solver := NewSolver()
	p := newPosition(t, 3, 3)
	want, wantOK := WinningMove(p)

	var wg sync.WaitGroup
	results := make([]game.Move, 16)
	oks := make([]bool, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], oks[i] = solver.WinningMove(p)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.Equal(t, want, results[i])
		require.Equal(t, wantOK, oks[i])
	}
}

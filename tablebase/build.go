package tablebase

import (
	"chomp/game"
	"chomp/searcher"

	"github.com/rs/zerolog/log"
)

// Build solves every non-empty staircase shape that fits on a rows x cols
// board and returns how many shapes it visited. Results land in whatever
// table the solver was built with.
func Build(solver *searcher.Solver, rows, cols int) (int, error) {
	if _, err := game.NewPosition(rows, cols); err != nil {
		return 0, err
	}

	shapes, wins := 0, 0
	heights := make([]int, cols)
	var visit func(col, max int) error
	visit = func(col, max int) error {
		if col == cols {
			if heights[0] == 0 {
				return nil
			}
			p, err := game.FromHeights(rows, cols, heights)
			if err != nil {
				return err
			}
			if _, ok := solver.WinningMove(p); ok {
				wins++
			}
			shapes++
			return nil
		}
		for h := 0; h <= max; h++ {
			heights[col] = h
			if err := visit(col+1, h); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(0, rows); err != nil {
		return shapes, err
	}

	log.Info().Int("rows", rows).Int("cols", cols).Int("shapes", shapes).Int("losing", shapes-wins).Msg("tablebase built")
	return shapes, nil
}

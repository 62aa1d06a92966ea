package agent

import (
	"chomp/game"
	"chomp/searcher"
)

type solverAgent struct {
	solver *searcher.Solver
}

// NewSolverAgent plays the solver's winning move, or FallbackMove when the
// position is lost.
func NewSolverAgent(solver *searcher.Solver) Agent {
	return solverAgent{solver: solver}
}

func (a solverAgent) FindMove(p game.Position) (game.Move, error) {
	if move, ok := a.solver.WinningMove(p); ok {
		return move, nil
	}
	return FallbackMove(p), nil
}

// FallbackMove eats the last present cell of the last row that still has
// cells. That is the poison cell only when nothing else is left.
func FallbackMove(p game.Position) game.Move {
	row := 0
	for row+1 < p.Rows() && p.IsPresent(row+1, 0) {
		row++
	}
	col := 0
	for col+1 < p.Cols() && p.IsPresent(row, col+1) {
		col++
	}
	return game.Move{Row: row, Col: col}
}

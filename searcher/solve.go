package searcher

import "chomp/game"

// WinningMove returns a move that leaves the opponent without a winning reply,
// or false when every move loses. Candidates are tried in row-major order and
// the poison cell is never proposed. p is not modified.
func WinningMove(p game.Position) (game.Move, bool) {
	for r := 0; r < p.Rows(); r++ {
		for c := 0; c < p.Cols(); c++ {
			if r == 0 && c == 0 {
				continue
			}
			if !p.IsPresent(r, c) {
				continue
			}
			move := game.Move{Row: r, Col: c}
			if _, ok := WinningMove(p.Play(move)); !ok {
				return move, true
			}
		}
	}
	return game.Move{}, false
}

package agent

import "chomp/game"

type Agent interface {
	// FindMove picks a legal move for the player to move in p.
	FindMove(p game.Position) (game.Move, error)
}

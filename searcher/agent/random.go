package agent

import (
	"fmt"
	"sync"

	"chomp/game"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomAgent picks uniformly among the non-poison moves, and eats the
// poison cell only when forced to. Equal seeds replay equal games.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(p game.Position) (game.Move, error) {
	moves := p.LegalMoves()
	if len(moves) == 0 {
		return game.Move{}, fmt.Errorf("no legal moves: game is over")
	}
	if len(moves) == 1 { // Only the poison cell is left
		return moves[0], nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	// Legal moves are row-major, so the poison cell is always first
	return moves[1+a.rng.Intn(len(moves)-1)], nil
}

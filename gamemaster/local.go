package gamemaster

import (
	"errors"
	"fmt"

	"chomp/game"

	"golang.org/x/exp/slices"
)

var ErrGameOver = errors.New("game is over - no moves allowed")

// Engine owns the authoritative position of one game and refuses illegal moves.
type Engine interface {
	State() game.Position
	Play(game.Move) error
	IsOver() bool
	Updates() []Update
}

type Update struct {
	Move      game.Move
	Hash      game.StateHash // shape after the move
	Remaining int
}

type LocalEngine struct {
	state   game.Position
	updates []Update
}

func NewLocalEngine(rows, cols int) (*LocalEngine, error) {
	state, err := game.NewPosition(rows, cols)
	if err != nil {
		return nil, err
	}
	return &LocalEngine{state: state}, nil
}

// State returns a copy of the current position.
func (e *LocalEngine) State() game.Position {
	return e.state
}

func (e *LocalEngine) IsOver() bool {
	return e.state.IsOver()
}

func (e *LocalEngine) Play(move game.Move) error {
	if e.state.IsOver() {
		return ErrGameOver
	}

	if !slices.Contains(e.state.LegalMoves(), move) {
		return fmt.Errorf("illegal move: %w", e.state.Validate(move))
	}

	e.state.Chomp(move.Row, move.Col)
	e.updates = append(e.updates, Update{
		Move:      move,
		Hash:      e.state.Hash(),
		Remaining: e.state.Remaining(),
	})
	return nil
}

// Updates returns the moves played so far, oldest first.
func (e *LocalEngine) Updates() []Update {
	updates := make([]Update, len(e.updates))
	copy(updates, e.updates)
	return updates
}

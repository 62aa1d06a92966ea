package engine

import (
	"fmt"
	"io"
	"time"

	"chomp/experiments/metrics"
	"chomp/game"
	"chomp/gamemaster"
	"chomp/searcher/agent"

	"github.com/rs/zerolog/log"
)

type Player struct {
	Name  string
	Agent agent.Agent
}

type Option func(e *LocalEngine)

// WithOutput prints the board before the first move and after every move.
func WithOutput(w io.Writer) Option {
	return func(e *LocalEngine) {
		e.out = w
	}
}

func WithRender(present, absent rune) Option {
	return func(e *LocalEngine) {
		e.present, e.absent = present, absent
	}
}

type LocalEngine struct {
	rows, cols int
	players    []Player
	out        io.Writer
	present    rune
	absent     rune
}

// NewLocalEngine prepares a game where players[0] moves first.
func NewLocalEngine(rows, cols int, players []Player, options ...Option) (*LocalEngine, error) {
	if len(players) != 2 {
		panic("chomp needs exactly two players")
	}
	if _, err := game.NewPosition(rows, cols); err != nil {
		return nil, err
	}

	e := &LocalEngine{
		rows:    rows,
		cols:    cols,
		players: players,
		present: '#',
		absent:  '.',
	}
	for _, option := range options {
		option(e)
	}
	return e, nil
}

// Run executes the entire game loop until someone eats the poison cell.
func (e *LocalEngine) Run() (Result, error) {
	local, err := gamemaster.NewLocalEngine(e.rows, e.cols)
	if err != nil {
		return Result{}, err
	}
	var master gamemaster.Engine = local

	log.Info().Msgf("%s is starting on a %dx%d board", e.players[0].Name, e.rows, e.cols)
	e.show(master.State())

	start := time.Now()
	var moves []metrics.MoveMetric
	step := 0
	for !master.IsOver() {
		current := e.players[step%2]
		step++

		moveStart := time.Now()
		move, err := current.Agent.FindMove(master.State())
		if err != nil {
			return Result{}, fmt.Errorf("%s failed to find a move: %w", current.Name, err)
		}
		if err := master.Play(move); err != nil {
			return Result{}, fmt.Errorf("%s played %s: %w", current.Name, move, err)
		}

		moves = append(moves, metrics.MoveMetric{
			Step:     step,
			Player:   current.Name,
			Row:      move.Row,
			Col:      move.Col,
			Duration: time.Since(moveStart),
		})
		log.Debug().Int("step", step).Str("player", current.Name).Str("move", move.String()).Msg("move played")

		if e.out != nil {
			fmt.Fprintf(e.out, "%s moved: %s\n", current.Name, move)
		}
		e.show(master.State())
	}

	for i, update := range master.Updates() {
		moves[i].Shape = uint64(update.Hash)
		moves[i].Remaining = update.Remaining
	}

	// The last mover ate the poison cell
	loser := e.players[(step-1)%2].Name
	winner := e.players[step%2].Name
	end := time.Now()
	log.Info().Msgf("game over after %d moves, winner: %s", step, winner)

	return Result{
		Winner: winner,
		Loser:  loser,
		Game: metrics.GameMetric{
			StartingPlayer: e.players[0].Name,
			Winner:         winner,
			Rows:           e.rows,
			Cols:           e.cols,
			StartTime:      start,
			EndTime:        end,
			Duration:       end.Sub(start),
			TotalMoves:     step,
		},
		Moves: moves,
	}, nil
}

func (e *LocalEngine) show(p game.Position) {
	if e.out == nil {
		return
	}
	fmt.Fprintf(e.out, "\n%s\n", p.Render(e.present, e.absent))
}

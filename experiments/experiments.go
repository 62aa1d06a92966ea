package experiments

import (
	"context"
	"fmt"

	"chomp/engine"
	"chomp/experiments/metrics"
	"chomp/game"
	"chomp/searcher"
	"chomp/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// PlainSearchLimit is the largest board, in cells, on which agents without a
// transposition table are scheduled.
const PlainSearchLimit = 12

type Board struct {
	Rows int
	Cols int
}

type Config struct {
	Name    string
	Boards  []Board
	Games   int // Per match up and board
	Workers int
	Seed    uint64
	// OutputDir receives the CSV records. Empty skips writing.
	OutputDir string
	// Table backs the memoizing solver. Nil uses a fresh in-memory table.
	Table searcher.Table
	// Collector additionally observes every search, e.g. for Prometheus.
	Collector metrics.Collector
}

type Report struct {
	Agents []metrics.AgentRecord
	Games  []metrics.GameRecord
	Moves  []metrics.MoveRecord
	Dir    string // empty when nothing was written
}

var (
	memoConfig   = metrics.AgentConfig{ID: 1, Kind: "solver", Memoize: true}
	plainConfig  = metrics.AgentConfig{ID: 2, Kind: "solver"}
	randomConfig = metrics.AgentConfig{ID: 3, Kind: "random"}
)

// Each match up lists the starting agent first
var matchUps = [][]metrics.AgentConfig{
	{memoConfig, randomConfig},
	{randomConfig, memoConfig},
	{plainConfig, randomConfig},
	{memoConfig, plainConfig},
}

type contestant struct {
	config    metrics.AgentConfig
	solver    *searcher.Solver
	collector metrics.Collector
}

func (c *contestant) player(seed uint64) engine.Player {
	name := fmt.Sprintf("%s-%d", c.config.Kind, c.config.ID)
	if c.solver == nil {
		return engine.Player{Name: name, Agent: agent.NewRandomAgent(seed)}
	}
	return engine.Player{Name: name, Agent: agent.NewSolverAgent(c.solver)}
}

type scheduledGame struct {
	id      int
	board   Board
	matchUp []metrics.AgentConfig
	seed    uint64
	result  engine.Result
}

// Run plays every match up on every board and writes the records when an
// output directory is configured.
func Run(ctx context.Context, cfg Config) (Report, error) {
	if cfg.Games < 1 || cfg.Workers < 1 {
		return Report{}, fmt.Errorf("games and workers must be positive, got %d and %d", cfg.Games, cfg.Workers)
	}
	for _, board := range cfg.Boards {
		if _, err := game.NewPosition(board.Rows, board.Cols); err != nil {
			return Report{}, fmt.Errorf("board %dx%d: %w", board.Rows, board.Cols, err)
		}
	}

	contestants := newContestants(cfg)
	games := schedule(cfg)
	log.Info().Msgf("starting %s experiment with %d games...", cfg.Name, len(games))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, gm := range games {
		gm := gm
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			players := []engine.Player{
				contestants[gm.matchUp[0].ID].player(gm.seed),
				contestants[gm.matchUp[1].ID].player(gm.seed + 1),
			}
			e, err := engine.NewLocalEngine(gm.board.Rows, gm.board.Cols, players)
			if err != nil {
				return err
			}
			result, err := e.Run()
			if err != nil {
				return fmt.Errorf("game %d: %w", gm.id, err)
			}
			gm.result = result
			log.Debug().Int("game", gm.id).Str("winner", result.Winner).Int("moves", result.Game.TotalMoves).Msg("game completed")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	log.Info().Msgf("completed %s experiment", cfg.Name)

	report := Report{}
	for _, gm := range games {
		report.Games = append(report.Games, metrics.GameRecord{
			ID:         gm.id,
			Agent1:     gm.matchUp[0].ID,
			Agent2:     gm.matchUp[1].ID,
			GameMetric: gm.result.Game,
		})
		for _, mm := range gm.result.Moves {
			report.Moves = append(report.Moves, metrics.MoveRecord{Game: gm.id, MoveMetric: mm})
		}
	}
	for _, config := range []metrics.AgentConfig{memoConfig, plainConfig, randomConfig} {
		c := contestants[config.ID]
		report.Agents = append(report.Agents, metrics.AgentRecord{AgentConfig: c.config, Totals: c.collector.Totals()})
	}

	if cfg.OutputDir == "" {
		return report, nil
	}
	dir, err := write(cfg, report)
	if err != nil {
		return report, err
	}
	report.Dir = dir
	return report, nil
}

func newContestants(cfg Config) map[int]*contestant {
	contestants := map[int]*contestant{}
	for _, config := range []metrics.AgentConfig{memoConfig, plainConfig, randomConfig} {
		c := &contestant{config: config, collector: metrics.NewCollector()}
		collector := c.collector
		if cfg.Collector != nil {
			collector = metrics.Tee(c.collector, cfg.Collector)
		}
		switch {
		case config.Kind == "random":
			c.config.Seed = cfg.Seed
		case config.Memoize:
			c.solver = searcher.NewSolver(searcher.WithTable(cfg.Table), searcher.WithCollector(collector))
		default:
			c.solver = searcher.NewSolver(searcher.WithoutMemo(), searcher.WithCollector(collector))
		}
		contestants[config.ID] = c
	}
	return contestants
}

func schedule(cfg Config) []*scheduledGame {
	var games []*scheduledGame
	for _, board := range cfg.Boards {
		for _, matchUp := range matchUps {
			if usesPlainSearch(matchUp) && board.Rows*board.Cols > PlainSearchLimit {
				log.Warn().Msgf("skipping plain search match up on %dx%d board", board.Rows, board.Cols)
				continue
			}
			for i := 0; i < cfg.Games; i++ {
				id := len(games) + 1
				games = append(games, &scheduledGame{
					id:      id,
					board:   board,
					matchUp: matchUp,
					seed:    cfg.Seed + uint64(2*id),
				})
			}
		}
	}
	return games
}

func usesPlainSearch(matchUp []metrics.AgentConfig) bool {
	for _, config := range matchUp {
		if config.Kind == "solver" && !config.Memoize {
			return true
		}
	}
	return false
}

func write(cfg Config, report Report) (string, error) {
	writer, err := metrics.NewWriter(cfg.OutputDir, cfg.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentRecords(report.Agents); err != nil {
		return "", fmt.Errorf("failed to store agent records: %w", err)
	}
	log.Info().Msg("stored agent records")
	if err := writer.WriteGameRecords(report.Games); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteMoveRecords(report.Moves); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")
	return writer.Dir(), nil
}

package searcher

import (
	"time"

	"chomp/experiments/metrics"
	"chomp/game"

	"github.com/rs/zerolog/log"
)

type Option func(s *Solver)

// Solver answers the same question as WinningMove, caching solved shapes in
// a transposition table.
type Solver struct {
	table   Table
	memoize bool
	metrics metrics.Collector
}

func WithTable(table Table) Option {
	return func(s *Solver) {
		if table != nil {
			s.table = table
		}
	}
}

func WithCollector(collector metrics.Collector) Option {
	return func(s *Solver) {
		if collector != nil {
			s.metrics = collector
		}
	}
}

// WithoutMemo makes the solver run the plain exhaustive search.
func WithoutMemo() Option {
	return func(s *Solver) {
		s.memoize = false
	}
}

func NewSolver(options ...Option) *Solver {
	s := &Solver{ // Default values
		memoize: true,
		metrics: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(s)
	}
	if s.memoize && s.table == nil {
		s.table = NewMemoryTable()
	}
	return s
}

type stats struct {
	nodes     int64
	tableHits int64
}

func (s *Solver) WinningMove(p game.Position) (game.Move, bool) {
	start := time.Now()
	var st stats
	var move game.Move
	var win bool
	if s.memoize {
		move, win = s.search(p, &st)
	} else {
		move, win = count(p, &st)
	}

	metric := metrics.SearchMetric{
		Duration:  time.Since(start),
		Nodes:     st.nodes,
		TableHits: st.tableHits,
		Winning:   win,
	}
	s.metrics.Observe(metric)
	log.Debug().
		Uint64("shape", uint64(p.Hash())).
		Bool("winning", win).
		Str("move", move.String()).
		Int64("nodes", st.nodes).
		Int64("table_hits", st.tableHits).
		Dur("duration", metric.Duration).
		Msg("solved position")

	return move, win
}

func (s *Solver) search(p game.Position, st *stats) (game.Move, bool) {
	key := p.Hash()
	if entry, ok := s.table.Lookup(key); ok {
		st.tableHits++
		return entry.Move, entry.Win
	}
	st.nodes++

	for r := 0; r < p.Rows(); r++ {
		for c := 0; c < p.Cols(); c++ {
			if (r == 0 && c == 0) || !p.IsPresent(r, c) {
				continue
			}
			move := game.Move{Row: r, Col: c}
			if _, ok := s.search(p.Play(move), st); !ok {
				s.table.Store(key, Entry{Win: true, Move: move})
				return move, true
			}
		}
	}
	s.table.Store(key, Entry{Win: false})
	return game.Move{}, false
}

// count mirrors WinningMove while tallying expanded positions.
func count(p game.Position, st *stats) (game.Move, bool) {
	st.nodes++
	for r := 0; r < p.Rows(); r++ {
		for c := 0; c < p.Cols(); c++ {
			if (r == 0 && c == 0) || !p.IsPresent(r, c) {
				continue
			}
			move := game.Move{Row: r, Col: c}
			if _, ok := count(p.Play(move), st); !ok {
				return move, true
			}
		}
	}
	return game.Move{}, false
}

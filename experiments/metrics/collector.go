package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric describes one top-level solver query.
type SearchMetric struct {
	Duration  time.Duration
	Nodes     int64 // positions expanded
	TableHits int64
	Winning   bool
}

// Totals accumulates every SearchMetric a collector observed.
type Totals struct {
	Searches  int64
	Nodes     int64
	TableHits int64
	Duration  time.Duration
}

type MoveMetric struct {
	Step      int
	Player    string
	Row       int
	Col       int
	Shape     uint64 // game.StateHash after the move
	Remaining int    // present cells after the move
	Duration  time.Duration
}

type GameMetric struct {
	StartingPlayer string
	Winner         string
	Rows           int
	Cols           int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector receives search metrics. Implementations must be safe for
// concurrent use.
type Collector interface {
	Observe(metric SearchMetric)
	Totals() Totals
}

type collector struct {
	searches  atomic.Int64
	nodes     atomic.Int64
	tableHits atomic.Int64
	duration  atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Observe(metric SearchMetric) {
	m.searches.Add(1)
	m.nodes.Add(metric.Nodes)
	m.tableHits.Add(metric.TableHits)
	m.duration.Add(int64(metric.Duration))
}

func (m *collector) Totals() Totals {
	return Totals{
		Searches:  m.searches.Load(),
		Nodes:     m.nodes.Load(),
		TableHits: m.tableHits.Load(),
		Duration:  time.Duration(m.duration.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Observe(metric SearchMetric) {}
func (m *dummyCollector) Totals() Totals              { return Totals{} }

type multiCollector []Collector

// Tee forwards every observation to all collectors. Totals come from the first.
func Tee(collectors ...Collector) Collector {
	if len(collectors) == 0 {
		return NewDummyCollector()
	}
	return multiCollector(collectors)
}

func (m multiCollector) Observe(metric SearchMetric) {
	for _, c := range m {
		c.Observe(metric)
	}
}

func (m multiCollector) Totals() Totals {
	return m[0].Totals()
}

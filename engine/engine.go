package engine

import "chomp/experiments/metrics"

type Result struct {
	Winner string
	Loser  string // ate the poison cell
	Game   metrics.GameMetric
	Moves  []metrics.MoveMetric
}

type Engine interface {
	// Run plays a game until the poison cell is eaten
	Run() (Result, error)
}

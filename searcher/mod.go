package searcher

import "chomp/game"

// Entry is the solved value of a position for the player to move.
type Entry struct {
	Win  bool
	Move game.Move // first winning move in row-major order, zero when !Win
}

// Table caches solved positions by shape.
type Table interface {
	Lookup(key game.StateHash) (Entry, bool)
	Store(key game.StateHash, entry Entry)
}

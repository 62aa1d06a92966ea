package game

// Board capacity. A Position embeds a MaxRows x MaxCols array so copies stay cheap.
const (
	MaxRows = 8
	MaxCols = 8
)

// Bits per column in a StateHash. A column height is at most MaxRows.
const heightBits = 4

// StateHash identifies the shape of the remaining cells, independent of board size.
type StateHash uint64

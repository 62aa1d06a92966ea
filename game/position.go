package game

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Position is a Chomp board. Copying a Position copies the whole grid, so a
// value handed to a recursive search never aliases its parent.
type Position struct {
	rows    int
	cols    int
	present [MaxRows][MaxCols]bool
}

// NewPosition returns a fully present rows x cols board.
func NewPosition(rows, cols int) (Position, error) {
	if err := checkSize(rows, cols); err != nil {
		return Position{}, err
	}
	p := Position{rows: rows, cols: cols}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			p.present[r][c] = true
		}
	}
	return p, nil
}

// FromHeights rebuilds a position from the number of present cells in each
// column. Heights must be non-increasing from left to right.
func FromHeights(rows, cols int, heights []int) (Position, error) {
	if err := checkSize(rows, cols); err != nil {
		return Position{}, err
	}
	if len(heights) != cols {
		return Position{}, fmt.Errorf("%w: got %d heights for %d columns", ErrNotStaircase, len(heights), cols)
	}
	p := Position{rows: rows, cols: cols}
	for c, h := range heights {
		if h < 0 || h > rows {
			return Position{}, fmt.Errorf("%w: column %d height %d outside 0..%d", ErrNotStaircase, c, h, rows)
		}
		if c > 0 && h > heights[c-1] {
			return Position{}, fmt.Errorf("%w: column %d is taller than column %d", ErrNotStaircase, c, c-1)
		}
		for r := 0; r < h; r++ {
			p.present[r][c] = true
		}
	}
	return p, nil
}

func (p Position) Rows() int { return p.rows }
func (p Position) Cols() int { return p.cols }

// IsPresent panics when (row, col) lies outside the board.
func (p Position) IsPresent(row, col int) bool {
	if row < 0 || row >= p.rows || col < 0 || col >= p.cols {
		panic(fmt.Sprintf("cell (%d, %d) outside %dx%d board", row, col, p.rows, p.cols))
	}
	return p.present[row][col]
}

// Chomp eats (row, col) and every cell below and to the right of it.
func (p *Position) Chomp(row, col int) {
	for r := row; r < p.rows; r++ {
		for c := col; c < p.cols; c++ {
			p.present[r][c] = false
		}
	}
}

// Play returns a copy of the position with the move applied.
func (p Position) Play(m Move) Position {
	p.Chomp(m.Row, m.Col)
	return p
}

// Validate reports whether m names a present cell of this board.
func (p Position) Validate(m Move) error {
	if m.Row < 0 || m.Row >= p.rows || m.Col < 0 || m.Col >= p.cols {
		return fmt.Errorf("%w: %s on a %dx%d board", ErrOutOfRange, m, p.rows, p.cols)
	}
	if !p.present[m.Row][m.Col] {
		return fmt.Errorf("%w: %s", ErrCellEaten, m)
	}
	return nil
}

// IsOver reports whether the poison cell has been eaten.
func (p Position) IsOver() bool {
	return !p.present[0][0]
}

// Remaining counts present cells.
func (p Position) Remaining() int {
	n := 0
	for r := 0; r < p.rows; r++ {
		for c := 0; c < p.cols; c++ {
			if p.present[r][c] {
				n++
			}
		}
	}
	return n
}

// LegalMoves lists every present cell in row-major order. The poison cell is
// included; eating it is legal, just losing.
func (p Position) LegalMoves() []Move {
	moves := make([]Move, 0, p.Remaining())
	for r := 0; r < p.rows; r++ {
		for c := 0; c < p.cols; c++ {
			if p.present[r][c] {
				moves = append(moves, Move{Row: r, Col: c})
			}
		}
	}
	return moves
}

// Heights returns the number of present cells in each column.
func (p Position) Heights() []int {
	heights := make([]int, p.cols)
	for c := 0; c < p.cols; c++ {
		for r := 0; r < p.rows && p.present[r][c]; r++ {
			heights[c]++
		}
	}
	return heights
}

// Hash packs the column heights into a StateHash. Two positions with the
// same present cells hash equally even when their board sizes differ.
func (p Position) Hash() StateHash {
	var h StateHash
	for c, height := range p.Heights() {
		h |= StateHash(height) << (heightBits * c)
	}
	return h
}

// Render draws one line per row using the given runes.
func (p Position) Render(present, absent rune) string {
	var b strings.Builder
	for r := 0; r < p.rows; r++ {
		for c := 0; c < p.cols; c++ {
			if p.present[r][c] {
				b.WriteRune(present)
			} else {
				b.WriteRune(absent)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (p Position) String() string {
	return p.Render('#', '.')
}

type positionJSON struct {
	Rows    int   `json:"rows"`
	Cols    int   `json:"cols"`
	Heights []int `json:"heights"`
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(positionJSON{Rows: p.rows, Cols: p.cols, Heights: p.Heights()})
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var raw positionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	pos, err := FromHeights(raw.Rows, raw.Cols, raw.Heights)
	if err != nil {
		return err
	}
	*p = pos
	return nil
}

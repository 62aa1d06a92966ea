package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Move eats the cell at (Row, Col) and everything below and to its right.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

var Poison = Move{Row: 0, Col: 0}

func (m Move) IsPoison() bool {
	return m == Poison
}

func (m Move) String() string {
	return fmt.Sprintf("%d %d", m.Row, m.Col)
}

// ParseMove reads a "row col" pair such as "2 3".
func ParseMove(s string) (Move, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Move{}, fmt.Errorf("expected <row> <col>, got %q", s)
	}
	row, err := strconv.Atoi(fields[0])
	if err != nil || row < 0 {
		return Move{}, fmt.Errorf("row %q is not a non-negative number", fields[0])
	}
	col, err := strconv.Atoi(fields[1])
	if err != nil || col < 0 {
		return Move{}, fmt.Errorf("column %q is not a non-negative number", fields[1])
	}
	return Move{Row: row, Col: col}, nil
}

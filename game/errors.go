package game

import (
	"errors"
	"fmt"
)

var (
	ErrSizeViolation = errors.New("board size violation")
	ErrOutOfRange    = errors.New("cell is out of range")
	ErrCellEaten     = errors.New("cell has already been eaten")
	ErrNotStaircase  = errors.New("heights do not form a staircase")
)

// SizeError reports a board dimension that is zero or exceeds capacity.
type SizeError struct {
	Rows, Cols int
}

func (se *SizeError) Error() string {
	switch {
	case se.Rows <= 0:
		return "not enough rows to play"
	case se.Cols <= 0:
		return "not enough columns to play"
	case se.Rows > MaxRows:
		return fmt.Sprintf("too many rows (%d > %d)", se.Rows, MaxRows)
	default:
		return fmt.Sprintf("too many columns (%d > %d)", se.Cols, MaxCols)
	}
}

func (se *SizeError) Is(target error) bool {
	return target == ErrSizeViolation
}

func checkSize(rows, cols int) error {
	if rows <= 0 || cols <= 0 || rows > MaxRows || cols > MaxCols {
		return &SizeError{Rows: rows, Cols: cols}
	}
	return nil
}

package player

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"chomp/game"
)

var ErrQuit = errors.New("player quit the game")

// Human reads moves typed as "row col" and reprompts until one is legal.
type Human struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewHuman(in io.Reader, out io.Writer) *Human {
	return &Human{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

func (h *Human) FindMove(p game.Position) (game.Move, error) {
	for {
		fmt.Fprint(h.out, "Your move <row> <col>: ")
		line, err := h.readLine()
		if err != nil {
			return game.Move{}, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if cmd := strings.ToLower(line); cmd == "q" || cmd == "quit" {
			return game.Move{}, ErrQuit
		}

		move, err := game.ParseMove(line)
		if err == nil {
			err = p.Validate(move)
		}
		if err != nil {
			fmt.Fprintln(h.out, "BAD SELECTION!", err)
			continue
		}
		return move, nil
	}
}

func (h *Human) readLine() (string, error) {
	if h.in.Scan() {
		return h.in.Text(), nil
	}
	if err := h.in.Err(); err != nil {
		return "", fmt.Errorf("failed to read move: %w", err)
	}
	return "", io.ErrUnexpectedEOF
}

package cache

import (
	"fmt"

	"github.com/buendia/tictactoe/board"
)

// Key is the canonical encoding of a position: the cells in row-major order
// with ' ' for empty, followed by the mark of the side to move. The last
// byte is always a mark and the rest has a fixed length per dimension, so
// distinct (board, side) pairs never collide.
func Key(b board.Board, side board.Side) string {
	return b.Cells() + string(side.Mark())
}

// ParseKey is the inverse of Key.
func ParseKey(key string) (board.Board, board.Side, error) {
	if len(key) < 2 {
		return board.Board{}, false, fmt.Errorf("%w: key %q too short", board.ErrBadBoard, key)
	}
	side, ok := board.SideForMark(board.Mark(key[len(key)-1]))
	if !ok {
		return board.Board{}, false, fmt.Errorf("%w: key %q has no side to move", board.ErrBadBoard, key)
	}
	b, err := board.FromCells(key[:len(key)-1])
	if err != nil {
		return board.Board{}, false, err
	}
	return b, side, nil
}

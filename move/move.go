package move

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadFormat is returned when a move cannot be parsed from text.
var ErrBadFormat = errors.New(`wrong format, moves look like "<x> <y>"`)

// Move is a single placement on the board. X is the column and Y is the row,
// both zero-indexed from the top-left cell.
type Move struct {
	X int
	Y int
}

// New creates a Move at column x, row y.
func New(x, y int) Move {
	return Move{X: x, Y: y}
}

// String returns the move in the same "<x> <y>" format we accept from
// players and send over the wire.
func (m Move) String() string {
	return strconv.Itoa(m.X) + " " + strconv.Itoa(m.Y)
}

// ShortDescription provides a short description, useful for logging or
// user display.
func (m Move) ShortDescription() string {
	return fmt.Sprintf("(%d,%d)", m.X, m.Y)
}

// Index returns the row-major cell index of this move on a board with the
// given dimension.
func (m Move) Index(dim int) int {
	return m.Y*dim + m.X
}

// FromIndex is the inverse of Index.
func FromIndex(idx, dim int) Move {
	return Move{X: idx % dim, Y: idx / dim}
}

// Parse reads a move in "<x> <y>" format. Surrounding whitespace is ignored,
// and the two coordinates may be separated by any amount of whitespace or a
// single comma. Parse does not know about board bounds; callers check
// legality against the board they apply the move to.
func Parse(s string) (Move, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", " "))
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Move{}, fmt.Errorf("%w: %q", ErrBadFormat, s)
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrBadFormat, s)
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrBadFormat, s)
	}
	return Move{X: x, Y: y}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (m Move) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Move) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

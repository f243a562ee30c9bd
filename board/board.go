// Package board holds the immutable N×N board used by every other package.
// A Board is a plain value: every move creates a new one, and two boards
// with the same cells compare equal with == and can be used as map keys.
package board

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/buendia/tictactoe/move"
)

const (
	// DefaultDim is the dimension of a tic-tac-toe board.
	DefaultDim = 3
	// MaxDim bounds boards we are willing to create. The search is
	// exhaustive, so anything much bigger than 4 is impractical anyway.
	MaxDim = 7
)

var (
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrOutOfBounds  = errors.New("move is off the board")
	ErrBadBoard     = errors.New("malformed board")
)

// Board is an N×N grid. cells holds N² marks in row-major order.
type Board struct {
	dim   int
	cells string
}

// New returns an empty board of the given dimension.
func New(dim int) Board {
	if dim < 1 || dim > MaxDim {
		panic(fmt.Sprintf("unsupported board dimension %d", dim))
	}
	return Board{dim: dim, cells: strings.Repeat(string(Empty), dim*dim)}
}

// FromRows builds a board from one string per row. 'x' and 'o' (either
// case) are marks; ' ', '_' and '.' are empty cells.
func FromRows(rows ...string) (Board, error) {
	dim := len(rows)
	if dim < 1 || dim > MaxDim {
		return Board{}, fmt.Errorf("%w: %d rows", ErrBadBoard, dim)
	}
	var sb strings.Builder
	for y, row := range rows {
		if len(row) != dim {
			return Board{}, fmt.Errorf("%w: row %d has %d cells, want %d",
				ErrBadBoard, y, len(row), dim)
		}
		for i := 0; i < len(row); i++ {
			m, err := markFromByte(row[i])
			if err != nil {
				return Board{}, err
			}
			sb.WriteByte(byte(m))
		}
	}
	return Board{dim: dim, cells: sb.String()}, nil
}

// FromCells builds a board from its row-major cell string, as produced by
// Cells. The dimension is inferred from the length.
func FromCells(cells string) (Board, error) {
	dim := int(math.Sqrt(float64(len(cells))))
	if dim < 1 || dim > MaxDim || dim*dim != len(cells) {
		return Board{}, fmt.Errorf("%w: %d cells is not a square board", ErrBadBoard, len(cells))
	}
	rows := make([]string, dim)
	for y := 0; y < dim; y++ {
		rows[y] = cells[y*dim : (y+1)*dim]
	}
	return FromRows(rows...)
}

func markFromByte(c byte) (Mark, error) {
	switch c {
	case 'x', 'X':
		return MarkA, nil
	case 'o', 'O':
		return MarkB, nil
	case ' ', '_', '.':
		return Empty, nil
	}
	return Empty, fmt.Errorf("%w: unexpected cell %q", ErrBadBoard, c)
}

// Dim returns the board dimension N.
func (b Board) Dim() int {
	return b.dim
}

// Cells returns the row-major cell string, one byte per cell.
func (b Board) Cells() string {
	return b.cells
}

// At returns the mark at column x, row y.
func (b Board) At(x, y int) Mark {
	return Mark(b.cells[y*b.dim+x])
}

// Contains reports whether m is within the board bounds.
func (b Board) Contains(m move.Move) bool {
	return m.X >= 0 && m.Y >= 0 && m.X < b.dim && m.Y < b.dim
}

// IsLegal reports whether m is on the board and its cell is empty.
func (b Board) IsLegal(m move.Move) bool {
	return b.Contains(m) && b.At(m.X, m.Y) == Empty
}

// Occupied returns the number of non-empty cells.
func (b Board) Occupied() int {
	return len(b.cells) - strings.Count(b.cells, string(Empty))
}

// LegalMoves returns every empty cell, scanning rows top to bottom and each
// row left to right. The search depends on this order.
func (b Board) LegalMoves() []move.Move {
	moves := make([]move.Move, 0, len(b.cells)-b.Occupied())
	for y := 0; y < b.dim; y++ {
		for x := 0; x < b.dim; x++ {
			if b.At(x, y) == Empty {
				moves = append(moves, move.New(x, y))
			}
		}
	}
	return moves
}

// Apply returns a new board with side's mark placed at m. The receiver is
// unchanged.
func (b Board) Apply(m move.Move, side Side) (Board, error) {
	if !b.Contains(m) {
		return b, fmt.Errorf("%w: %v", ErrOutOfBounds, m.ShortDescription())
	}
	idx := m.Index(b.dim)
	if Mark(b.cells[idx]) != Empty {
		return b, fmt.Errorf("%w: %v", ErrCellOccupied, m.ShortDescription())
	}
	return Board{
		dim:   b.dim,
		cells: b.cells[:idx] + string(side.Mark()) + b.cells[idx+1:],
	}, nil
}

// MustApply is like Apply but panics on an illegal move. Use it only with
// moves taken from LegalMoves.
func (b Board) MustApply(m move.Move, side Side) Board {
	nb, err := b.Apply(m, side)
	if err != nil {
		panic(err)
	}
	return nb
}

// FindWinner returns the mark that owns a complete line, or Empty. Lines
// are checked rows first, then columns, then the main diagonal, then the
// anti-diagonal; the first complete line found wins.
func (b Board) FindWinner() Mark {
	n := b.dim
	for y := 0; y < n; y++ {
		if m := b.line(0, y, 1, 0); m != Empty {
			return m
		}
	}
	for x := 0; x < n; x++ {
		if m := b.line(x, 0, 0, 1); m != Empty {
			return m
		}
	}
	if m := b.line(0, 0, 1, 1); m != Empty {
		return m
	}
	return b.line(n-1, 0, -1, 1)
}

// line returns the mark shared by all N cells starting at (x, y) and
// stepping by (dx, dy), or Empty if they differ.
func (b Board) line(x, y, dx, dy int) Mark {
	first := b.At(x, y)
	if first == Empty {
		return Empty
	}
	for i := 1; i < b.dim; i++ {
		if b.At(x+i*dx, y+i*dy) != first {
			return Empty
		}
	}
	return first
}

// IsFull reports whether every cell is filled.
func (b Board) IsFull() bool {
	return !strings.Contains(b.cells, string(Empty))
}

// IsDraw reports whether the board is full with no winner. A full board
// whose last move completed a line is a win, not a draw.
func (b Board) IsDraw() bool {
	return b.IsFull() && b.FindWinner() == Empty
}

// IsTerminal reports whether the game is over on this board.
func (b Board) IsTerminal() bool {
	return b.IsFull() || b.FindWinner() != Empty
}

// SideToMove infers whose turn it is from the mark counts, assuming the
// maximizer moved first.
func (b Board) SideToMove() Side {
	xCount := strings.Count(b.cells, string(MarkA))
	oCount := strings.Count(b.cells, string(MarkB))
	if xCount > oCount {
		return Minimizer
	}
	return Maximizer
}

func (b Board) String() string {
	return b.cells
}

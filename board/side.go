package board

// Mark is the content of a single cell.
type Mark byte

const (
	Empty Mark = ' '
	MarkA Mark = 'x'
	MarkB Mark = 'o'
)

func (m Mark) String() string {
	return string(m)
}

// Side is the player whose turn it is. The maximizing side always plays
// MarkA and the minimizing side always plays MarkB.
type Side bool

const (
	Maximizer Side = true
	Minimizer Side = false
)

// Mark returns the mark this side places.
func (s Side) Mark() Mark {
	if s == Maximizer {
		return MarkA
	}
	return MarkB
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	return !s
}

func (s Side) String() string {
	if s == Maximizer {
		return "maximizer"
	}
	return "minimizer"
}

// SideForMark returns the side playing the given mark. ok is false for
// Empty or any unknown byte.
func SideForMark(m Mark) (s Side, ok bool) {
	switch m {
	case MarkA:
		return Maximizer, true
	case MarkB:
		return Minimizer, true
	}
	return false, false
}

// Package turnplayer picks a move for whoever is on turn. Each side of a
// game is configured with one strategy Kind, and the game loop asks that
// side's TurnPlayer for a move every ply.
package turnplayer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/buendia/tictactoe/board"
	"github.com/buendia/tictactoe/minimax"
	"github.com/buendia/tictactoe/move"
)

var ErrUnknownKind = errors.New("unknown player kind")

// Kind identifies a move strategy. The numeric values are the ids used in
// configuration.
type Kind int

const (
	Human Kind = iota
	Random
	Minimax
)

var kindNames = map[string]Kind{
	"human":   Human,
	"random":  Random,
	"minimax": Minimax,
	"cache":   Minimax,
}

func (k Kind) String() string {
	switch k {
	case Human:
		return "human"
	case Random:
		return "random"
	case Minimax:
		return "minimax"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind accepts a numeric id or a strategy name.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if k, ok := kindNames[s]; ok {
		return k, nil
	}
	if id, err := strconv.Atoi(s); err == nil && lo.Contains([]Kind{Human, Random, Minimax}, Kind(id)) {
		return Kind(id), nil
	}
	names := lo.Keys(kindNames)
	sort.Strings(names)
	return Human, fmt.Errorf("%w: %q, want 0, 1, 2 or one of %s", ErrUnknownKind, s, strings.Join(names, ", "))
}

// TurnPlayer produces the move for side on b. The returned move is always
// legal on b.
type TurnPlayer interface {
	GenerateMove(ctx context.Context, b board.Board, side board.Side) (move.Move, error)
	Kind() Kind
}

// Deps holds what the strategies need. Only the fields used by the chosen
// kind must be set.
type Deps struct {
	Input    InputSource
	Notifier Notifier
	Searcher minimax.Searcher
	// RandIntn picks random moves; frand.Intn when nil.
	RandIntn func(n int) int
}

// New returns the player for kind.
func New(kind Kind, deps Deps) (TurnPlayer, error) {
	switch kind {
	case Human:
		if deps.Input == nil {
			return nil, errors.New("human player needs an input source")
		}
		return NewHumanPlayer(deps.Input, deps.Notifier), nil
	case Random:
		return NewRandomPlayer(deps.RandIntn), nil
	case Minimax:
		if deps.Searcher == nil {
			return nil, errors.New("minimax player needs a searcher")
		}
		return NewMinimaxPlayer(deps.Searcher), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
}

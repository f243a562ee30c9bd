// Package precompute fills the move cache for every position reachable from
// the empty board, so later games never have to search.
package precompute

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/buendia/tictactoe/board"
	"github.com/buendia/tictactoe/cache"
	"github.com/buendia/tictactoe/minimax"
)

const progressEvery = 500

// Result summarizes a precompute walk.
type Result struct {
	// Searched is the number of non-terminal positions asked for a best move.
	Searched int `yaml:"searched"`
	// Terminal is the number of finished games reached.
	Terminal int           `yaml:"terminal"`
	Elapsed  time.Duration `yaml:"elapsed"`
}

// State is a position together with the side to move.
type State struct {
	Board board.Board
	Side  board.Side
}

type walker struct {
	ctx     context.Context
	visit   func(State) error
	seen    map[string]bool
	result  Result
}

func (w *walker) walk(b board.Board, side board.Side) error {
	key := cache.Key(b, side)
	if w.seen[key] {
		return nil
	}
	w.seen[key] = true
	if b.IsTerminal() {
		w.result.Terminal++
		return nil
	}
	if err := w.ctx.Err(); err != nil {
		return err
	}
	if err := w.visit(State{Board: b, Side: side}); err != nil {
		return err
	}
	w.result.Searched++
	if w.result.Searched%progressEvery == 0 {
		log.Info().Int("searched", w.result.Searched).Int("terminal", w.result.Terminal).
			Msg("precompute-progress")
	}
	for _, m := range b.LegalMoves() {
		if err := w.walk(b.MustApply(m, side), side.Opponent()); err != nil {
			return err
		}
	}
	return nil
}

func newWalker(ctx context.Context, visit func(State) error) *walker {
	return &walker{ctx: ctx, visit: visit, seen: make(map[string]bool)}
}

// Run asks searcher for the best move at every non-terminal position
// reachable from an empty dim×dim board with the maximizer to move. Each
// position is visited once.
func Run(ctx context.Context, searcher minimax.Searcher, dim int) (Result, error) {
	start := time.Now()
	w := newWalker(ctx, func(s State) error {
		if _, err := searcher.BestMove(s.Board, s.Side); err != nil {
			return fmt.Errorf("precomputing %q: %w", cache.Key(s.Board, s.Side), err)
		}
		return nil
	})
	err := w.walk(board.New(dim), board.Maximizer)
	w.result.Elapsed = time.Since(start)
	if err != nil {
		return w.result, err
	}
	log.Info().Int("searched", w.result.Searched).Int("terminal", w.result.Terminal).
		Dur("elapsed", w.result.Elapsed).Msg("precompute-done")
	return w.result, nil
}

// Reachable returns every non-terminal position reachable from an empty
// dim×dim board, in the order Run visits them.
func Reachable(dim int) []State {
	var states []State
	w := newWalker(context.Background(), func(s State) error {
		states = append(states, s)
		return nil
	})
	// The visit func never fails and the context is never cancelled.
	_ = w.walk(board.New(dim), board.Maximizer)
	return states
}

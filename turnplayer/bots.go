package turnplayer

import (
	"context"

	"lukechampine.com/frand"

	"github.com/buendia/tictactoe/board"
	"github.com/buendia/tictactoe/minimax"
	"github.com/buendia/tictactoe/move"
)

// RandomPlayer plays a uniformly random legal move.
type RandomPlayer struct {
	randIntn func(n int) int
}

func NewRandomPlayer(randIntn func(n int) int) *RandomPlayer {
	if randIntn == nil {
		randIntn = frand.Intn
	}
	return &RandomPlayer{randIntn: randIntn}
}

func (p *RandomPlayer) Kind() Kind {
	return Random
}

func (p *RandomPlayer) GenerateMove(ctx context.Context, b board.Board, side board.Side) (move.Move, error) {
	if b.IsTerminal() {
		return move.Move{}, minimax.ErrTerminalBoard
	}
	moves := b.LegalMoves()
	return moves[p.randIntn(len(moves))], nil
}

// MinimaxPlayer plays the searcher's best move.
type MinimaxPlayer struct {
	searcher minimax.Searcher
}

func NewMinimaxPlayer(s minimax.Searcher) *MinimaxPlayer {
	return &MinimaxPlayer{searcher: s}
}

func (p *MinimaxPlayer) Kind() Kind {
	return Minimax
}

func (p *MinimaxPlayer) GenerateMove(ctx context.Context, b board.Board, side board.Side) (move.Move, error) {
	if err := ctx.Err(); err != nil {
		return move.Move{}, err
	}
	return p.searcher.BestMove(b, side)
}

// Package game runs a tic-tac-toe game between two TurnPlayers, either both
// local or one local and one on the other end of a network connection.
package game

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/buendia/tictactoe/board"
	"github.com/buendia/tictactoe/move"
	"github.com/buendia/tictactoe/turnplayer"
)

var (
	ErrGameOver          = errors.New("game is over")
	ErrIllegalRemoteMove = errors.New("opponent sent an illegal move")
)

const (
	MsgMoveSent       = "Your move has been sent to your opponent."
	MsgWaitingForMove = "Waiting for your opponent to move."
	MsgDraw           = "It's a draw!"
)

// Result is how a finished game ended.
type Result struct {
	Winner board.Mark
	Final  board.Board
	Plies  int
}

func (r Result) IsDraw() bool {
	return r.Winner == board.Empty
}

func (r Result) String() string {
	if r.IsDraw() {
		return MsgDraw
	}
	return fmt.Sprintf("Winner is %q!", r.Winner.String())
}

// MoveExchanger carries moves to and from a remote opponent.
type MoveExchanger interface {
	SendMove(ctx context.Context, m move.Move) error
	ReceiveMove(ctx context.Context) (move.Move, error)
}

// Game holds the state of one game. It is not safe for concurrent use.
type Game struct {
	board   board.Board
	onTurn  board.Side
	players map[board.Side]turnplayer.TurnPlayer
	history []move.Move

	// non-nil for online games
	peer      MoveExchanger
	localSide board.Side

	display  io.Writer
	notifier turnplayer.Notifier
}

// New starts a local game on an empty dim×dim board. x moves first.
func New(dim int, x, o turnplayer.TurnPlayer) *Game {
	return &Game{
		board:   board.New(dim),
		onTurn:  board.Maximizer,
		players: map[board.Side]turnplayer.TurnPlayer{board.Maximizer: x, board.Minimizer: o},
	}
}

// NewOnline starts a game against a remote opponent. local plays localSide;
// the other side's moves arrive through peer, and local moves are sent to it.
func NewOnline(dim int, local turnplayer.TurnPlayer, localSide board.Side, peer MoveExchanger) *Game {
	g := New(dim, nil, nil)
	g.players[localSide] = local
	g.players[localSide.Opponent()] = &remotePlayer{peer: peer}
	g.peer = peer
	g.localSide = localSide
	return g
}

// SetDisplay makes the game draw the board to w before every ply and at the
// end. Messages go to n. Either may be nil.
func (g *Game) SetDisplay(w io.Writer, n turnplayer.Notifier) {
	g.display = w
	g.notifier = n
}

func (g *Game) Board() board.Board {
	return g.board
}

func (g *Game) PlayerOnTurn() board.Side {
	return g.onTurn
}

// Player returns the player for side.
func (g *Game) Player(side board.Side) turnplayer.TurnPlayer {
	return g.players[side]
}

func (g *Game) History() []move.Move {
	return append([]move.Move(nil), g.history...)
}

func (g *Game) Playing() bool {
	return !g.board.IsTerminal()
}

// Result returns the outcome; ok is false while the game is still going.
func (g *Game) Result() (r Result, ok bool) {
	if g.Playing() {
		return Result{}, false
	}
	return Result{Winner: g.board.FindWinner(), Final: g.board, Plies: len(g.history)}, true
}

// PlayMove places m for the side on turn and passes the turn.
func (g *Game) PlayMove(m move.Move) error {
	if !g.Playing() {
		return ErrGameOver
	}
	nb, err := g.board.Apply(m, g.onTurn)
	if err != nil {
		return err
	}
	log.Debug().Str("side", g.onTurn.Mark().String()).Str("move", m.String()).Msg("played-move")
	g.board = nb
	g.history = append(g.history, m)
	g.onTurn = g.onTurn.Opponent()
	return nil
}

// PlayTurn asks the player on turn for a move and plays it. In an online
// game a local move is then sent to the peer.
func (g *Game) PlayTurn(ctx context.Context) (move.Move, error) {
	if !g.Playing() {
		return move.Move{}, ErrGameOver
	}
	side := g.onTurn
	p := g.players[side]
	if p == nil {
		return move.Move{}, fmt.Errorf("no player for %v", side.Mark())
	}
	remote := g.peer != nil && side != g.localSide
	if remote {
		g.show(MsgWaitingForMove)
	}
	m, err := p.GenerateMove(ctx, g.board, side)
	if err != nil {
		return move.Move{}, err
	}
	if err := g.PlayMove(m); err != nil {
		return move.Move{}, err
	}
	if g.peer != nil && !remote {
		if err := g.peer.SendMove(ctx, m); err != nil {
			return m, fmt.Errorf("sending move: %w", err)
		}
		g.show(MsgMoveSent)
	}
	return m, nil
}

// Play runs turns until the game ends.
func (g *Game) Play(ctx context.Context) (Result, error) {
	g.render()
	for g.Playing() {
		if _, err := g.PlayTurn(ctx); err != nil {
			return Result{}, err
		}
		g.render()
	}
	r, _ := g.Result()
	g.show(r.String())
	log.Info().Str("result", r.String()).Int("plies", r.Plies).Msg("game-over")
	return r, nil
}

func (g *Game) render() {
	if g.display != nil {
		fmt.Fprintln(g.display, g.board.ToDisplayText())
	}
}

func (g *Game) show(msg string) {
	if g.notifier != nil {
		g.notifier.ShowMessage(msg)
	}
}

// remotePlayer plays whatever the peer sends.
type remotePlayer struct {
	peer MoveExchanger
}

func (r *remotePlayer) Kind() turnplayer.Kind {
	return turnplayer.Human
}

func (r *remotePlayer) GenerateMove(ctx context.Context, b board.Board, side board.Side) (move.Move, error) {
	m, err := r.peer.ReceiveMove(ctx)
	if err != nil {
		return move.Move{}, err
	}
	if !b.IsLegal(m) {
		return move.Move{}, fmt.Errorf("%w: %v", ErrIllegalRemoteMove, m.ShortDescription())
	}
	return m, nil
}

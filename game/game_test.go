package game

import (
	"bytes"
	"context"
	"errors"
	"net"
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/buendia/tictactoe/board"
	"github.com/buendia/tictactoe/cache"
	"github.com/buendia/tictactoe/minimax"
	"github.com/buendia/tictactoe/move"
	"github.com/buendia/tictactoe/netplay"
	"github.com/buendia/tictactoe/turnplayer"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	os.Exit(m.Run())
}

type messages struct {
	msgs []string
}

func (m *messages) ShowMessage(msg string) {
	m.msgs = append(m.msgs, msg)
}

func TestMinimaxSelfPlayDraws(t *testing.T) {
	is := is.New(t)
	s := minimax.NewSolver(cache.NewMemoryStore())
	p := turnplayer.NewMinimaxPlayer(s)
	g := New(3, p, p)
	var out bytes.Buffer
	msgs := &messages{}
	g.SetDisplay(&out, msgs)

	r, err := g.Play(context.Background())
	is.NoErr(err)
	is.True(r.IsDraw())
	is.Equal(r.Plies, 9)
	is.Equal(len(g.History()), 9)
	is.Equal(msgs.msgs[len(msgs.msgs)-1], MsgDraw)
	is.Equal(strings.Count(out.String(), "    0 1 2"), 10)
}

func TestMinimaxNeverLosesToRandom(t *testing.T) {
	is := is.New(t)
	s := minimax.NewSolver(cache.NewMemoryStore())
	for i := 0; i < 20; i++ {
		g := New(3, turnplayer.NewRandomPlayer(nil), turnplayer.NewMinimaxPlayer(s))
		r, err := g.Play(context.Background())
		is.NoErr(err)
		is.True(r.Winner != board.MarkA)
	}
}

func TestPlayMove(t *testing.T) {
	is := is.New(t)
	g := New(3, nil, nil)
	is.NoErr(g.PlayMove(move.New(1, 1)))
	is.Equal(g.PlayerOnTurn(), board.Minimizer)
	err := g.PlayMove(move.New(1, 1))
	is.True(errors.Is(err, board.ErrCellOccupied))
	is.Equal(g.PlayerOnTurn(), board.Minimizer) // turn not passed

	for _, m := range []move.Move{move.New(0, 0), move.New(0, 1), move.New(1, 0), move.New(2, 1)} {
		is.NoErr(g.PlayMove(m))
	}
	r, ok := g.Result()
	is.True(ok)
	is.Equal(r.Winner, board.MarkA)
	is.Equal(r.String(), `Winner is "x"!`)
	is.True(errors.Is(g.PlayMove(move.New(2, 2)), ErrGameOver))
}

func TestOnlineGame(t *testing.T) {
	is := is.New(t)
	a, b := net.Pipe()
	hostPeer, guestPeer := netplay.NewPeer(a), netplay.NewPeer(b)
	defer hostPeer.Close()
	defer guestPeer.Close()

	ctx := context.Background()
	hostMsgs := &messages{}
	host := NewOnline(3, turnplayer.NewMinimaxPlayer(minimax.NewSolver(cache.NewMemoryStore())),
		board.Maximizer, hostPeer)
	host.SetDisplay(nil, hostMsgs)
	guest := NewOnline(3, turnplayer.NewRandomPlayer(nil), board.Minimizer, guestPeer)

	var hostResult, guestResult Result
	var g errgroup.Group
	g.Go(func() error {
		var err error
		hostResult, err = host.Play(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		guestResult, err = guest.Play(ctx)
		return err
	})
	is.NoErr(g.Wait())
	is.Equal(hostResult, guestResult)
	is.Equal(host.History(), guest.History())
	is.True(hostResult.Winner != board.MarkB)
	is.Equal(hostMsgs.msgs[0], MsgMoveSent)
	is.Equal(hostMsgs.msgs[1], MsgWaitingForMove)
}

type cannedPeer struct {
	moves []move.Move
}

func (c *cannedPeer) SendMove(context.Context, move.Move) error { return nil }

func (c *cannedPeer) ReceiveMove(context.Context) (move.Move, error) {
	m := c.moves[0]
	c.moves = c.moves[1:]
	return m, nil
}

func TestOnlineRejectsIllegalRemoteMove(t *testing.T) {
	is := is.New(t)
	peer := &cannedPeer{moves: []move.Move{move.New(0, 0)}}
	g := NewOnline(3, turnplayer.NewRandomPlayer(func(int) int { return 0 }), board.Minimizer, peer)
	_, err := g.PlayTurn(context.Background())
	is.NoErr(err) // remote x plays (0,0)
	_, err = g.PlayTurn(context.Background())
	is.NoErr(err) // local o plays (1,0)

	peer.moves = []move.Move{move.New(1, 0)}
	_, err = g.PlayTurn(context.Background())
	is.True(errors.Is(err, ErrIllegalRemoteMove))
}

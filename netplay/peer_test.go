package netplay

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/matryer/is"
	"golang.org/x/sync/errgroup"

	"github.com/buendia/tictactoe/move"
)

func pipe() (*Peer, *Peer) {
	a, b := net.Pipe()
	return NewPeer(a), NewPeer(b)
}

func TestSendReceive(t *testing.T) {
	is := is.New(t)
	host, guest := pipe()
	defer host.Close()
	defer guest.Close()
	ctx := context.Background()

	var g errgroup.Group
	g.Go(func() error {
		if err := host.SendMove(ctx, move.New(1, 2)); err != nil {
			return err
		}
		return host.SendMove(ctx, move.New(0, 0))
	})
	m, err := guest.ReceiveMove(ctx)
	is.NoErr(err)
	is.Equal(m, move.New(1, 2))
	m, err = guest.ReceiveMove(ctx)
	is.NoErr(err)
	is.Equal(m, move.New(0, 0))
	is.NoErr(g.Wait())
}

func TestReceiveAfterClose(t *testing.T) {
	is := is.New(t)
	host, guest := pipe()
	is.NoErr(host.Close())
	_, err := guest.ReceiveMove(context.Background())
	is.True(errors.Is(err, ErrPeerClosed))
}

func TestReceiveMalformed(t *testing.T) {
	is := is.New(t)
	a, b := net.Pipe()
	guest := NewPeer(b)
	defer a.Close()
	defer guest.Close()
	go io.WriteString(a, "banana\n")
	_, err := guest.ReceiveMove(context.Background())
	is.True(errors.Is(err, move.ErrBadFormat))
}

func TestReceiveHonorsContext(t *testing.T) {
	is := is.New(t)
	host, guest := pipe()
	defer host.Close()
	defer guest.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := guest.ReceiveMove(ctx)
	is.True(errors.Is(err, context.DeadlineExceeded))

	ctx2, cancel2 := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel2)
	_, err = guest.ReceiveMove(ctx2)
	is.True(errors.Is(err, context.Canceled))
}

func TestHostAndJoinOverTCP(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	ln, err := Listen(ctx, "127.0.0.1:0")
	is.NoErr(err)
	defer ln.Close()

	var host *Peer
	var g errgroup.Group
	g.Go(func() error {
		var err error
		host, err = Accept(ctx, ln)
		return err
	})
	guest, err := Join(ctx, ln.Addr().String(), 3)
	is.NoErr(err)
	defer guest.Close()
	is.NoErr(g.Wait())
	defer host.Close()

	g.Go(func() error { return guest.SendMove(ctx, move.New(2, 1)) })
	m, err := host.ReceiveMove(ctx)
	is.NoErr(err)
	is.Equal(m, move.New(2, 1))
	is.NoErr(g.Wait())
}

func TestJoinGivesUp(t *testing.T) {
	is := is.New(t)
	ln, err := Listen(context.Background(), "127.0.0.1:0")
	is.NoErr(err)
	addr := ln.Addr().String()
	is.NoErr(ln.Close())

	_, err = Join(context.Background(), addr, 2)
	is.True(err != nil)
}

func TestAcceptCancelled(t *testing.T) {
	is := is.New(t)
	ln, err := Listen(context.Background(), "127.0.0.1:0")
	is.NoErr(err)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)
	_, err = Accept(ctx, ln)
	is.True(errors.Is(err, context.Canceled))
}

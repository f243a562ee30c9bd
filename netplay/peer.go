// Package netplay connects two players over TCP. Each move travels as one
// line of text, "<x> <y>\n". There is no handshake beyond the connection
// itself; the host plays x and the guest plays o.
package netplay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/buendia/tictactoe/move"
)

const DefaultPort = 12480

var ErrPeerClosed = errors.New("peer closed the connection")

// Peer is one end of a game connection.
type Peer struct {
	conn net.Conn
	r    *bufio.Reader
}

func NewPeer(conn net.Conn) *Peer {
	return &Peer{conn: conn, r: bufio.NewReader(conn)}
}

// RemoteAddr returns the address of the other end.
func (p *Peer) RemoteAddr() string {
	return p.conn.RemoteAddr().String()
}

// bind makes blocking I/O on the connection honor ctx. The returned func
// must be called once the I/O is done, before the next bind.
func (p *Peer) bind(ctx context.Context) func() {
	if d, ok := ctx.Deadline(); ok {
		p.conn.SetDeadline(d)
	} else {
		p.conn.SetDeadline(time.Time{})
	}
	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		p.conn.SetDeadline(time.Now())
		close(fired)
	})
	return func() {
		if !stop() {
			<-fired
		}
	}
}

func (p *Peer) wrap(ctx context.Context, err error) error {
	if errors.Is(err, os.ErrDeadlineExceeded) && ctx.Done() != nil {
		// Every deadline on the connection comes from ctx.
		<-ctx.Done()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return ErrPeerClosed
	}
	return err
}

func (p *Peer) SendMove(ctx context.Context, m move.Move) error {
	defer p.bind(ctx)()
	if _, err := io.WriteString(p.conn, m.String()+"\n"); err != nil {
		return p.wrap(ctx, err)
	}
	log.Debug().Str("move", m.String()).Str("peer", p.RemoteAddr()).Msg("sent-move")
	return nil
}

// ReceiveMove blocks until the peer sends a move. A malformed line is an
// error wrapping move.ErrBadFormat; the move is not checked for legality.
func (p *Peer) ReceiveMove(ctx context.Context) (move.Move, error) {
	defer p.bind(ctx)()
	line, err := p.r.ReadString('\n')
	if err != nil {
		return move.Move{}, p.wrap(ctx, err)
	}
	m, err := move.Parse(line)
	if err != nil {
		return move.Move{}, fmt.Errorf("from %s: %w", p.RemoteAddr(), err)
	}
	log.Debug().Str("move", m.String()).Str("peer", p.RemoteAddr()).Msg("received-move")
	return m, nil
}

func (p *Peer) Close() error {
	return p.conn.Close()
}

// Listen opens the listening socket for Host.
func Listen(ctx context.Context, addr string) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(ctx, "tcp", addr)
}

// Accept waits for a single guest on ln.
func Accept(ctx context.Context, ln net.Listener) (*Peer, error) {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()
	conn, err := ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	log.Info().Str("peer", conn.RemoteAddr().String()).Msg("peer-connected")
	return NewPeer(conn), nil
}

// Host listens on addr, accepts one guest and stops listening.
func Host(ctx context.Context, addr string) (*Peer, error) {
	ln, err := Listen(ctx, addr)
	if err != nil {
		return nil, err
	}
	defer ln.Close()
	log.Info().Str("addr", ln.Addr().String()).Msg("waiting-for-peer")
	return Accept(ctx, ln)
}

// Join dials the host at addr. The host may not be up yet, so the dial is
// tried up to attempts times with backoff.
func Join(ctx context.Context, addr string, attempts uint) (*Peer, error) {
	var d net.Dialer
	var conn net.Conn
	err := retry.Do(
		func() error {
			var err error
			conn, err = d.DialContext(ctx, "tcp", addr)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(100*time.Millisecond),
		retry.MaxDelay(2*time.Second),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Debug().Err(err).Uint("n", n).Str("addr", addr).Msg("host-not-up-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("joining %s: %w", addr, err)
	}
	log.Info().Str("peer", conn.RemoteAddr().String()).Msg("peer-connected")
	return NewPeer(conn), nil
}

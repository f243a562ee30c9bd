package turnplayer

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/matryer/is"

	"github.com/buendia/tictactoe/board"
	"github.com/buendia/tictactoe/cache"
	"github.com/buendia/tictactoe/minimax"
	"github.com/buendia/tictactoe/move"
)

type scriptedInput struct {
	lines   []string
	prompts []string
}

func (s *scriptedInput) RequestMove(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	l := s.lines[0]
	s.lines = s.lines[1:]
	return l, nil
}

type recorder struct {
	msgs []string
}

func (r *recorder) ShowMessage(msg string) {
	r.msgs = append(r.msgs, msg)
}

func TestParseKind(t *testing.T) {
	is := is.New(t)
	for in, want := range map[string]Kind{
		"0": Human, "1": Random, "2": Minimax,
		"human": Human, "Random": Random, " minimax ": Minimax, "cache": Minimax,
	} {
		k, err := ParseKind(in)
		is.NoErr(err)
		is.Equal(k, want)
	}
	_, err := ParseKind("3")
	is.True(errors.Is(err, ErrUnknownKind))
	_, err = ParseKind("alphago")
	is.True(errors.Is(err, ErrUnknownKind))
}

func TestHumanRepromptsOnBadInput(t *testing.T) {
	is := is.New(t)
	b, err := board.FromRows("x__", "___", "___")
	is.NoErr(err)
	in := &scriptedInput{lines: []string{"hello", "0 0", "5 5", "1,2"}}
	out := &recorder{}
	p := NewHumanPlayer(in, out)
	m, err := p.GenerateMove(context.Background(), b, board.Minimizer)
	is.NoErr(err)
	is.Equal(m, move.New(1, 2))
	is.Equal(out.msgs, []string{MsgWrongFormat, MsgInvalidMove, MsgInvalidMove})
	is.Equal(len(in.prompts), 4)
}

func TestHumanInputFailure(t *testing.T) {
	is := is.New(t)
	p := NewHumanPlayer(&scriptedInput{lines: []string{"nope"}}, nil)
	_, err := p.GenerateMove(context.Background(), board.New(3), board.Maximizer)
	is.True(errors.Is(err, io.EOF))
}

func TestRandomPlayerIsLegal(t *testing.T) {
	is := is.New(t)
	b, err := board.FromRows("xo_", "_x_", "o__")
	is.NoErr(err)
	p := NewRandomPlayer(nil)
	for i := 0; i < 50; i++ {
		m, err := p.GenerateMove(context.Background(), b, board.Maximizer)
		is.NoErr(err)
		is.True(b.IsLegal(m))
	}
	fixed := NewRandomPlayer(func(n int) int { return n - 1 })
	m, err := fixed.GenerateMove(context.Background(), b, board.Maximizer)
	is.NoErr(err)
	is.Equal(m, move.New(2, 2))
}

func TestNewDispatchesOnKind(t *testing.T) {
	is := is.New(t)
	deps := Deps{
		Input:    &scriptedInput{},
		Searcher: minimax.NewSolver(cache.NewMemoryStore()),
	}
	for _, k := range []Kind{Human, Random, Minimax} {
		p, err := New(k, deps)
		is.NoErr(err)
		is.Equal(p.Kind(), k)
	}
	_, err := New(Kind(7), deps)
	is.True(errors.Is(err, ErrUnknownKind))
	_, err = New(Minimax, Deps{})
	is.True(err != nil)
}

func TestMinimaxPlayerWins(t *testing.T) {
	is := is.New(t)
	b, err := board.FromRows("xx_", "oo_", "___")
	is.NoErr(err)
	p := NewMinimaxPlayer(minimax.NewSolver(cache.NewMemoryStore()))
	m, err := p.GenerateMove(context.Background(), b, board.Maximizer)
	is.NoErr(err)
	is.Equal(m, move.New(2, 0))
}

package turnplayer

import (
	"context"
	"fmt"

	"github.com/buendia/tictactoe/board"
	"github.com/buendia/tictactoe/move"
)

const (
	MsgInvalidMove = "Invalid move, please type another one."
	MsgWrongFormat = `Wrong format. Please input "<x> <y>" like "1 2".`
)

// InputSource reads one line of text typed by a person.
type InputSource interface {
	RequestMove(prompt string) (string, error)
}

// Notifier shows a message to the person at the keyboard.
type Notifier interface {
	ShowMessage(msg string)
}

type HumanPlayer struct {
	in  InputSource
	out Notifier
}

// NewHumanPlayer returns a player that prompts in for each move. out may be
// nil, in which case complaints about bad input are dropped.
func NewHumanPlayer(in InputSource, out Notifier) *HumanPlayer {
	return &HumanPlayer{in: in, out: out}
}

func (p *HumanPlayer) Kind() Kind {
	return Human
}

// GenerateMove keeps asking until it gets a legal move. Bad input is never
// an error; only a failing input source is.
func (p *HumanPlayer) GenerateMove(ctx context.Context, b board.Board, side board.Side) (move.Move, error) {
	prompt := fmt.Sprintf("%v to move (x y)> ", side.Mark())
	for {
		if err := ctx.Err(); err != nil {
			return move.Move{}, err
		}
		text, err := p.in.RequestMove(prompt)
		if err != nil {
			return move.Move{}, err
		}
		m, err := move.Parse(text)
		if err != nil {
			p.show(MsgWrongFormat)
			continue
		}
		if !b.IsLegal(m) {
			p.show(MsgInvalidMove)
			continue
		}
		return m, nil
	}
}

func (p *HumanPlayer) show(msg string) {
	if p.out != nil {
		p.out.ShowMessage(msg)
	}
}

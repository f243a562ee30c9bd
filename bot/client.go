package bot

import (
	"errors"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/buendia/tictactoe/board"
	"github.com/buendia/tictactoe/cache"
	"github.com/buendia/tictactoe/config"
	"github.com/buendia/tictactoe/move"
)

// Client asks a remote bot for moves. It satisfies minimax.Searcher, so it
// can stand in for a local solver.
type Client struct {
	nc      *nats.Conn
	channel string
	timeout time.Duration
}

func NewClient(nc *nats.Conn, channel string, timeout time.Duration) *Client {
	return &Client{nc: nc, channel: channel, timeout: timeout}
}

// Connect dials the NATS server named in cfg.
func Connect(cfg *config.Config) (*Client, error) {
	nc, err := nats.Connect(cfg.GetString(config.ConfigNatsURL), nats.Name("tictactoe"))
	if err != nil {
		return nil, err
	}
	return NewClient(nc, cfg.GetString(config.ConfigBotChannel), cfg.GetDuration(config.ConfigBotTimeout)), nil
}

// RequestMove sends the position to the bot and waits for its move.
func (c *Client) RequestMove(b board.Board, side board.Side) (move.Move, error) {
	res, err := c.nc.Request(c.channel, []byte(cache.Key(b, side)), c.timeout)
	if err != nil {
		if c.nc.LastError() != nil {
			log.Error().Msgf("%v for request", c.nc.LastError())
		}
		return move.Move{}, err
	}
	log.Debug().Msgf("res: %v", string(res.Data))
	return parseReply(res.Data)
}

func (c *Client) BestMove(b board.Board, side board.Side) (move.Move, error) {
	return c.RequestMove(b, side)
}

func (c *Client) Close() {
	c.nc.Close()
}

func parseReply(data []byte) (move.Move, error) {
	reply := string(data)
	if msg, ok := strings.CutPrefix(reply, errorPrefix); ok {
		return move.Move{}, errors.New("bot returned: " + msg)
	}
	return move.Parse(reply)
}

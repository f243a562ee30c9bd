// Package bot serves best moves over NATS request/reply. A request carries
// a position key as produced by cache.Key; the reply is the move as "x y",
// or a message starting with "error: ".
package bot

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/buendia/tictactoe/cache"
	"github.com/buendia/tictactoe/minimax"
)

const errorPrefix = "error: "

type Bot struct {
	searcher minimax.Searcher
}

func NewBot(s minimax.Searcher) *Bot {
	return &Bot{searcher: s}
}

func errorResponse(message string, err error) []byte {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return []byte(errorPrefix + msg)
}

func (bot *Bot) handle(data []byte) []byte {
	key := string(data)
	b, side, err := cache.ParseKey(key)
	if err != nil {
		return errorResponse("bad position", err)
	}
	m, err := bot.searcher.BestMove(b, side)
	if err != nil {
		return errorResponse("no move", err)
	}
	log.Info().Str("key", key).Str("move", m.String()).Msg("generated-move")
	return []byte(m.String())
}

// Main answers requests on channel until ctx is done. Messages on one
// subscription are delivered one at a time, so the searcher is never used
// concurrently.
func Main(ctx context.Context, nc *nats.Conn, channel string, bot *Bot) error {
	sub, err := nc.Subscribe(channel, func(m *nats.Msg) {
		log.Debug().Int("bytes", len(m.Data)).Msg("bot-request")
		if err := m.Respond(bot.handle(m.Data)); err != nil {
			log.Err(err).Msg("bot-respond-failed")
		}
	})
	if err != nil {
		return err
	}
	if err := nc.Flush(); err != nil {
		return err
	}
	if err := nc.LastError(); err != nil {
		return err
	}
	log.Info().Str("channel", channel).Msg("bot-listening")

	<-ctx.Done()
	log.Info().Msg("bot-shutting-down")
	return sub.Drain()
}

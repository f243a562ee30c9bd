package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/buendia/tictactoe/bot"
	"github.com/buendia/tictactoe/cache"
	"github.com/buendia/tictactoe/config"
	"github.com/buendia/tictactoe/minimax"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	store, err := cache.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot-open-move-cache")
	}
	defer store.Close()

	nc, err := nats.Connect(cfg.GetString(config.ConfigNatsURL), nats.Name("tictactoe-bot"))
	if err != nil {
		log.Fatal().Err(err).Msg("cannot-connect-to-nats")
	}
	defer nc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b := bot.NewBot(minimax.NewSolver(store))
	if err := bot.Main(ctx, nc, cfg.GetString(config.ConfigBotChannel), b); err != nil {
		log.Error().Err(err).Msg("bot-stopped")
	}
	log.Info().Msg("server gracefully shutting down")
}

// Package shell is the interactive front end: a readline loop whose commands
// start games, play moves, ask the bot and manage the move cache.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/buendia/tictactoe/bot"
	"github.com/buendia/tictactoe/cache"
	"github.com/buendia/tictactoe/config"
	"github.com/buendia/tictactoe/game"
	"github.com/buendia/tictactoe/minimax"
	"github.com/buendia/tictactoe/turnplayer"
)

const prompt = "\033[31mtictactoe>\033[0m "

type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	config *config.Config

	store  *cache.CountingStore
	solver *minimax.Solver
	input  turnplayer.InputSource

	game *game.Game

	botClient *bot.Client
	searchLog *os.File
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// NewShellController opens the move cache named by cfg and sets up the
// readline instance.
func NewShellController(cfg *config.Config) (*ShellController, error) {
	store, err := cache.Open(cfg)
	if err != nil {
		return nil, err
	}
	sc := newShellController(cfg, store, os.Stdout, nil)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     "/tmp/tictactoe_readline.tmp",
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		store.Close()
		return nil, err
	}
	sc.l = l
	sc.out = l.Stdout()
	sc.input = sc
	if path := cfg.GetString(config.ConfigSearchLog); path != "" {
		if err := sc.openSearchLog(path); err != nil {
			log.Err(err).Str("path", path).Msg("cannot-open-search-log")
		}
	}
	return sc, nil
}

func newShellController(cfg *config.Config, store cache.Store, out io.Writer, in turnplayer.InputSource) *ShellController {
	cs := cache.NewCountingStore(store)
	sc := &ShellController{
		out:    out,
		config: cfg,
		store:  cs,
		solver: minimax.NewSolver(cs),
		input:  in,
	}
	return sc
}

func (sc *ShellController) openSearchLog(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if sc.searchLog != nil {
		sc.searchLog.Close()
	}
	sc.searchLog = f
	sc.solver.SetLogStream(f)
	log.Info().Str("path", path).Msg("search-log-on")
	return nil
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// ShowMessage lets the shell act as a turnplayer.Notifier.
func (sc *ShellController) ShowMessage(msg string) {
	sc.showMessage(msg)
}

// RequestMove reads one line with a temporary prompt. It lets the shell act
// as a turnplayer.InputSource for human players.
func (sc *ShellController) RequestMove(p string) (string, error) {
	if sc.l == nil {
		return "", errors.New("no terminal to read a move from")
	}
	sc.l.SetPrompt(p)
	defer sc.l.SetPrompt(prompt)
	line, err := sc.l.Readline()
	if err == readline.ErrInterrupt {
		return "", errors.New("move entry interrupted")
	}
	return line, err
}

// Close releases the cache and any open connections.
func (sc *ShellController) Close() error {
	if sc.botClient != nil {
		sc.botClient.Close()
	}
	if sc.searchLog != nil {
		sc.searchLog.Close()
	}
	return sc.store.Close()
}

// Execute runs a single command line, as typed at the prompt.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	cmd, err := extractFields(line)
	if err == errNoData {
		return
	} else if err != nil {
		sc.showError(err)
		return
	}
	resp, err := sc.standardModeSwitch(context.Background(), cmd, sig)
	if err != nil {
		sc.showError(err)
		return
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) standardModeSwitch(ctx context.Context, cmd *shellcmd, sig chan os.Signal) (*Response, error) {
	switch cmd.cmd {
	case "exit":
		sig <- syscall.SIGINT
		return nil, nil
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGame(cmd)
	case "show":
		return sc.show(cmd)
	case "move":
		return sc.move(cmd)
	case "bot":
		return sc.botMove(cmd)
	case "hint":
		return sc.hint(cmd)
	case "play":
		return sc.play(ctx, cmd)
	case "precompute":
		return sc.precompute(ctx, cmd)
	case "stats":
		return sc.stats(cmd)
	case "host":
		return sc.host(ctx, cmd)
	case "join":
		return sc.join(ctx, cmd)
	case "set":
		return sc.set(cmd)
	case "setconfig":
		return sc.setConfig(cmd)
	case "script":
		return sc.script(cmd)
	default:
		log.Debug().Msgf("you said: %v", strconv.Quote(cmd.cmd))
		return nil, fmt.Errorf("command %v not found", strconv.Quote(cmd.cmd))
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "exit") {
			sig <- syscall.SIGINT
			break
		}
		sc.Execute(sig, line)
	}
	log.Debug().Msgf("Exiting readline loop...")
}

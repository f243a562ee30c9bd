package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/buendia/tictactoe/board"
	"github.com/buendia/tictactoe/bot"
	"github.com/buendia/tictactoe/config"
	"github.com/buendia/tictactoe/game"
	"github.com/buendia/tictactoe/minimax"
	"github.com/buendia/tictactoe/move"
	"github.com/buendia/tictactoe/netplay"
	"github.com/buendia/tictactoe/precompute"
	"github.com/buendia/tictactoe/turnplayer"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("no game in progress, start one with new")
)

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

// extractFields splits a command line into the command, its positional
// arguments and its -option value pairs.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[i][1:]] = fields[i+1]
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func outcome(score int) string {
	switch {
	case score > 0:
		return "x wins"
	case score < 0:
		return "o wins"
	}
	return "draw"
}

func (sc *ShellController) player(kind turnplayer.Kind) (turnplayer.TurnPlayer, error) {
	return turnplayer.New(kind, turnplayer.Deps{
		Input:    sc.input,
		Notifier: sc,
		Searcher: sc.solver,
	})
}

// configuredKind returns the kind set for side, or the override if given.
func (sc *ShellController) configuredKind(side board.Side, override string) (turnplayer.Kind, error) {
	if override != "" {
		return turnplayer.ParseKind(override)
	}
	key := config.ConfigPlayerO
	if side == board.Maximizer {
		key = config.ConfigPlayerX
	}
	return turnplayer.ParseKind(sc.config.GetString(key))
}

func (sc *ShellController) boardDim() (int, error) {
	dim := sc.config.GetInt(config.ConfigBoardSize)
	if dim < 1 || dim > board.MaxDim {
		return 0, fmt.Errorf("board size %d not supported, must be 1 to %d", dim, board.MaxDim)
	}
	return dim, nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	dim, err := sc.boardDim()
	if err != nil {
		return nil, err
	}
	overrides := make([]string, 2)
	copy(overrides, cmd.args)
	kinds := map[board.Side]turnplayer.Kind{}
	players := map[board.Side]turnplayer.TurnPlayer{}
	for i, side := range []board.Side{board.Maximizer, board.Minimizer} {
		k, err := sc.configuredKind(side, overrides[i])
		if err != nil {
			return nil, err
		}
		p, err := sc.player(k)
		if err != nil {
			return nil, err
		}
		kinds[side], players[side] = k, p
	}
	sc.game = game.New(dim, players[board.Maximizer], players[board.Minimizer])
	sc.game.SetDisplay(sc.out, sc)
	log.Info().Str("x", kinds[board.Maximizer].String()).Str("o", kinds[board.Minimizer].String()).
		Int("dim", dim).Msg("new-game")
	return sc.show(nil)
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	var status string
	if r, over := sc.game.Result(); over {
		status = r.String()
	} else {
		status = fmt.Sprintf("%v to move", sc.game.PlayerOnTurn().Mark())
	}
	return msg(sc.game.Board().ToDisplayText() + "\n" + status), nil
}

func (sc *ShellController) move(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	m, err := move.Parse(strings.Join(cmd.args, " "))
	if err != nil {
		return nil, err
	}
	if err := sc.game.PlayMove(m); err != nil {
		return nil, err
	}
	return sc.show(nil)
}

func (sc *ShellController) searcher(remote bool) (minimax.Searcher, error) {
	if !remote {
		return sc.solver, nil
	}
	if sc.botClient == nil {
		c, err := bot.Connect(sc.config)
		if err != nil {
			return nil, err
		}
		sc.botClient = c
	}
	return sc.botClient, nil
}

func (sc *ShellController) botMove(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	s, err := sc.searcher(cmd.options["remote"] == "true")
	if err != nil {
		return nil, err
	}
	m, err := s.BestMove(sc.game.Board(), sc.game.PlayerOnTurn())
	if err != nil {
		return nil, err
	}
	if err := sc.game.PlayMove(m); err != nil {
		return nil, err
	}
	return sc.show(nil)
}

func (sc *ShellController) hint(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	b, side := sc.game.Board(), sc.game.PlayerOnTurn()
	m, err := sc.solver.BestMove(b, side)
	if err != nil {
		return nil, err
	}
	score := sc.solver.Score(b.MustApply(m, side), side.Opponent())
	return msg(fmt.Sprintf("best move for %v: %v (%s)", side.Mark(), m, outcome(score))), nil
}

func (sc *ShellController) play(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if sc.game == nil || !sc.game.Playing() {
		if _, err := sc.newGame(&shellcmd{cmd: "new", args: cmd.args}); err != nil {
			return nil, err
		}
	}
	r, err := sc.game.Play(ctx)
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("game over after %d moves", r.Plies)), nil
}

func (sc *ShellController) precompute(ctx context.Context, cmd *shellcmd) (*Response, error) {
	dim, err := sc.boardDim()
	if err != nil {
		return nil, err
	}
	res, err := precompute.Run(ctx, sc.solver, dim)
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("cached best moves for %d positions (%d finished games seen) in %v",
		res.Searched, res.Terminal, res.Elapsed)), nil
}

type cacheStats struct {
	Gets uint64 `yaml:"gets" json:"gets"`
	Hits uint64 `yaml:"hits" json:"hits"`
	Sets uint64 `yaml:"sets" json:"sets"`
}

func (sc *ShellController) stats(cmd *shellcmd) (*Response, error) {
	gets, hits, sets := sc.store.Counts()
	out, err := yaml.Marshal(struct {
		Search minimax.Stats `yaml:"search"`
		Cache  cacheStats    `yaml:"cache"`
	}{sc.solver.Stats(), cacheStats{gets, hits, sets}})
	if err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(string(out), "\n")), nil
}

func (sc *ShellController) playOnline(ctx context.Context, peer *netplay.Peer, side board.Side) (*Response, error) {
	defer peer.Close()
	dim, err := sc.boardDim()
	if err != nil {
		return nil, err
	}
	k, err := sc.configuredKind(side, "")
	if err != nil {
		return nil, err
	}
	p, err := sc.player(k)
	if err != nil {
		return nil, err
	}
	sc.game = game.NewOnline(dim, p, side, peer)
	sc.game.SetDisplay(sc.out, sc)
	sc.showMessage(fmt.Sprintf("A player has joined your game! You play %v.", side.Mark()))
	r, err := sc.game.Play(ctx)
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("game over after %d moves", r.Plies)), nil
}

func (sc *ShellController) host(ctx context.Context, cmd *shellcmd) (*Response, error) {
	addr := sc.config.GetString(config.ConfigListenAddr)
	if len(cmd.args) > 0 {
		addr = cmd.args[0]
	}
	sc.showMessage("Waiting for connection.")
	peer, err := netplay.Host(ctx, addr)
	if err != nil {
		return nil, err
	}
	return sc.playOnline(ctx, peer, board.Maximizer)
}

func (sc *ShellController) join(ctx context.Context, cmd *shellcmd) (*Response, error) {
	addr := sc.config.GetString(config.ConfigHostAddr)
	if len(cmd.args) > 0 {
		addr = cmd.args[0]
	}
	sc.showMessage("Connecting.")
	peer, err := netplay.Join(ctx, addr, uint(sc.config.GetInt(config.ConfigDialAttempts)))
	if err != nil {
		return nil, err
	}
	return sc.playOnline(ctx, peer, board.Minimizer)
}

// set changes a setting for this session only.
func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		out, err := yaml.Marshal(sc.config.SanitizedSettings())
		if err != nil {
			return nil, err
		}
		return msg(strings.TrimRight(string(out), "\n")), nil
	}
	opt := cmd.args[0]
	if len(cmd.args) == 1 {
		return msg(fmt.Sprintf("%v", sc.config.Get(opt))), nil
	}
	value := strings.Join(cmd.args[1:], " ")
	switch opt {
	case config.ConfigPlayerX, config.ConfigPlayerO:
		if _, err := turnplayer.ParseKind(value); err != nil {
			return nil, err
		}
	case config.ConfigSearchLog:
		if err := sc.openSearchLog(value); err != nil {
			return nil, err
		}
	}
	sc.config.Set(opt, value)
	return msg("set " + opt + " to " + value), nil
}

func (sc *ShellController) setConfig(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil || len(cmd.args) < 2 {
		return nil, errors.New("usage: setconfig <key> <value>")
	}

	key := cmd.args[0]
	value := cmd.args[1]

	sc.config.Set(key, value)
	err := sc.config.Write()
	if err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return msg(fmt.Sprintf("set config %s to %s and saved to file", key, value)), nil
}

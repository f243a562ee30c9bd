package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/buendia/tictactoe/board"
	"github.com/buendia/tictactoe/cache"
	"github.com/buendia/tictactoe/config"
	"github.com/buendia/tictactoe/move"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	os.Exit(m.Run())
}

type scriptedInput struct {
	lines []string
}

func (s *scriptedInput) RequestMove(string) (string, error) {
	l := s.lines[0]
	s.lines = s.lines[1:]
	return l, nil
}

func testController(t *testing.T, lines ...string) (*ShellController, *bytes.Buffer) {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigDataPath, t.TempDir())
	var out bytes.Buffer
	sc := newShellController(cfg, cache.NewMemoryStore(), &out, &scriptedInput{lines: lines})
	return sc, &out
}

func run(t *testing.T, sc *ShellController, line string) (*Response, error) {
	t.Helper()
	cmd, err := extractFields(line)
	if err != nil {
		t.Fatal(err)
	}
	return sc.standardModeSwitch(t.Context(), cmd, make(chan os.Signal, 1))
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"bot -remote true",
			&shellcmd{"bot", nil, map[string]string{"remote": "true"}},
			nil},
		{"move 1 2",
			&shellcmd{"move", []string{"1", "2"}, map[string]string{}},
			nil},
		{"script 'my scripts/opening.lua' ",
			&shellcmd{"script", []string{"my scripts/opening.lua"}, map[string]string{}},
			nil},
		{"new minimax random -remote",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func TestBotSelfPlayDraws(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t)
	_, err := run(t, sc, "new minimax minimax")
	is.NoErr(err)
	r, err := run(t, sc, "play")
	is.NoErr(err)
	is.Equal(r.message, "game over after 9 moves")
	is.True(strings.Contains(out.String(), "It's a draw!"))
}

func TestHumanMovesThroughInput(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t, "1 1", "banana", "0 0", "0 0", "2 2")
	_, err := run(t, sc, "new human human")
	is.NoErr(err)
	for i := 0; i < 3; i++ {
		_, err = sc.game.PlayTurn(t.Context())
		is.NoErr(err)
	}
	is.Equal(sc.game.History(), []move.Move{move.New(1, 1), move.New(0, 0), move.New(2, 2)})
	is.True(strings.Contains(out.String(), "Wrong format"))
	is.True(strings.Contains(out.String(), "Invalid move"))
}

func TestMoveAndHint(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	_, err := run(t, sc, "new human human")
	is.NoErr(err)
	for _, m := range []string{"move 0 0", "move 0 1", "move 1 0", "move 1 1"} {
		_, err := run(t, sc, m)
		is.NoErr(err)
	}
	r, err := run(t, sc, "hint")
	is.NoErr(err)
	is.Equal(r.message, "best move for x: 2 0 (x wins)")

	_, err = run(t, sc, "move 0 0")
	is.True(err != nil) // occupied

	r, err = run(t, sc, "bot")
	is.NoErr(err)
	is.True(strings.HasSuffix(r.message, `Winner is "x"!`))
	is.Equal(sc.game.Board().FindWinner(), board.MarkA)
}

func TestNoGame(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	for _, line := range []string{"show", "move 1 1", "bot", "hint"} {
		_, err := run(t, sc, line)
		is.Equal(err, errNoGame)
	}
	_, err := run(t, sc, "frobnicate")
	is.True(err != nil)
}

func TestPrecomputeAndStats(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	r, err := run(t, sc, "precompute")
	is.NoErr(err)
	is.True(strings.HasPrefix(r.message, "cached best moves for 4520 positions (958 finished games seen)"))

	r, err = run(t, sc, "stats")
	is.NoErr(err)
	is.True(strings.Contains(r.message, "searches: 4520"))
	is.True(strings.Contains(r.message, "sets: 4520"))
}

func TestSet(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	r, err := run(t, sc, "set player-x random")
	is.NoErr(err)
	is.Equal(r.message, "set player-x to random")
	_, err = run(t, sc, "set player-o grandmaster")
	is.True(err != nil)

	r, err = run(t, sc, "set player-x")
	is.NoErr(err)
	is.Equal(r.message, "random")

	_, err = run(t, sc, "new")
	is.NoErr(err)
	is.Equal(sc.game.Player(board.Maximizer).Kind().String(), "random")

	r, err = run(t, sc, "setconfig bot-channel ttt.other")
	is.NoErr(err)
	_, err = os.Stat(filepath.Join(sc.config.GetString(config.ConfigDataPath), "config.yaml"))
	is.NoErr(err)
}

func TestScript(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	path := filepath.Join(t.TempDir(), "opening.lua")
	is.NoErr(os.WriteFile(path, []byte(`
ttt_new("human human")
ttt_move("0 0")
ttt_move("1 1")
local r = ttt_move("0 0")
if not string.find(r, "ERROR") then
  error("expected an error for an occupied cell")
end
local b = ttt_show()
if not string.find(b, "x to move") then
  error("unexpected board: " .. b)
end
local json = require("json")
local stats = ttt_stats()
if stats.cache.sets ~= 0 then
  error("no bot moves were played: " .. json.encode(stats))
end
`), 0o644))
	_, err := run(t, sc, "script "+path)
	is.NoErr(err)
	is.Equal(len(sc.game.History()), 2)
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	r, err := run(t, sc, "help")
	is.NoErr(err)
	is.True(strings.HasPrefix(r.message, "Commands:"))
	r, err = run(t, sc, "help online")
	is.NoErr(err)
	is.True(strings.Contains(r.message, "12480"))
	r, err = run(t, sc, "help chess")
	is.NoErr(err)
	is.Equal(r.message, "There is no help text for the topic chess")
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	c := NewShellCompleter(nil)
	matches, n := c.Do([]rune("pre"), 3)
	is.Equal(n, 3)
	is.Equal(matches, [][]rune{[]rune("compute")})

	line := []rune("new mini")
	matches, _ = c.Do(line, len(line))
	is.Equal(matches, [][]rune{[]rune("max")})

	line = []rune("set cache-backend ")
	matches, n = c.Do(line, len(line))
	is.Equal(n, 0)
	is.Equal(len(matches), 3)
}

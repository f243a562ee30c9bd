package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	is.Equal(cfg.GetString(ConfigCacheBackend), BackendSQLite)
	is.Equal(cfg.GetInt(ConfigBoardSize), 3)
	is.Equal(cfg.GetString(ConfigListenAddr), ":12480")
	is.Equal(cfg.GetDuration(ConfigBotTimeout), 10*time.Second)
	is.Equal(cfg.GetString(ConfigDataPath), DefaultDataPath())
}

func TestLoadFlagsAndArgs(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	cfg := &Config{}
	err := cfg.Load([]string{"--data-path", dir, "--cache-backend=fs", "--player-x", "random", "precompute"})
	is.NoErr(err)
	is.Equal(cfg.GetString(ConfigDataPath), dir)
	is.Equal(cfg.GetString(ConfigCacheBackend), BackendFS)
	is.Equal(cfg.GetString(ConfigPlayerX), "random")
	is.Equal(cfg.GetString(ConfigPlayerO), "minimax")
	is.Equal(cfg.Args(), []string{"precompute"})
}

func TestLoadEnvironment(t *testing.T) {
	is := is.New(t)
	t.Setenv("TICTACTOE_PLAYER_O", "random")
	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--data-path", t.TempDir()}))
	is.Equal(cfg.GetString(ConfigPlayerO), "random")
}

func TestWriteAndReadBack(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--data-path", dir}))
	cfg.Set(ConfigBotChannel, "ttt.test")
	is.NoErr(cfg.Write())

	_, err := os.Stat(filepath.Join(dir, "config.yaml"))
	is.NoErr(err)

	again := &Config{}
	is.NoErr(again.Load([]string{"--data-path", dir}))
	is.Equal(again.GetString(ConfigBotChannel), "ttt.test")
}

func TestLoadBadFlag(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	is.True(cfg.Load([]string{"--no-such-flag"}) != nil)
}

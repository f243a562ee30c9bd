package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDataPath     = "data-path"
	ConfigCacheBackend = "cache-backend"
	ConfigBoardSize    = "board-size"
	ConfigPlayerX      = "player-x"
	ConfigPlayerO      = "player-o"
	ConfigListenAddr   = "listen-addr"
	ConfigHostAddr     = "host-addr"
	ConfigDialAttempts = "dial-attempts"
	ConfigNatsURL      = "nats-url"
	ConfigBotChannel   = "bot-channel"
	ConfigBotTimeout   = "bot-timeout"
	ConfigSearchLog    = "search-log"
	ConfigDebug        = "debug"
	ConfigCPUProfile   = "cpu-profile"
)

const (
	BackendSQLite = "sqlite"
	BackendFS     = "fs"
	BackendMemory = "memory"
)

const configFileName = "config"

// Config wraps a viper instance. Values come, in increasing priority, from
// defaults, the config.yaml file in the data path, TICTACTOE_* environment
// variables, and command-line flags.
type Config struct {
	sync.Mutex
	*viper.Viper

	args []string
}

// DefaultDataPath is where the move cache lives unless told otherwise.
func DefaultDataPath() string {
	return filepath.Join(xdg.CacheHome, "tictactoe")
}

// DefaultConfig returns a config holding only the defaults. It does not read
// the environment, so tests get the same values everywhere.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDataPath, DefaultDataPath())
	c.SetDefault(ConfigCacheBackend, BackendSQLite)
	c.SetDefault(ConfigBoardSize, 3)
	c.SetDefault(ConfigPlayerX, "human")
	c.SetDefault(ConfigPlayerO, "minimax")
	c.SetDefault(ConfigListenAddr, ":12480")
	c.SetDefault(ConfigHostAddr, "localhost:12480")
	c.SetDefault(ConfigDialAttempts, 10)
	c.SetDefault(ConfigNatsURL, "nats://localhost:4222")
	c.SetDefault(ConfigBotChannel, "tictactoe.bot")
	c.SetDefault(ConfigBotTimeout, 10*time.Second)
	c.SetDefault(ConfigSearchLog, "")
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigCPUProfile, "")
}

// Load parses args, binds them over the environment and the config file,
// and remembers any positional arguments for Args.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	c.setDefaults()

	fs := pflag.NewFlagSet("tictactoe", pflag.ContinueOnError)
	fs.String(ConfigDataPath, DefaultDataPath(), "directory holding the move cache and config file")
	fs.String(ConfigCacheBackend, BackendSQLite, "move cache backend: sqlite, fs or memory")
	fs.Int(ConfigBoardSize, 3, "board dimension")
	fs.String(ConfigPlayerX, "human", "strategy for x: human, random or minimax (or 0, 1, 2)")
	fs.String(ConfigPlayerO, "minimax", "strategy for o: human, random or minimax (or 0, 1, 2)")
	fs.String(ConfigListenAddr, ":12480", "address to listen on when hosting an online game")
	fs.String(ConfigHostAddr, "localhost:12480", "address of the host when joining an online game")
	fs.Int(ConfigDialAttempts, 10, "how many times to try reaching the host")
	fs.String(ConfigNatsURL, "nats://localhost:4222", "NATS server for the bot service")
	fs.String(ConfigBotChannel, "tictactoe.bot", "NATS subject the bot listens on")
	fs.Duration(ConfigBotTimeout, 10*time.Second, "how long to wait for the bot service")
	fs.String(ConfigSearchLog, "", "write a YAML log of every slow-path search to this file")
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.args = fs.Args()

	c.SetEnvPrefix("tictactoe")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	c.SetConfigName(configFileName)
	c.SetConfigType("yaml")
	c.AddConfigPath(c.GetString(ConfigDataPath))
	err := c.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
		log.Debug().Str("path", c.GetString(ConfigDataPath)).Msg("no-config-file")
	}
	return nil
}

// Args returns the positional arguments left over after Load.
func (c *Config) Args() []string {
	return c.args
}

// Write saves the current settings to config.yaml in the data path.
func (c *Config) Write() error {
	c.Lock()
	defer c.Unlock()
	dir := c.GetString(ConfigDataPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return c.WriteConfigAs(filepath.Join(dir, configFileName+".yaml"))
}

// SanitizedSettings returns all settings in a form safe to log.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}

package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"

	"github.com/buendia/tictactoe/config"
)

// ShellCompleter completes command names, their options and a few known
// argument values.
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

type CommandMetadata struct {
	Options []string
	Args    []string
}

var playerKinds = []string{"human", "random", "minimax"}

var settingKeys = []string{
	config.ConfigDataPath, config.ConfigCacheBackend, config.ConfigBoardSize,
	config.ConfigPlayerX, config.ConfigPlayerO, config.ConfigListenAddr,
	config.ConfigHostAddr, config.ConfigDialAttempts, config.ConfigNatsURL,
	config.ConfigBotChannel, config.ConfigBotTimeout, config.ConfigSearchLog,
}

var commandMetadata = map[string]CommandMetadata{
	"new":       {Args: playerKinds},
	"play":      {Args: playerKinds},
	"bot":       {Options: []string{"-remote"}},
	"set":       {Args: settingKeys},
	"setconfig": {Args: settingKeys},
	"help":      {Args: []string{"play", "precompute", "online", "script"}},
}

var commandNames = []string{
	"new", "show", "move", "bot", "hint", "play", "precompute", "stats",
	"host", "join", "set", "setconfig", "script", "help", "exit",
}

// Do implements the readline.AutoCompleter interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}
		metadata := commandMetadata[fields[0]]
		switch {
		case lastCompleteField == "-remote":
			completions = []string{"true", "false"}
		case (fields[0] == "set" || fields[0] == "setconfig") &&
			(lastCompleteField == config.ConfigPlayerX || lastCompleteField == config.ConfigPlayerO):
			completions = playerKinds
		case (fields[0] == "set" || fields[0] == "setconfig") && lastCompleteField == config.ConfigCacheBackend:
			completions = []string{config.BackendSQLite, config.BackendFS, config.BackendMemory}
		case strings.HasPrefix(prefix, "-"):
			completions = metadata.Options
		case len(metadata.Args) > 0:
			completions = metadata.Args
		default:
			completions = metadata.Options
		}
	}

	matches := lo.FilterMap(completions, func(completion string, _ int) ([]rune, bool) {
		if !strings.HasPrefix(completion, prefix) {
			return nil, false
		}
		// only the part that still needs typing
		return []rune(completion[len(prefix):]), true
	})
	return matches, len(prefix)
}

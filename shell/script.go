package shell

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"
)

const luaShellGlobal = "ttt_shell"

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal(luaShellGlobal)
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// luaCommand exposes a shell command to Lua. The Lua function takes the
// argument string and returns the command's output, or "ERROR: ..." on
// failure.
func luaCommand(name string, run func(sc *ShellController, cmd *shellcmd) (*Response, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		lv := L.OptString(1, "")
		sc := getShell(L)
		cmd, err := extractFields(name + " " + lv)
		if err != nil {
			log.Err(err).Msg("error-parsing-" + name)
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		r, err := run(sc, cmd)
		if err != nil {
			log.Err(err).Msg("error-executing-" + name)
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		out := ""
		if r != nil {
			out = r.message
		}
		L.Push(lua.LString(out))
		// return number of results pushed to stack.
		return 1
	}
}

var luaCommands = map[string]func(sc *ShellController, cmd *shellcmd) (*Response, error){
	"new":  (*ShellController).newGame,
	"move": (*ShellController).move,
	"bot":  (*ShellController).botMove,
	"show": (*ShellController).show,
	"hint": (*ShellController).hint,
}

// Stats returns the search and cache counters as a Lua table.
func Stats(L *lua.LState) int {
	sc := getShell(L)
	gets, hits, sets := sc.store.Counts()
	data, err := json.Marshal(map[string]any{
		"search": sc.solver.Stats(),
		"cache":  cacheStats{Gets: gets, Hits: hits, Sets: sets},
	})
	if err != nil {
		log.Err(err).Msg("error-executing-stats")
		return 0
	}
	v, err := luajson.Decode(L, data)
	if err != nil {
		log.Err(err).Msg("error-decoding-stats")
		return 0
	}
	L.Push(v)
	return 1
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal(luaShellGlobal, lsc)
	luajson.Preload(L)
	L.SetGlobal("ttt_stats", L.NewFunction(Stats))
	for name, run := range luaCommands {
		L.SetGlobal("ttt_"+name, L.NewFunction(luaCommand(name, run)))
	}

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return nil, nil
}

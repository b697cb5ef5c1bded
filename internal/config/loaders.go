package config

import (
	"fmt"
	"math"
	"os"

	lua "github.com/yuin/gopher-lua"
	"gopkg.in/yaml.v3"
)

// Loader produces the raw exported value of a located configuration file.
// The value is fed through source normalization afterwards, so a Loader may
// return either a plain mapping or a ConfigFunc.
type Loader interface {
	Load(path string) (any, error)
}

// YAMLLoader loads the static configuration form.
type YAMLLoader struct{}

func (YAMLLoader) Load(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in %s: %w", path, err)
	}
	if tree == nil {
		tree = map[string]any{}
	}
	return tree, nil
}

// LuaLoader loads the executable configuration form. The loaded value is a
// ConfigFunc: the script runs once per resolution with the globals phase
// (string) and defaultConfig (table) and must return a table.
type LuaLoader struct{}

func (LuaLoader) Load(path string) (any, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	script := string(src)

	var fn ConfigFunc = func(phase string, ctx FuncContext) any {
		L := lua.NewState()
		defer L.Close()

		L.SetGlobal("phase", lua.LString(phase))
		L.SetGlobal("defaultConfig", goToLua(L, ctx.DefaultConfig))

		if err := L.DoString(script); err != nil {
			return fmt.Errorf("failed to run config script %s: %w", path, err)
		}
		return luaToGo(L.Get(-1))
	}
	return fn, nil
}

// goToLua converts the mapping form produced by the engine into Lua values.
func goToLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []any:
		t := L.NewTable()
		for _, e := range val {
			t.Append(goToLua(L, e))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for k, e := range val {
			t.RawSetString(k, goToLua(L, e))
		}
		return t
	}
	return lua.LString(fmt.Sprintf("%v", v))
}

// luaToGo converts a script's return value into the generic mapping form.
// Tables with purely sequential integer keys become sequences; everything
// else becomes a string-keyed mapping.
func luaToGo(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == math.Trunc(f) {
			return int(f)
		}
		return f
	case lua.LString:
		return string(val)
	case *lua.LTable:
		entries := 0
		sequential := true
		val.ForEach(func(k, _ lua.LValue) {
			entries++
			if _, isNum := k.(lua.LNumber); !isNum {
				sequential = false
			}
		})
		if sequential && entries > 0 {
			seq := make([]any, 0, entries)
			for i := 1; i <= entries; i++ {
				seq = append(seq, luaToGo(val.RawGetInt(i)))
			}
			return seq
		}
		rec := make(map[string]any, entries)
		val.ForEach(func(k, e lua.LValue) {
			rec[lua.LVAsString(k)] = luaToGo(e)
		})
		return rec
	}
	return nil
}

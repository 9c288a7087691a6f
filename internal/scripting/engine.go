package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for structure behavior scripts.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
// Core scripts load first, then the optional building overrides.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	vm.SetGlobal("THINK_INTERVAL_MS", lua.LNumber(1000))

	e := &Engine{vm: vm, log: log}
	vm.SetGlobal("log_info", vm.NewFunction(e.luaLogInfo))

	for _, sub := range []string{"core", "building"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

func (e *Engine) luaLogInfo(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}

// Has reports whether a global Lua function is defined.
func (e *Engine) Has(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// StructureContext is the pre-packed view of one structure passed to scripts.
type StructureContext struct {
	Piece      string
	Health     int
	MaxHealth  int
	Owner      int32
	AgeSeconds float64
}

func (e *Engine) structureTable(ctx StructureContext) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("piece", lua.LString(ctx.Piece))
	t.RawSetString("health", lua.LNumber(ctx.Health))
	t.RawSetString("max_health", lua.LNumber(ctx.MaxHealth))
	t.RawSetString("owner", lua.LNumber(ctx.Owner))
	t.RawSetString("age", lua.LNumber(ctx.AgeSeconds))
	return t
}

// StructureThink calls the Lua structure_think function and returns the health
// decay it asks for. Missing function, errors and negative results yield 0.
func (e *Engine) StructureThink(ctx StructureContext) int {
	fn := e.vm.GetGlobal("structure_think")
	if fn == lua.LNil {
		return 0
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, e.structureTable(ctx)); err != nil {
		e.log.Error("lua structure_think error", zap.Error(err))
		return 0
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	decay := int(lua.LVAsNumber(result))
	if decay < 0 {
		return 0
	}
	return decay
}

// StructurePain notifies the optional structure_pain hook of damage taken.
func (e *Engine) StructurePain(ctx StructureContext, attacker int32, amount int) {
	fn := e.vm.GetGlobal("structure_pain")
	if fn == lua.LNil {
		return
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, e.structureTable(ctx), lua.LNumber(attacker), lua.LNumber(amount)); err != nil {
		e.log.Error("lua structure_pain error", zap.Error(err))
	}
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}

package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/gritfps/sim/internal/data"
	"github.com/gritfps/sim/internal/world"
)

// Engine wraps a single gopher-lua VM for gameplay tuning. Go owns detection
// and execution; Lua owns the numbers. Single-goroutine access only (game
// loop). Every hook has a built-in Go fallback so a missing or broken script
// never takes a frame down.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all .lua files from scriptsDir.
// A missing directory is fine: the engine then serves fallbacks only.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load tuning scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) Close() {
	e.vm.Close()
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

// DoString executes a script chunk directly. Test hook.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// ApplyTuning overlays the optional global `tuning` table onto the default
// definition tables. Unknown keys are logged and skipped; absent keys keep
// their defaults.
func (e *Engine) ApplyTuning(t *data.Tables) {
	top := e.vm.GetGlobal("tuning")
	tbl, ok := top.(*lua.LTable)
	if !ok {
		return // no tuning script loaded
	}

	if wt, ok := tbl.RawGetString("weapons").(*lua.LTable); ok {
		wt.ForEach(func(k, v lua.LValue) {
			name := lua.LVAsString(k)
			kind, found := parseWeaponKind(name)
			if !found {
				e.log.Warn("tuning: unknown weapon kind", zap.String("kind", name))
				return
			}
			def := t.Weapons[kind]
			if row, ok := v.(*lua.LTable); ok {
				if n := row.RawGetString("cooldown"); n != lua.LNil {
					def.Cooldown = float64(lua.LVAsNumber(n))
				}
				if n := row.RawGetString("ammo"); n != lua.LNil {
					def.InitialAmmo = int(lua.LVAsNumber(n))
				}
				if n := row.RawGetString("recoil"); n != lua.LNil {
					def.Recoil = float32(lua.LVAsNumber(n))
				}
			}
			t.Weapons[kind] = def
		})
	}

	if it, ok := tbl.RawGetString("items").(*lua.LTable); ok {
		it.ForEach(func(k, v lua.LValue) {
			name := lua.LVAsString(k)
			kind, found := world.ParseItemKind(name)
			if !found {
				e.log.Warn("tuning: unknown item kind", zap.String("kind", name))
				return
			}
			def := t.Items[kind]
			if row, ok := v.(*lua.LTable); ok {
				if n := row.RawGetString("heal"); n != lua.LNil {
					def.Heal = float32(lua.LVAsNumber(n))
				}
				if n := row.RawGetString("ammo"); n != lua.LNil {
					def.Ammo = int(lua.LVAsNumber(n))
				}
				if n := row.RawGetString("respawn_delay"); n != lua.LNil {
					def.RespawnDelay = float32(lua.LVAsNumber(n))
				}
			}
			t.Items[kind] = def
		})
	}

	if bt, ok := tbl.RawGetString("bots").(*lua.LTable); ok {
		bt.ForEach(func(k, v lua.LValue) {
			name := lua.LVAsString(k)
			kind, found := world.ParseBotKind(name)
			if !found {
				e.log.Warn("tuning: unknown bot kind", zap.String("kind", name))
				return
			}
			def := t.Bots[kind]
			if row, ok := v.(*lua.LTable); ok {
				if n := row.RawGetString("health"); n != lua.LNil {
					def.Health = float32(lua.LVAsNumber(n))
				}
				if n := row.RawGetString("walk_speed"); n != lua.LNil {
					def.WalkSpeed = float32(lua.LVAsNumber(n))
				}
				if n := row.RawGetString("jump_velocity"); n != lua.LNil {
					def.JumpVelocity = float32(lua.LVAsNumber(n))
				}
			}
			t.Bots[kind] = def
		})
	}
}

// DamageContext holds pre-packed data for a damage split calculation.
type DamageContext struct {
	Amount float32
	Armor  float32
}

// DamageResult is the armor/health split returned by the Lua formula.
type DamageResult struct {
	HealthDamage float32
	ArmorDamage  float32
}

// CalcDamage calls the Lua calc_damage function, falling back to the built-in
// armor-absorption split when the script is missing or fails.
func (e *Engine) CalcDamage(ctx DamageContext) DamageResult {
	fn := e.vm.GetGlobal("calc_damage")
	if fn == lua.LNil {
		return fallbackDamage(ctx)
	}

	t := e.vm.NewTable()
	t.RawSetString("amount", lua.LNumber(ctx.Amount))
	t.RawSetString("armor", lua.LNumber(ctx.Armor))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua calc_damage error", zap.Error(err))
		return fallbackDamage(ctx)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua calc_damage returned non-table")
		return fallbackDamage(ctx)
	}
	return DamageResult{
		HealthDamage: float32(lua.LVAsNumber(rt.RawGetString("health_damage"))),
		ArmorDamage:  float32(lua.LVAsNumber(rt.RawGetString("armor_damage"))),
	}
}

// fallbackDamage soaks a fixed share of the hit into armor while any remains.
func fallbackDamage(ctx DamageContext) DamageResult {
	absorbed := ctx.Amount * data.ArmorAbsorb
	if absorbed > ctx.Armor {
		absorbed = ctx.Armor
	}
	if absorbed < 0 {
		absorbed = 0
	}
	return DamageResult{
		HealthDamage: ctx.Amount - absorbed,
		ArmorDamage:  absorbed,
	}
}

func parseWeaponKind(s string) (world.WeaponKind, bool) {
	switch s {
	case "ak47":
		return world.WeaponAK47, true
	case "m4":
		return world.WeaponM4, true
	case "plasma_gun":
		return world.WeaponPlasmaGun, true
	case "rocket_launcher":
		return world.WeaponRocketLauncher, true
	}
	return 0, false
}

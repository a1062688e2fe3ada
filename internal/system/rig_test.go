package system

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/gritfps/sim/internal/core/arena"
	"github.com/gritfps/sim/internal/data"
	"github.com/gritfps/sim/internal/engine"
	"github.com/gritfps/sim/internal/scripting"
	"github.com/gritfps/sim/internal/world"
)

const frame = time.Second / 60

// rig wires a headless engine, a fresh state and every system for direct,
// phase-by-phase driving in tests.
type rig struct {
	state  *world.State
	eng    *engine.Headless
	tables *data.Tables

	snapshot    *SnapshotSystem
	players     *PlayerSystem
	bots        *BotSystem
	weapons     *WeaponSystem
	projectiles *ProjectileSystem
	pickups     *PickupSystem
	events      *EventSystem
	cleanup     *CleanupSystem
}

func newRig(t *testing.T) *rig {
	t.Helper()
	eng := engine.NewHeadless()
	svc := eng.Services()
	st := world.NewState()
	tables := data.Defaults()

	script, err := scripting.NewEngine(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("scripting engine: %v", err)
	}
	t.Cleanup(script.Close)

	return &rig{
		state:       st,
		eng:         eng,
		tables:      tables,
		snapshot:    NewSnapshotSystem(st, svc),
		players:     NewPlayerSystem(st, svc),
		bots:        NewBotSystem(st, svc, tables),
		weapons:     NewWeaponSystem(st, svc, tables),
		projectiles: NewProjectileSystem(st, svc, tables),
		pickups:     NewPickupSystem(st, svc),
		events:      NewEventSystem(st, svc, tables, script, zap.NewNop()),
		cleanup:     NewCleanupSystem(st, svc),
	}
}

// spawnBot places a grounded bot directly, bypassing the SpawnBot event.
func (r *rig) spawnBot(kind world.BotKind, pos engine.Vec3) arena.Handle {
	def := r.tables.Bots[kind]
	pos.Y = def.BodyRadius
	body := r.eng.CreateBody(pos, def.BodyRadius)
	visual := r.eng.CreateNode("bot")
	a := world.Actor{
		Kind: world.ActorBot,
		Character: world.Character{
			Health: def.Health, MaxHealth: def.Health,
			Body: body, Visual: visual, Position: pos,
			Respawns: true,
		},
		Bot: &world.BotState{Kind: kind},
	}
	a.AttachSender(r.state.Sender())
	return r.state.Actors.Spawn(a)
}

func (r *rig) spawnPlayer(pos engine.Vec3) arena.Handle {
	pos.Y = data.PlayerBodyRadius
	body := r.eng.CreateBody(pos, data.PlayerBodyRadius)
	visual := r.eng.CreateNode("player")
	a := world.Actor{
		Kind: world.ActorPlayer,
		Character: world.Character{
			Health: data.PlayerHealth, MaxHealth: data.PlayerHealth,
			Body: body, Visual: visual, Position: pos,
			Respawns: true,
		},
		Player: &world.PlayerState{},
	}
	a.AttachSender(r.state.Sender())
	h := r.state.Actors.Spawn(a)
	r.state.Player = h
	return h
}

// drainEvents collects everything currently queued, in order.
func (r *rig) drainEvents() []world.Event {
	var out []world.Event
	for {
		ev, ok := r.state.Queue.TryReceive()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

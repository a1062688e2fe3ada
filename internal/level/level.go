package level

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gritfps/sim/internal/core/arena"
	"github.com/gritfps/sim/internal/core/event"
	coresys "github.com/gritfps/sim/internal/core/system"
	"github.com/gritfps/sim/internal/data"
	"github.com/gritfps/sim/internal/engine"
	"github.com/gritfps/sim/internal/scripting"
	"github.com/gritfps/sim/internal/system"
	"github.com/gritfps/sim/internal/world"
)

// Level owns one running match: the entity state, the phase runner and the
// engine services. Update is single-goroutine (the game loop); HUD and
// Intents are the only surfaces safe to touch from other goroutines.
type Level struct {
	state  *world.State
	runner *coresys.Runner
	svc    engine.Services
	tables *data.Tables
	log    *zap.Logger

	mu  sync.Mutex
	hud world.HUDState
}

// New builds a level from a definition: markers become entities, the player
// is spawned at its marker and armed, and bots arrive through the queue on
// the first frame like any other spawn.
func New(def *Definition, svc engine.Services, tables *data.Tables, script *scripting.Engine, log *zap.Logger) (*Level, error) {
	st := world.NewState()
	st.FragLimit = def.FragLimit
	for _, sp := range def.SpawnPoints {
		st.SpawnPoints = append(st.SpawnPoints, sp.Vec3())
	}

	l := &Level{
		state:  st,
		runner: newRunner(st, svc, tables, script, log),
		svc:    svc,
		tables: tables,
		log:    log,
	}

	if err := l.placeMarkers(def); err != nil {
		return nil, err
	}
	l.spawnPlayer(def.PlayerSpawn.Vec3())

	log.Info("level loaded",
		zap.String("name", def.Name),
		zap.Int("bots", len(def.Bots)),
		zap.Int("items", len(def.Items)),
		zap.Int("jump_pads", len(def.JumpPads)),
	)
	return l, nil
}

// Resume wraps a state restored from a save. Visual and physical resources
// referenced by the dump are re-created fresh; the restored handles stay
// valid because the arenas preserve slot layout.
func Resume(st *world.State, svc engine.Services, tables *data.Tables, script *scripting.Engine, log *zap.Logger) *Level {
	l := &Level{
		state:  st,
		runner: newRunner(st, svc, tables, script, log),
		svc:    svc,
		tables: tables,
		log:    log,
	}
	l.rebuildResources()
	return l
}

func newRunner(st *world.State, svc engine.Services, tables *data.Tables, script *scripting.Engine, log *zap.Logger) *coresys.Runner {
	r := coresys.NewRunner()
	r.Register(system.NewSnapshotSystem(st, svc))
	r.Register(system.NewPlayerSystem(st, svc))
	r.Register(system.NewBotSystem(st, svc, tables))
	r.Register(system.NewWeaponSystem(st, svc, tables))
	r.Register(system.NewProjectileSystem(st, svc, tables))
	r.Register(system.NewPickupSystem(st, svc))
	r.Register(system.NewEventSystem(st, svc, tables, script, log))
	r.Register(system.NewCleanupSystem(st, svc))
	return r
}

func (l *Level) placeMarkers(def *Definition) error {
	sender := l.state.Sender()

	for _, m := range def.Bots {
		kind, ok := world.ParseBotKind(m.Kind)
		if !ok {
			return fmt.Errorf("level: unknown bot kind %q", m.Kind)
		}
		sender.Send(world.SpawnBot{Kind: kind, Position: m.Position.Vec3()})
	}

	for _, m := range def.Items {
		kind, ok := world.ParseItemKind(m.Kind)
		if !ok {
			return fmt.Errorf("level: unknown item kind %q", m.Kind)
		}
		visual := l.svc.Scene.CreateNode("item_" + m.Kind)
		l.svc.Scene.SetLocalPosition(visual, m.Position.Vec3())
		l.state.Items.Spawn(world.Item{
			Kind:     kind,
			Position: m.Position.Vec3(),
			Visual:   visual,
		})
	}

	for _, m := range def.JumpPads {
		trigger := l.svc.Physics.CreateTrigger(m.Position.Vec3(), m.Radius)
		l.state.JumpPads.Spawn(world.JumpPad{
			Trigger: trigger,
			Force:   m.Force.Vec3(),
		})
	}
	return nil
}

func (l *Level) spawnPlayer(pos engine.Vec3) {
	body := l.svc.Physics.CreateBody(pos, data.PlayerBodyRadius)
	visual := l.svc.Scene.CreateNode("player")
	l.svc.Scene.SetLocalPosition(visual, pos)

	actor := world.Actor{
		Kind: world.ActorPlayer,
		Character: world.Character{
			Health:    data.PlayerHealth,
			MaxHealth: data.PlayerHealth,
			Body:      body,
			Visual:    visual,
			Position:  pos,
			Respawns:  true,
		},
		Player: &world.PlayerState{},
	}
	actor.AttachSender(l.state.Sender())
	h := l.state.Actors.Spawn(actor)
	l.state.Player = h

	l.state.Sender().Send(world.GiveWeapon{Actor: h, Kind: world.WeaponAK47})
}

// rebuildResources re-creates bodies and visuals for every live entity in a
// restored state. IDs in the dump belong to the previous process, so each
// record gets fresh ones.
func (l *Level) rebuildResources() {
	l.state.Actors.Each(func(_ arena.Handle, a *world.Actor) {
		radius := float32(data.PlayerBodyRadius)
		name := "player"
		if a.Bot != nil {
			radius = l.tables.Bots[a.Bot.Kind].BodyRadius
			name = "bot_" + a.Bot.Kind.String()
		}
		a.Body = l.svc.Physics.CreateBody(a.Position, radius)
		a.Visual = l.svc.Scene.CreateNode(name)
		l.svc.Scene.SetLocalPosition(a.Visual, a.Position)
	})

	l.state.Weapons.Each(func(_ arena.Handle, w *world.Weapon) {
		w.Visual = l.svc.Scene.CreateNode("weapon_" + w.Kind.String())
		w.Muzzle = 0
		w.LaserDot = l.svc.Scene.CreateNode("laser_dot")
		l.svc.Scene.SetVisible(w.LaserDot, false)
		if owner, ok := l.state.Actors.Get(w.Owner); ok && owner.Visual != 0 {
			l.svc.Scene.Reparent(w.Visual, owner.Visual)
		}
	})

	l.state.Projectiles.Each(func(_ arena.Handle, p *world.Projectile) {
		p.Visual = l.svc.Scene.CreateNode("projectile")
		l.svc.Scene.SetLocalPosition(p.Visual, p.Position)
	})

	l.state.Items.Each(func(_ arena.Handle, it *world.Item) {
		it.Visual = l.svc.Scene.CreateNode("item_" + it.Kind.String())
		l.svc.Scene.SetLocalPosition(it.Visual, it.Position)
		l.svc.Scene.SetVisible(it.Visual, !it.PickedUp)
	})

	l.state.JumpPads.Each(func(_ arena.Handle, pad *world.JumpPad) {
		// Pad geometry is not stored in the dump; a resumed pad keeps its
		// force but needs the level file to restore its trigger volume.
		pad.Trigger = 0
	})
}

// Update advances one frame: all four phases, then the physics step.
func (l *Level) Update(dt time.Duration) {
	l.runner.Tick(dt)
	l.svc.Physics.Step(float32(dt.Seconds()))

	l.mu.Lock()
	l.hud = l.state.HUD()
	l.mu.Unlock()
}

// HUD returns the last published presentation read model. Safe from any
// goroutine.
func (l *Level) HUD() world.HUDState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hud
}

// Intents returns a producer endpoint for externally-sourced events (input
// bridges, observers). Safe from any goroutine.
func (l *Level) Intents() event.Sender[world.Event] {
	return l.state.Sender()
}

// State exposes the entity state for persistence. Game-loop goroutine only.
func (l *Level) State() *world.State { return l.state }

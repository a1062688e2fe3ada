package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/gritfps/sim/internal/core/arena"
	coresys "github.com/gritfps/sim/internal/core/system"
	"github.com/gritfps/sim/internal/data"
	"github.com/gritfps/sim/internal/engine"
	"github.com/gritfps/sim/internal/scripting"
	"github.com/gritfps/sim/internal/world"
)

// muzzleOffset is the shot anchor relative to a weapon visual.
var muzzleOffset = engine.Vec3{Z: 0.5}

// weaponDropDistance is how far ahead of the actor a dropped weapon lands.
// It exceeds the pickup radius so a drop never bounces straight back.
const weaponDropDistance = 2.0

// EventSystem drains the queue to exhaustion every frame and applies each
// intent, strictly in send order. Handlers run after all update-phase systems,
// so they are the only place where arbitrary cross-entity mutation and entity
// creation/destruction are allowed. A handler whose target handle has gone
// stale drops the event; an event it raises itself lands later in the same
// drain. Phase 2 (Events).
type EventSystem struct {
	state  *world.State
	svc    engine.Services
	tables *data.Tables
	script *scripting.Engine
	log    *zap.Logger
}

func NewEventSystem(st *world.State, svc engine.Services, tables *data.Tables, script *scripting.Engine, log *zap.Logger) *EventSystem {
	return &EventSystem{state: st, svc: svc, tables: tables, script: script, log: log}
}

func (s *EventSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *EventSystem) Update(time.Duration) {
	for {
		ev, ok := s.state.Queue.TryReceive()
		if !ok {
			return
		}
		s.apply(ev)
	}
}

func (s *EventSystem) apply(ev world.Event) {
	switch e := ev.(type) {
	case world.GiveWeapon:
		s.giveWeapon(e)
	case world.DropWeapon:
		s.dropWeapon(e)
	case world.SpawnBot:
		s.spawnBot(e)
	case world.RemoveActor:
		s.removeActor(e)
	case world.RespawnActor:
		s.respawnActor(e)
	case world.GiveItem:
		s.giveItem(e)
	case world.PickUpItem:
		s.pickUpItem(e)
	case world.PickUpWeapon:
		s.pickUpWeapon(e)
	case world.ShootWeapon:
		s.shootWeapon(e)
	case world.CreateProjectile:
		s.createProjectile(e)
	case world.DamageActor:
		s.damageActor(e)
	case world.PlaySound:
		s.svc.Audio.Play(e.Name, e.Position)
	case world.ShowWeapon:
		if w, ok := s.state.Weapons.Get(e.Weapon); ok && w.Visual != 0 {
			s.svc.Scene.SetVisible(w.Visual, e.Show)
		}
	case world.StartNewGame:
		s.startNewGame()
	case world.SetMusicVolume:
		s.svc.Audio.SetMusicVolume(e.Volume)
	default:
		s.log.Error("unhandled event", zap.Any("event", ev))
	}
}

func (s *EventSystem) giveWeapon(e world.GiveWeapon) {
	a, ok := s.state.Actors.Get(e.Actor)
	if !ok {
		return
	}
	def, ok := s.tables.Weapons[e.Kind]
	if !ok {
		s.log.Error("give weapon: no definition", zap.String("kind", e.Kind.String()))
		return
	}

	visual := s.svc.Scene.CreateNode("weapon_" + e.Kind.String())
	muzzle := s.svc.Scene.CreateNode("muzzle")
	s.svc.Scene.Reparent(muzzle, visual)
	s.svc.Scene.SetLocalPosition(muzzle, muzzleOffset)
	dot := s.svc.Scene.CreateNode("laser_dot")
	s.svc.Scene.SetVisible(dot, false)

	wh := s.state.Weapons.Spawn(world.Weapon{
		Kind: e.Kind,
		// An expired cooldown, so the first trigger pull works right away.
		LastShotTime: s.state.Time - def.Cooldown,
		Owner:        e.Actor,
		Ammo:         def.InitialAmmo,
		Visual:       visual,
		Muzzle:       muzzle,
		LaserDot:     dot,
	})

	// Holster the previous selection before the new weapon takes its place.
	if prev, ok := s.state.Weapons.Get(a.CurrentWeaponHandle()); ok && prev.Visual != 0 {
		s.svc.Scene.SetVisible(prev.Visual, false)
	}

	if a.Visual != 0 {
		s.svc.Scene.Reparent(visual, a.Visual)
		s.svc.Scene.SetLocalPosition(visual, weaponLocalOffset)
	}
	a.AddWeapon(wh)
}

func (s *EventSystem) dropWeapon(e world.DropWeapon) {
	a, ok := s.state.Actors.Get(e.Actor)
	if !ok {
		return
	}
	wh := a.CurrentWeaponHandle()
	w, ok := s.state.Weapons.Get(wh)
	if !ok {
		return
	}

	for i, h := range a.Weapons {
		if h == wh {
			a.Weapons = append(a.Weapons[:i], a.Weapons[i+1:]...)
			break
		}
	}
	if a.CurrentWeapon >= len(a.Weapons) {
		a.CurrentWeapon = len(a.Weapons) - 1
		if a.CurrentWeapon < 0 {
			a.CurrentWeapon = 0
		}
	}

	w.Owner = arena.None
	if w.Visual != 0 {
		s.svc.Scene.Reparent(w.Visual, 0)
		s.svc.Scene.SetLocalPosition(w.Visual, s.dropPosition(a))
		s.svc.Scene.SetVisible(w.Visual, true)
	}
	if next, ok := s.state.Weapons.Get(a.CurrentWeaponHandle()); ok && next.Visual != 0 {
		s.svc.Scene.SetVisible(next.Visual, true)
	}
}

// dropPosition tosses a dropped weapon ahead of the actor, past the pickup
// radius, so the proximity scan does not hand it straight back.
func (s *EventSystem) dropPosition(a *world.Actor) engine.Vec3 {
	dir := engine.Vec3{Z: 1}
	if a.Visual != 0 {
		look := s.svc.Scene.LookVector(a.Visual)
		dir = engine.Vec3{X: look.X, Z: look.Z}.NormalizedOr(dir)
	}
	return a.Position.Add(dir.Scale(weaponDropDistance))
}

func (s *EventSystem) pickUpWeapon(e world.PickUpWeapon) {
	w, ok := s.state.Weapons.Get(e.Weapon)
	if !ok || !w.Owner.IsNone() {
		return
	}
	a, ok := s.state.Actors.Get(e.Actor)
	if !ok || a.IsDead() {
		return
	}

	if prev, ok := s.state.Weapons.Get(a.CurrentWeaponHandle()); ok && prev.Visual != 0 {
		s.svc.Scene.SetVisible(prev.Visual, false)
	}

	w.Owner = e.Actor
	if w.Visual != 0 && a.Visual != 0 {
		s.svc.Scene.Reparent(w.Visual, a.Visual)
		s.svc.Scene.SetLocalPosition(w.Visual, weaponLocalOffset)
		s.svc.Scene.SetVisible(w.Visual, true)
	}
	a.AddWeapon(e.Weapon)
	s.svc.Audio.Play("weapon_pickup", a.Position)
}

func (s *EventSystem) spawnBot(e world.SpawnBot) {
	def, ok := s.tables.Bots[e.Kind]
	if !ok {
		s.log.Error("spawn bot: no definition", zap.String("kind", e.Kind.String()))
		return
	}

	body := s.svc.Physics.CreateBody(e.Position, def.BodyRadius)
	visual := s.svc.Scene.CreateNode("bot_" + e.Kind.String())
	s.svc.Scene.SetLocalPosition(visual, e.Position)

	actor := world.Actor{
		Kind: world.ActorBot,
		Character: world.Character{
			Health:    def.Health,
			MaxHealth: def.Health,
			Body:      body,
			Visual:    visual,
			Position:  e.Position,
			Respawns:  true,
		},
		Bot: &world.BotState{Kind: e.Kind},
	}
	actor.AttachSender(s.state.Sender())
	s.state.Actors.Spawn(actor)
	s.log.Info("bot spawned", zap.String("kind", e.Kind.String()))
}

func (s *EventSystem) removeActor(e world.RemoveActor) {
	a, ok := s.state.Actors.Get(e.Actor)
	if !ok {
		return
	}

	// Owned weapons fall to the ground; the arena free hook clears their
	// Owner handles, the scene work is ours.
	for _, wh := range a.Weapons {
		if w, ok := s.state.Weapons.Get(wh); ok && w.Visual != 0 {
			s.svc.Scene.Reparent(w.Visual, 0)
			s.svc.Scene.SetLocalPosition(w.Visual, a.Position)
			s.svc.Scene.SetVisible(w.Visual, true)
		}
	}

	if a.Body != 0 {
		s.svc.Physics.RemoveBody(a.Body)
	}
	if a.Visual != 0 {
		s.svc.Scene.RemoveNode(a.Visual)
	}
	s.state.Actors.Free(e.Actor)
}

func (s *EventSystem) respawnActor(e world.RespawnActor) {
	a, ok := s.state.Actors.Get(e.Actor)
	if !ok {
		return
	}

	spawn := s.bestSpawnPoint(e.Actor)
	a.Health = a.MaxHealth
	a.Armor = 0
	a.DeathHandled = false
	a.Position = spawn
	if a.Bot != nil {
		a.Bot.LastAttacker = arena.None
		a.Bot.Locomotion = world.LocoIdle
		a.Bot.Combat = world.CombatAim
	}
	if a.Body != 0 {
		s.svc.Physics.SetPosition(a.Body, spawn)
		s.svc.Physics.SetVelocity(a.Body, engine.Vec3{})
	}
	if a.Visual != 0 {
		s.svc.Scene.SetLocalPosition(a.Visual, spawn)
	}
	s.svc.Audio.Play("respawn", spawn)
}

// bestSpawnPoint picks the point farthest from every living actor except the
// one being placed. Falls back to the origin on an empty point list.
func (s *EventSystem) bestSpawnPoint(exclude arena.Handle) engine.Vec3 {
	var (
		best      engine.Vec3
		bestScore = float32(-1)
	)
	for _, sp := range s.state.SpawnPoints {
		score := float32(1e30)
		s.state.Actors.Each(func(h arena.Handle, a *world.Actor) {
			if h == exclude || a.IsDead() {
				return
			}
			if d := sp.Distance(a.Position); d < score {
				score = d
			}
		})
		if score > bestScore {
			bestScore = score
			best = sp
		}
	}
	return best
}

func (s *EventSystem) giveItem(e world.GiveItem) {
	a, ok := s.state.Actors.Get(e.Actor)
	if !ok {
		return
	}
	s.applyItemEffect(a, e.Kind)
}

func (s *EventSystem) pickUpItem(e world.PickUpItem) {
	it, ok := s.state.Items.Get(e.Item)
	if !ok || !it.Available() {
		return
	}
	a, ok := s.state.Actors.Get(e.Actor)
	if !ok {
		return
	}
	def := s.tables.Items[it.Kind]

	it.PickedUp = true
	it.RespawnIn = def.RespawnDelay
	if it.Visual != 0 {
		s.svc.Scene.SetVisible(it.Visual, false)
	}
	s.applyItemEffect(a, it.Kind)
	s.svc.Audio.Play(def.PickupSound, it.Position)
}

// applyItemEffect resolves an item kind against an actor: medkits heal, ammo
// boxes load the first owned weapon of the matching kind. Ammo for a weapon
// the actor does not carry is silently dropped.
func (s *EventSystem) applyItemEffect(a *world.Actor, kind world.ItemKind) {
	def, ok := s.tables.Items[kind]
	if !ok {
		s.log.Error("item effect: no definition", zap.String("kind", kind.String()))
		return
	}
	if def.Heal > 0 {
		a.Heal(def.Heal)
	}
	if def.Ammo > 0 {
		for _, wh := range a.Weapons {
			if w, ok := s.state.Weapons.Get(wh); ok && w.Kind == def.AmmoKind {
				w.Ammo += def.Ammo
				break
			}
		}
	}
}

func (s *EventSystem) shootWeapon(e world.ShootWeapon) {
	w, ok := s.state.Weapons.Get(e.Weapon)
	if !ok {
		return
	}
	def := s.tables.Weapons[w.Kind]

	if w.Ammo <= 0 {
		return
	}
	if !w.TryShoot(s.state.Time, def.Cooldown) {
		return
	}

	w.Ammo--
	w.Recoil = engine.Vec3{Z: def.Recoil}

	origin := ShotPosition(s.svc.Scene, w)
	dir := e.Direction.NormalizedOr(s.shotDirection(w))

	s.createProjectile(world.CreateProjectile{
		Kind:     def.Projectile,
		Position: origin,
		Dir:      dir,
		Owner:    e.Weapon,
	})
	s.svc.Audio.Play(def.ShotSound, origin)
}

// shotDirection falls back to the owner's look vector, then the weapon's own.
func (s *EventSystem) shotDirection(w *world.Weapon) engine.Vec3 {
	if a, ok := s.state.Actors.Get(w.Owner); ok && a.Visual != 0 {
		return s.svc.Scene.LookVector(a.Visual)
	}
	if w.Visual != 0 {
		return s.svc.Scene.LookVector(w.Visual)
	}
	return engine.Up
}

func (s *EventSystem) createProjectile(e world.CreateProjectile) {
	def, ok := s.tables.Projectiles[e.Kind]
	if !ok {
		s.log.Error("create projectile: no definition", zap.Int("kind", int(e.Kind)))
		return
	}

	visual := s.svc.Scene.CreateNode("projectile")
	s.svc.Scene.SetLocalPosition(visual, e.Position)

	s.state.Projectiles.Spawn(world.Projectile{
		Kind:     e.Kind,
		Position: e.Position,
		Dir:      e.Dir.NormalizedOr(engine.Up),
		Speed:    def.Speed,
		Lifetime: def.Lifetime,
		Visual:   visual,
		Owner:    e.Owner,
	})
}

func (s *EventSystem) damageActor(e world.DamageActor) {
	a, ok := s.state.Actors.Get(e.Actor)
	if !ok || a.IsDead() {
		return
	}

	split := s.script.CalcDamage(scripting.DamageContext{Amount: e.Amount, Armor: a.Armor})
	a.Armor -= split.ArmorDamage
	if a.Armor < 0 {
		a.Armor = 0
	}
	a.Damage(split.HealthDamage)

	if a.Bot != nil && e.Attacker != e.Actor {
		if _, alive := s.state.Actors.Get(e.Attacker); alive {
			a.Bot.LastAttacker = e.Attacker
		}
	}
	s.svc.Audio.Play("pain", a.Position)

	if !a.IsDead() {
		return
	}
	if attacker, ok := s.state.Actors.Get(e.Attacker); ok {
		if e.Attacker == e.Actor {
			attacker.Frags--
		} else {
			attacker.Frags++
			if attacker.Frags >= s.state.FragLimit {
				s.state.MatchOver = true
				s.log.Info("match over", zap.Int("frags", attacker.Frags))
			}
		}
	}
}

func (s *EventSystem) startNewGame() {
	s.state.MatchOver = false
	s.state.Actors.Each(func(h arena.Handle, a *world.Actor) {
		a.Frags = 0
		a.Health = a.MaxHealth
		a.Armor = 0
		a.DeathHandled = false
		s.respawnActor(world.RespawnActor{Actor: h})
	})
	s.log.Info("new game started")
}

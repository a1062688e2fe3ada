package system

import (
	"time"

	"github.com/gritfps/sim/internal/core/arena"
	coresys "github.com/gritfps/sim/internal/core/system"
	"github.com/gritfps/sim/internal/data"
	"github.com/gritfps/sim/internal/engine"
	"github.com/gritfps/sim/internal/world"
)

// Blend durations for animation smoothing. The blends never gate a
// transition: the machines are rule-driven and every guard is recomputed
// from world state each frame.
const (
	blendLocomotion = 0.2
	blendJump       = 0.1
	blendCombat     = 0.15
)

// BotSystem drives bot locomotion and combat. It mutates only the bot's own
// record and body; everything cross-entity goes through the event queue.
// Phase 1 (Update).
type BotSystem struct {
	state  *world.State
	svc    engine.Services
	tables *data.Tables
}

func NewBotSystem(st *world.State, svc engine.Services, tables *data.Tables) *BotSystem {
	return &BotSystem{state: st, svc: svc, tables: tables}
}

func (s *BotSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *BotSystem) Update(dt time.Duration) {
	fdt := float32(dt.Seconds())
	s.state.Actors.Each(func(h arena.Handle, a *world.Actor) {
		if a.Kind != world.ActorBot {
			return
		}
		if a.IsDead() {
			signalDeath(s.state, h, a)
			return
		}
		s.updateBot(a, fdt)
		applyJumpPads(s.state, s.svc.Physics, a)
	})
}

func (s *BotSystem) updateBot(a *world.Actor, dt float32) {
	bot := a.Bot
	def := s.tables.Bots[bot.Kind]

	// Guards, recomputed from scratch every frame.
	var (
		toTarget  engine.Vec3
		dir       engine.Vec3
		farAway   bool
		wantsJump bool
	)
	grounded := a.Body != 0 && s.svc.Physics.HasGroundContact(a.Body)
	if bot.HasTarget {
		toTarget = bot.Target.Sub(a.Position)
		dir = toTarget.NormalizedOr(engine.Vec3{})
		farAway = toTarget.Length() > data.TargetThreshold
		wantsJump = dir.Y >= data.JumpDirY && grounded
	}

	prev := bot.Locomotion
	switch prev {
	case world.LocoIdle, world.LocoWalk:
		switch {
		case wantsJump:
			s.setLocomotion(bot, world.LocoJump, blendJump)
		case farAway:
			s.setLocomotion(bot, world.LocoWalk, blendLocomotion)
		default:
			s.setLocomotion(bot, world.LocoIdle, blendLocomotion)
		}
	case world.LocoJump:
		if !grounded {
			s.setLocomotion(bot, world.LocoFalling, blendJump)
		}
	case world.LocoFalling:
		if grounded {
			s.setLocomotion(bot, world.LocoIdle, blendLocomotion)
		}
	}

	if bot.HasTarget && toTarget.Length() <= data.TargetThreshold {
		s.setCombat(bot, world.CombatWhip)
	} else {
		s.setCombat(bot, world.CombatAim)
	}

	s.easeBlends(bot, dt)

	if a.Body == 0 {
		return
	}

	// Movement: horizontal velocity toward the target, vertical left to the
	// physics service. Entering Jump injects the launch velocity once.
	vel := s.svc.Physics.Velocity(a.Body)
	if bot.Locomotion == world.LocoWalk && bot.HasTarget {
		horiz := engine.Vec3{X: dir.X, Z: dir.Z}.NormalizedOr(engine.Vec3{})
		vel.X = horiz.X * def.WalkSpeed
		vel.Z = horiz.Z * def.WalkSpeed
	} else {
		vel.X = 0
		vel.Z = 0
	}
	if bot.Locomotion == world.LocoJump && prev != world.LocoJump {
		vel.Y = def.JumpVelocity
	}
	s.svc.Physics.SetVelocity(a.Body, vel)

	if bot.HasTarget && a.Visual != 0 {
		if horiz, ok := (engine.Vec3{X: toTarget.X, Z: toTarget.Z}).Normalized(); ok {
			s.svc.Scene.SetLocalRotation(a.Visual, horiz.Yaw(), 0)
		}
	}

	botTryFire(a)
}

func (s *BotSystem) setLocomotion(bot *world.BotState, next world.LocomotionState, blend float32) {
	if bot.Locomotion == next {
		return
	}
	bot.Locomotion = next
	bot.LocomotionBlend = blend
}

func (s *BotSystem) setCombat(bot *world.BotState, next world.CombatState) {
	if bot.Combat == next {
		return
	}
	bot.Combat = next
	bot.CombatBlend = blendCombat
}

func (s *BotSystem) easeBlends(bot *world.BotState, dt float32) {
	bot.LocomotionBlend -= dt
	if bot.LocomotionBlend < 0 {
		bot.LocomotionBlend = 0
	}
	bot.CombatBlend -= dt
	if bot.CombatBlend < 0 {
		bot.CombatBlend = 0
	}
}

// botTryFire is where ranged bot attacks would enqueue ShootWeapon for the
// bot's current weapon. Disabled until bot aim has a proper accuracy model;
// bots currently threaten in melee (whip) range only.
func botTryFire(a *world.Actor) {
	_ = a
}

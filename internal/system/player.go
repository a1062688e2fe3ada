package system

import (
	"math"
	"time"

	"github.com/gritfps/sim/internal/core/arena"
	coresys "github.com/gritfps/sim/internal/core/system"
	"github.com/gritfps/sim/internal/data"
	"github.com/gritfps/sim/internal/engine"
	"github.com/gritfps/sim/internal/world"
)

// PlayerSystem turns the captured input into movement, look rotation, weapon
// switches and fire intents. Phase 1 (Update).
type PlayerSystem struct {
	state *world.State
	svc   engine.Services
}

func NewPlayerSystem(st *world.State, svc engine.Services) *PlayerSystem {
	return &PlayerSystem{state: st, svc: svc}
}

func (s *PlayerSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *PlayerSystem) Update(time.Duration) {
	s.state.Actors.Each(func(h arena.Handle, a *world.Actor) {
		if a.Kind != world.ActorPlayer {
			return
		}
		if a.IsDead() {
			signalDeath(s.state, h, a)
			return
		}
		s.updatePlayer(a)
		applyJumpPads(s.state, s.svc.Physics, a)
	})
}

func (s *PlayerSystem) updatePlayer(a *world.Actor) {
	in := &a.Player.Input

	if a.Visual != 0 {
		s.svc.Scene.SetLocalRotation(a.Visual, in.Yaw, in.Pitch)
	}

	if a.Body != 0 {
		sin := float32(math.Sin(float64(in.Yaw)))
		cos := float32(math.Cos(float64(in.Yaw)))
		forward := engine.Vec3{X: sin, Z: cos}
		right := engine.Vec3{X: cos, Z: -sin}

		move := forward.Scale(in.Forward).Add(right.Scale(in.Strafe))
		move = move.NormalizedOr(engine.Vec3{})

		vel := s.svc.Physics.Velocity(a.Body)
		vel.X = move.X * data.PlayerWalkSpeed
		vel.Z = move.Z * data.PlayerWalkSpeed
		if in.Jump && s.svc.Physics.HasGroundContact(a.Body) {
			vel.Y = data.PlayerJumpSpeed
		}
		s.svc.Physics.SetVelocity(a.Body, vel)
	}

	// Switch flags are one-shot: consumed here so holding the key does not
	// cycle through the whole inventory.
	if in.NextWpn {
		a.NextWeapon()
		in.NextWpn = false
	}
	if in.PrevWpn {
		a.PrevWeapon()
		in.PrevWpn = false
	}

	if in.Fire {
		if wh := a.CurrentWeaponHandle(); !wh.IsNone() {
			dir := engine.Vec3{}
			if a.Visual != 0 {
				dir = s.svc.Scene.LookVector(a.Visual)
			}
			a.Send(world.ShootWeapon{Weapon: wh, Direction: dir})
		}
	}
}

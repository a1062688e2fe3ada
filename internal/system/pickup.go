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

const (
	bobSpeed     = 2.0
	bobAmplitude = 0.12
)

// PickupSystem animates items, counts down respawn timers and runs the
// proximity scans for items and unowned world weapons. Proximity only
// produces PickUpItem/PickUpWeapon intents; the actual consumption happens
// in the event drain, which keeps multiple actors reaching the same thing
// in the same frame well-ordered. Phase 1 (Update).
type PickupSystem struct {
	state *world.State
	svc   engine.Services
}

func NewPickupSystem(st *world.State, svc engine.Services) *PickupSystem {
	return &PickupSystem{state: st, svc: svc}
}

func (s *PickupSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *PickupSystem) Update(dt time.Duration) {
	fdt := float32(dt.Seconds())

	s.state.Items.Each(func(_ arena.Handle, it *world.Item) {
		if it.PickedUp {
			it.RespawnIn -= fdt
			if it.RespawnIn <= 0 {
				it.RespawnIn = 0
				it.PickedUp = false
				if it.Visual != 0 {
					s.svc.Scene.SetVisible(it.Visual, true)
				}
			}
			return
		}

		it.BobPhase += fdt * bobSpeed
		if it.Visual != 0 {
			bob := bobAmplitude * float32(math.Sin(float64(it.BobPhase)))
			s.svc.Scene.SetLocalPosition(it.Visual, it.Position.Add(engine.Vec3{Y: bob}))
		}
	})

	s.state.Actors.Each(func(ah arena.Handle, a *world.Actor) {
		if a.IsDead() {
			return
		}
		s.state.Items.Each(func(ih arena.Handle, it *world.Item) {
			if !it.Available() {
				return
			}
			if a.Position.Distance(it.Position) <= data.PickupRadius {
				a.Send(world.PickUpItem{Actor: ah, Item: ih})
			}
		})
		s.state.Weapons.Each(func(wh arena.Handle, w *world.Weapon) {
			if !w.Owner.IsNone() || w.Visual == 0 {
				return
			}
			if a.Position.Distance(s.svc.Scene.GlobalPosition(w.Visual)) <= data.PickupRadius {
				a.Send(world.PickUpWeapon{Actor: ah, Weapon: wh})
			}
		})
	})
}

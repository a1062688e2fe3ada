package system

import (
	"time"

	"github.com/gritfps/sim/internal/core/arena"
	coresys "github.com/gritfps/sim/internal/core/system"
	"github.com/gritfps/sim/internal/data"
	"github.com/gritfps/sim/internal/engine"
	"github.com/gritfps/sim/internal/world"
)

// weaponLocalOffset is where an equipped weapon hangs relative to its owner's
// visual: slightly right, below eye level and in front.
var weaponLocalOffset = engine.Vec3{X: 0.2, Y: -0.2, Z: 0.4}

// recoilRecovery is the fraction of recoil offset removed per second.
const recoilRecovery = 8.0

// WeaponSystem eases recoil back to rest and keeps the laser sight dot on the
// first surface along the owner's look direction. Phase 1 (Update).
type WeaponSystem struct {
	state  *world.State
	svc    engine.Services
	tables *data.Tables
}

func NewWeaponSystem(st *world.State, svc engine.Services, tables *data.Tables) *WeaponSystem {
	return &WeaponSystem{state: st, svc: svc, tables: tables}
}

func (s *WeaponSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *WeaponSystem) Update(dt time.Duration) {
	decay := 1 - float32(dt.Seconds())*recoilRecovery
	if decay < 0 {
		decay = 0
	}

	s.state.Weapons.Each(func(wh arena.Handle, w *world.Weapon) {
		w.Recoil = w.Recoil.Scale(decay)

		owner, owned := s.state.Actors.Get(w.Owner)
		if !owned {
			s.hideLaser(w)
			return
		}

		if w.Visual != 0 {
			s.svc.Scene.SetLocalPosition(w.Visual, weaponLocalOffset.Sub(w.Recoil))
		}

		// Only the selected weapon projects a laser; holstered ones stay dark.
		if owner.CurrentWeaponHandle() != wh || owner.IsDead() {
			s.hideLaser(w)
			return
		}
		s.updateLaser(w, owner)
	})
}

// updateLaser ray-casts along the owner's look direction and parks the dot on
// the first hit that is not the owner itself.
func (s *WeaponSystem) updateLaser(w *world.Weapon, owner *world.Actor) {
	if w.LaserDot == 0 || owner.Visual == 0 {
		return
	}
	def := s.tables.Weapons[w.Kind]

	origin := ShotPosition(s.svc.Scene, w)
	dir := s.svc.Scene.LookVector(owner.Visual)
	for _, hit := range s.svc.Physics.RayCast(origin, dir, def.LaserRange) {
		if hit.Body == owner.Body {
			continue
		}
		s.svc.Scene.SetLocalPosition(w.LaserDot, hit.Position)
		s.svc.Scene.SetVisible(w.LaserDot, true)
		return
	}
	s.hideLaser(w)
}

func (s *WeaponSystem) hideLaser(w *world.Weapon) {
	if w.LaserDot != 0 {
		s.svc.Scene.SetVisible(w.LaserDot, false)
	}
}

// ShotPosition is the world-space origin for shots and the laser: the muzzle
// anchor when the model has one, the weapon node otherwise.
func ShotPosition(scene engine.Scene, w *world.Weapon) engine.Vec3 {
	if w.Muzzle != 0 {
		return scene.GlobalPosition(w.Muzzle)
	}
	return scene.GlobalPosition(w.Visual)
}

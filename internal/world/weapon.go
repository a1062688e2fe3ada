package world

import (
	"github.com/gritfps/sim/internal/core/arena"
	"github.com/gritfps/sim/internal/engine"
)

// Weapon is a pooled entity: it is re-parented between an actor and the world
// on pickup/drop but never freed from its arena during a match.
type Weapon struct {
	Kind  WeaponKind   `json:"kind"`
	Owner arena.Handle `json:"owner"` // None = dropped / unowned
	Ammo  int          `json:"ammo"`

	// LastShotTime is the simulation-clock timestamp of the last successful
	// shot, in seconds.
	LastShotTime float64 `json:"last_shot_time"`

	Visual engine.NodeID `json:"visual"`
	// Muzzle is the optional shot anchor inside the visual hierarchy.
	// Zero = derive shots from the weapon node itself.
	Muzzle   engine.NodeID `json:"muzzle"`
	LaserDot engine.NodeID `json:"laser_dot"`

	// Recoil is the current visual recoil offset, eased back each frame.
	Recoil engine.Vec3 `json:"recoil"`
}

// TryShoot gates a shot on the cooldown window. On success it records the
// timestamp and reports true so the caller can apply recoil and instantiate
// the projectile; within the window it has no side effect at all.
func (w *Weapon) TryShoot(now, cooldown float64) bool {
	if now-w.LastShotTime < cooldown {
		return false
	}
	w.LastShotTime = now
	return true
}

// Projectile travels along a fixed direction until its lifetime runs out or
// it hits something.
type Projectile struct {
	Kind     ProjectileKind `json:"kind"`
	Position engine.Vec3    `json:"position"`
	Dir      engine.Vec3    `json:"dir"` // normalized at creation
	Speed    float32        `json:"speed"`
	Lifetime float32        `json:"lifetime"` // seconds remaining

	Visual engine.NodeID `json:"visual"`

	// Owner is the weapon that fired the projectile, for damage attribution.
	Owner arena.Handle `json:"owner"`
}

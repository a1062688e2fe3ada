package world

import (
	"github.com/gritfps/sim/internal/core/arena"
	"github.com/gritfps/sim/internal/engine"
)

// Event is the closed set of cross-entity intents. Entities never mutate each
// other or the arenas directly: they enqueue one of these and the simulation
// loop applies it during the event-drain phase, strictly in send order.
type Event interface{ isEvent() }

// GiveWeapon equips an actor with a freshly spawned weapon of the given kind.
type GiveWeapon struct {
	Actor arena.Handle
	Kind  WeaponKind
}

// DropWeapon detaches the actor's current weapon and leaves it in the world.
type DropWeapon struct {
	Actor arena.Handle
}

// SpawnBot creates a bot of the given kind at a fixed position.
type SpawnBot struct {
	Kind     BotKind
	Position engine.Vec3
}

// RemoveActor destroys an actor and releases its physical/visual resources.
type RemoveActor struct {
	Actor arena.Handle
}

// RespawnActor resets a dead actor at the best spawn point (the one farthest
// from all living actors).
type RespawnActor struct {
	Actor arena.Handle
}

// GiveItem applies an item kind's effect to an actor directly, without a
// world pickup.
type GiveItem struct {
	Actor arena.Handle
	Kind  ItemKind
}

// PickUpItem consumes a world item for an actor. Idempotent: picking up an
// already-picked-up item has no effect.
type PickUpItem struct {
	Actor arena.Handle
	Item  arena.Handle
}

// PickUpWeapon claims an unowned world weapon for an actor. Idempotent: a
// weapon that already found an owner stays with it.
type PickUpWeapon struct {
	Actor  arena.Handle
	Weapon arena.Handle
}

// ShootWeapon asks a weapon to fire; subject to its cooldown and ammo.
type ShootWeapon struct {
	Weapon    arena.Handle
	Direction engine.Vec3 // degenerate = use the weapon's look vector
}

// CreateProjectile instantiates a projectile owned by a weapon.
type CreateProjectile struct {
	Kind     ProjectileKind
	Position engine.Vec3
	Dir      engine.Vec3
	Owner    arena.Handle // owning weapon
}

// DamageActor applies damage, attributed to the actor behind the attacking
// weapon for frag counting and bot aggression.
type DamageActor struct {
	Actor    arena.Handle
	Attacker arena.Handle // attacking actor; None for environment damage
	Amount   float32
}

// PlaySound plays a named buffer at a world position.
type PlaySound struct {
	Name     string
	Position engine.Vec3
}

// ShowWeapon toggles a weapon's visual.
type ShowWeapon struct {
	Weapon arena.Handle
	Show   bool
}

// StartNewGame resets match state: frags, death flags, actor positions.
type StartNewGame struct{}

// SetMusicVolume is an externally-triggered presentation intent routed
// through the same queue.
type SetMusicVolume struct {
	Volume float32
}

func (GiveWeapon) isEvent()       {}
func (DropWeapon) isEvent()       {}
func (SpawnBot) isEvent()         {}
func (RemoveActor) isEvent()      {}
func (RespawnActor) isEvent()     {}
func (GiveItem) isEvent()         {}
func (PickUpItem) isEvent()       {}
func (PickUpWeapon) isEvent()     {}
func (ShootWeapon) isEvent()      {}
func (CreateProjectile) isEvent() {}
func (DamageActor) isEvent()      {}
func (PlaySound) isEvent()        {}
func (ShowWeapon) isEvent()       {}
func (StartNewGame) isEvent()     {}
func (SetMusicVolume) isEvent()   {}

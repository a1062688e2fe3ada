package system

import (
	"testing"

	"github.com/gritfps/sim/internal/core/arena"
	"github.com/gritfps/sim/internal/data"
	"github.com/gritfps/sim/internal/engine"
	"github.com/gritfps/sim/internal/world"
)

// giveWeapon equips an actor through the event path and returns the handle
// of the freshly selected weapon.
func (r *rig) giveWeapon(t *testing.T, ah arena.Handle, kind world.WeaponKind) arena.Handle {
	t.Helper()
	r.state.Sender().Send(world.GiveWeapon{Actor: ah, Kind: kind})
	r.events.Update(frame)
	a, _ := r.state.Actors.Get(ah)
	wh := a.CurrentWeaponHandle()
	if wh.IsNone() {
		t.Fatalf("give %v produced no selection", kind)
	}
	return wh
}

func TestShotOriginFollowsTheMovedBody(t *testing.T) {
	r := newRig(t)
	ph := r.spawnPlayer(engine.Vec3{})
	wh := r.giveWeapon(t, ph, world.WeaponAK47)

	// The body travels; the next snapshot must carry the visual hierarchy
	// (and with it the muzzle) along before anything fires.
	a, _ := r.state.Actors.Get(ph)
	moved := engine.Vec3{X: 3, Y: data.PlayerBodyRadius, Z: 20}
	r.eng.SetPosition(a.Body, moved)
	r.snapshot.Update(frame)

	a.Send(world.ShootWeapon{Weapon: wh, Direction: engine.Vec3{Z: 1}})
	r.events.Update(frame)

	var (
		origin engine.Vec3
		count  int
	)
	r.state.Projectiles.Each(func(_ arena.Handle, p *world.Projectile) {
		origin = p.Position
		count++
	})
	if count != 1 {
		t.Fatalf("projectiles = %d, want 1", count)
	}
	if origin.Z < moved.Z || origin.Z > moved.Z+2 {
		t.Fatalf("shot origin Z = %v, want near the body at %v", origin.Z, moved.Z)
	}
	if origin.X < moved.X-1 || origin.X > moved.X+1 {
		t.Fatalf("shot origin X = %v, want near the body at %v", origin.X, moved.X)
	}
}

func TestFreshWeaponFiresImmediately(t *testing.T) {
	r := newRig(t)
	ph := r.spawnPlayer(engine.Vec3{})
	wh := r.giveWeapon(t, ph, world.WeaponAK47)

	// First trigger pull right after equipping, before any time has passed.
	a, _ := r.state.Actors.Get(ph)
	a.Send(world.ShootWeapon{Weapon: wh, Direction: engine.Vec3{Z: 1}})
	r.events.Update(frame)

	if got := r.state.Projectiles.Len(); got != 1 {
		t.Fatalf("projectiles = %d, want the first shot to land", got)
	}
	w, _ := r.state.Weapons.Get(wh)
	if want := r.tables.Weapons[world.WeaponAK47].InitialAmmo - 1; w.Ammo != want {
		t.Fatalf("ammo = %d, want %d", w.Ammo, want)
	}
}

func TestHolsteredWeaponKeepsItsLaserHidden(t *testing.T) {
	r := newRig(t)
	ph := r.spawnPlayer(engine.Vec3{})
	ak := r.giveWeapon(t, ph, world.WeaponAK47)
	m4 := r.giveWeapon(t, ph, world.WeaponM4) // selected, AK holstered

	// A surface straight ahead for the dot to land on.
	r.eng.CreateBody(engine.Vec3{Y: 0.5, Z: 6}, 0.5)

	r.snapshot.Update(frame)
	r.weapons.Update(frame)

	akw, _ := r.state.Weapons.Get(ak)
	if r.eng.Visible(akw.LaserDot) {
		t.Fatal("holstered weapon is projecting a laser")
	}
	m4w, _ := r.state.Weapons.Get(m4)
	if !r.eng.Visible(m4w.LaserDot) {
		t.Fatal("selected weapon's laser found no surface")
	}
}

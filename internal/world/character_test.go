package world

import (
	"testing"

	"github.com/gritfps/sim/internal/core/arena"
)

func TestDamageAndDeath(t *testing.T) {
	c := Character{Health: 100, MaxHealth: 100}
	c.Damage(40)
	if c.IsDead() {
		t.Fatal("dead at 60 health")
	}
	c.Damage(65)
	if c.Health != -5 {
		t.Fatalf("health = %v, want -5 (no floor below death)", c.Health)
	}
	if !c.IsDead() {
		t.Fatal("not dead at -5 health")
	}
}

func TestHealClampsAtStartingValue(t *testing.T) {
	c := Character{Health: 90, MaxHealth: 100}
	c.Heal(25)
	if c.Health != 100 {
		t.Fatalf("health = %v, want clamp at 100", c.Health)
	}
}

func TestWeaponSelectionClampsAtBounds(t *testing.T) {
	c := Character{}
	if h := c.CurrentWeaponHandle(); h != arena.None {
		t.Fatalf("unarmed current weapon = %v, want None", h)
	}

	w := arena.New[Weapon]()
	h1 := w.Spawn(Weapon{Kind: WeaponAK47})
	h2 := w.Spawn(Weapon{Kind: WeaponM4})
	c.AddWeapon(h1)
	c.AddWeapon(h2)

	if c.CurrentWeaponHandle() != h2 {
		t.Fatal("AddWeapon did not select the new weapon")
	}
	c.NextWeapon() // already at last slot: no wraparound
	if c.CurrentWeaponHandle() != h2 {
		t.Fatal("NextWeapon wrapped past the last slot")
	}
	c.PrevWeapon()
	if c.CurrentWeaponHandle() != h1 {
		t.Fatal("PrevWeapon did not retreat")
	}
	c.PrevWeapon() // already at first slot
	if c.CurrentWeaponHandle() != h1 {
		t.Fatal("PrevWeapon wrapped past the first slot")
	}
}

func TestTryShootCooldownWindow(t *testing.T) {
	w := Weapon{}
	const cooldown = 0.1

	if !w.TryShoot(1.0, cooldown) {
		t.Fatal("first shot rejected")
	}
	// Any call frequency within the window must fail.
	for _, dt := range []float64{0.01, 0.05, 0.099} {
		if w.TryShoot(1.0+dt, cooldown) {
			t.Fatalf("shot succeeded %vs after the last one", dt)
		}
	}
	if !w.TryShoot(1.1, cooldown) {
		t.Fatal("shot rejected after the cooldown elapsed")
	}
	if !w.TryShoot(1.25, cooldown) {
		t.Fatal("followup shot rejected")
	}
}

func TestUnwiredCharacterSendIsDiscarded(t *testing.T) {
	var c Character
	if c.Wired() {
		t.Fatal("fresh character reports wired sender")
	}
	c.Send(PlaySound{Name: "click"}) // must be a silent no-op
}

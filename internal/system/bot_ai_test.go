package system

import (
	"testing"

	"github.com/gritfps/sim/internal/engine"
	"github.com/gritfps/sim/internal/world"
)

func TestBotIdlesAndWhipsAtCloseTarget(t *testing.T) {
	r := newRig(t)
	bh := r.spawnBot(world.BotMutant, engine.Vec3{})
	r.spawnPlayer(engine.Vec3{Z: 1})

	r.snapshot.Update(frame)
	r.bots.Update(frame)

	a, _ := r.state.Actors.Get(bh)
	if a.Bot.Locomotion != world.LocoIdle {
		t.Fatalf("locomotion = %v, want idle within threshold", a.Bot.Locomotion)
	}
	if a.Bot.Combat != world.CombatWhip {
		t.Fatalf("combat = %v, want whip within threshold", a.Bot.Combat)
	}
	if vel := r.eng.Velocity(a.Body); vel.X != 0 || vel.Z != 0 {
		t.Fatalf("idle bot moves: vel = %+v", vel)
	}
}

func TestBotWalksTowardFarTarget(t *testing.T) {
	r := newRig(t)
	bh := r.spawnBot(world.BotMutant, engine.Vec3{})
	r.spawnPlayer(engine.Vec3{Z: 10})

	r.snapshot.Update(frame)
	r.bots.Update(frame)

	a, _ := r.state.Actors.Get(bh)
	if a.Bot.Locomotion != world.LocoWalk {
		t.Fatalf("locomotion = %v, want walk beyond threshold", a.Bot.Locomotion)
	}
	if a.Bot.Combat != world.CombatAim {
		t.Fatalf("combat = %v, want aim beyond threshold", a.Bot.Combat)
	}
	vel := r.eng.Velocity(a.Body)
	if vel.Z <= 0 {
		t.Fatalf("walking bot not moving toward target: vel = %+v", vel)
	}
	want := r.tables.Bots[world.BotMutant].WalkSpeed
	speed := (engine.Vec3{X: vel.X, Z: vel.Z}).Length()
	if speed < want-0.01 || speed > want+0.01 {
		t.Fatalf("walk speed = %v, want %v", speed, want)
	}
}

func TestBotJumpsTowardElevatedTarget(t *testing.T) {
	r := newRig(t)
	bh := r.spawnBot(world.BotMutant, engine.Vec3{})
	ph := r.spawnPlayer(engine.Vec3{Z: 2})
	// Lift the player well above the bot: direction-to-target is steep.
	p, _ := r.state.Actors.Get(ph)
	r.eng.SetPosition(p.Body, engine.Vec3{Y: 6, Z: 2})

	r.snapshot.Update(frame)
	r.bots.Update(frame)

	a, _ := r.state.Actors.Get(bh)
	if a.Bot.Locomotion != world.LocoJump {
		t.Fatalf("locomotion = %v, want jump at steep grounded direction", a.Bot.Locomotion)
	}
	want := r.tables.Bots[world.BotMutant].JumpVelocity
	if vel := r.eng.Velocity(a.Body); vel.Y != want {
		t.Fatalf("jump velocity = %v, want %v", vel.Y, want)
	}

	// Step the body into the air: jump hands over to falling, and falling
	// returns to idle on landing.
	for i := 0; i < 4; i++ {
		r.eng.Step(float32(frame.Seconds()))
	}
	r.snapshot.Update(frame)
	r.bots.Update(frame)
	a, _ = r.state.Actors.Get(bh)
	if a.Bot.Locomotion != world.LocoFalling {
		t.Fatalf("locomotion = %v, want falling once airborne", a.Bot.Locomotion)
	}

	r.eng.SetPosition(a.Body, engine.Vec3{Y: r.tables.Bots[world.BotMutant].BodyRadius})
	r.eng.SetVelocity(a.Body, engine.Vec3{})
	r.snapshot.Update(frame)
	r.bots.Update(frame)
	a, _ = r.state.Actors.Get(bh)
	if a.Bot.Locomotion != world.LocoIdle && a.Bot.Locomotion != world.LocoWalk {
		t.Fatalf("locomotion = %v, want grounded state after landing", a.Bot.Locomotion)
	}
}

func TestBotPrefersLastAttackerOverPlayer(t *testing.T) {
	r := newRig(t)
	bh := r.spawnBot(world.BotMutant, engine.Vec3{})
	r.spawnPlayer(engine.Vec3{Z: 10})
	ah := r.spawnBot(world.BotParasite, engine.Vec3{X: -5})

	b, _ := r.state.Actors.Get(bh)
	b.Bot.LastAttacker = ah

	r.snapshot.Update(frame)
	b, _ = r.state.Actors.Get(bh)
	if !b.Bot.HasTarget || b.Bot.Target.X != -5 {
		t.Fatalf("target = %+v, want the attacker's position", b.Bot.Target)
	}

	// The grudge clears when the attacker dies; the player becomes the target.
	attacker, _ := r.state.Actors.Get(ah)
	attacker.Health = 0
	r.snapshot.Update(frame)
	b, _ = r.state.Actors.Get(bh)
	if !b.Bot.HasTarget || b.Bot.Target.Z != 10 {
		t.Fatalf("target = %+v, want fallback to the player", b.Bot.Target)
	}
	if !b.Bot.LastAttacker.IsNone() {
		t.Fatal("dead attacker grudge not cleared")
	}
}

func TestBotWithoutTargetStaysPut(t *testing.T) {
	r := newRig(t)
	bh := r.spawnBot(world.BotMaw, engine.Vec3{})

	r.snapshot.Update(frame)
	r.bots.Update(frame)

	a, _ := r.state.Actors.Get(bh)
	if a.Bot.HasTarget {
		t.Fatal("bot has a target in an empty world")
	}
	if a.Bot.Locomotion != world.LocoIdle {
		t.Fatalf("locomotion = %v, want idle without a target", a.Bot.Locomotion)
	}
}

func TestDeadBotSignalsDeathExactlyOnce(t *testing.T) {
	r := newRig(t)
	bh := r.spawnBot(world.BotMutant, engine.Vec3{})
	a, _ := r.state.Actors.Get(bh)
	a.Health = 0

	r.bots.Update(frame)
	r.bots.Update(frame)
	r.bots.Update(frame)

	evs := r.drainEvents()
	if len(evs) != 1 {
		t.Fatalf("death intents = %d, want exactly 1", len(evs))
	}
	if _, ok := evs[0].(world.RespawnActor); !ok {
		t.Fatalf("death intent = %T, want RespawnActor for a respawning bot", evs[0])
	}
}

package level

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/gritfps/sim/internal/core/arena"
	"github.com/gritfps/sim/internal/data"
	"github.com/gritfps/sim/internal/engine"
	"github.com/gritfps/sim/internal/scripting"
	"github.com/gritfps/sim/internal/world"
)

const frame = time.Second / 60

const validLevel = `
name: test-arena
frag_limit: 3
player_spawn: {x: 0, y: 1, z: 0}
spawn_points:
  - {x: 0, y: 1, z: 0}
  - {x: 10, y: 1, z: 10}
bots:
  - kind: mutant
    position: {x: 5, y: 1, z: 5}
items:
  - kind: medkit
    position: {x: 2, y: 0.5, z: 0}
jump_pads:
  - position: {x: 3, y: 0, z: 3}
    radius: 1.0
    force: {x: 0, y: 12, z: 0}
`

func writeLevel(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "level.yaml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write level: %v", err)
	}
	return path
}

func newTestLevel(t *testing.T, src string) (*Level, *engine.Headless) {
	t.Helper()
	def, err := LoadDefinition(writeLevel(t, src))
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	eng := engine.NewHeadless()
	script, err := scripting.NewEngine(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("scripting engine: %v", err)
	}
	t.Cleanup(script.Close)

	l, err := New(def, eng.Services(), data.Defaults(), script, zap.NewNop())
	if err != nil {
		t.Fatalf("new level: %v", err)
	}
	return l, eng
}

func TestLoadDefinition(t *testing.T) {
	def, err := LoadDefinition(writeLevel(t, validLevel))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if def.Name != "test-arena" || def.FragLimit != 3 {
		t.Fatalf("header = %q/%d", def.Name, def.FragLimit)
	}
	if len(def.SpawnPoints) != 2 || len(def.Bots) != 1 || len(def.Items) != 1 || len(def.JumpPads) != 1 {
		t.Fatal("marker counts do not match the file")
	}
}

func TestLoadDefinitionRejectsUnknownBotKind(t *testing.T) {
	src := `
name: bad
player_spawn: {x: 0, y: 1, z: 0}
spawn_points: [{x: 0, y: 1, z: 0}]
bots:
  - kind: dragon
    position: {x: 0, y: 0, z: 0}
`
	if _, err := LoadDefinition(writeLevel(t, src)); err == nil {
		t.Fatal("unknown bot kind passed validation")
	}
}

func TestLoadDefinitionRejectsMissingSpawnPoints(t *testing.T) {
	src := `
name: bad
player_spawn: {x: 0, y: 1, z: 0}
spawn_points: []
`
	if _, err := LoadDefinition(writeLevel(t, src)); err == nil {
		t.Fatal("empty spawn point list passed validation")
	}
}

func TestFirstFrameSpawnsMarkersAndArmsPlayer(t *testing.T) {
	l, _ := newTestLevel(t, validLevel)

	// Bot spawn and the player's starting weapon travel through the queue;
	// one frame drains both.
	l.Update(frame)

	st := l.State()
	if st.Actors.Len() != 2 {
		t.Fatalf("actors = %d, want player + 1 bot", st.Actors.Len())
	}
	p, ok := st.Actors.Get(st.Player)
	if !ok {
		t.Fatal("no player actor")
	}
	wh := p.CurrentWeaponHandle()
	if wh == arena.None {
		t.Fatal("player not armed after the first frame")
	}
	w, _ := st.Weapons.Get(wh)
	if w.Kind != world.WeaponAK47 || w.Ammo != 120 {
		t.Fatalf("starting weapon = %v/%d", w.Kind, w.Ammo)
	}
	if hud := l.HUD(); hud.Ammo != 120 || hud.Health != data.PlayerHealth {
		t.Fatalf("hud = %+v", hud)
	}
}

func TestNonRespawningActorIsRemovedExactlyOnce(t *testing.T) {
	l, _ := newTestLevel(t, validLevel)
	l.Update(frame)

	st := l.State()
	var botHandle arena.Handle
	st.Actors.Each(func(h arena.Handle, a *world.Actor) {
		if a.Kind == world.ActorBot {
			botHandle = h
		}
	})
	bot, _ := st.Actors.Get(botHandle)
	bot.Respawns = false
	bot.Health = 0

	before := st.Actors.Len()
	for i := 0; i < 5; i++ {
		l.Update(frame)
	}
	if st.Actors.Len() != before-1 {
		t.Fatalf("actors = %d, want exactly one removal", st.Actors.Len())
	}
	if st.Actors.Alive(botHandle) {
		t.Fatal("dead non-respawning bot still alive")
	}
}

func TestFragLimitEndsTheMatch(t *testing.T) {
	l, _ := newTestLevel(t, validLevel)
	l.Update(frame)

	st := l.State()
	st.FragLimit = 1
	var botHandle arena.Handle
	st.Actors.Each(func(h arena.Handle, a *world.Actor) {
		if a.Kind == world.ActorBot {
			botHandle = h
		}
	})

	l.Intents().Send(world.DamageActor{
		Actor:    botHandle,
		Attacker: st.Player,
		Amount:   1000,
	})
	l.Update(frame)

	if !st.MatchOver {
		t.Fatal("match not over at the frag limit")
	}
	if hud := l.HUD(); !hud.MatchOver || hud.Frags != 1 {
		t.Fatalf("hud = %+v, want match over with 1 frag", hud)
	}
}

func TestIntentsAreAppliedInSendOrder(t *testing.T) {
	l, _ := newTestLevel(t, validLevel)
	l.Update(frame)

	st := l.State()
	// Give then drop: the drop must see the weapon the give created.
	s1 := l.Intents()
	s2 := l.Intents()
	s1.Send(world.GiveWeapon{Actor: st.Player, Kind: world.WeaponM4})
	s2.Send(world.DropWeapon{Actor: st.Player})
	l.Update(frame)

	p, _ := st.Actors.Get(st.Player)
	if len(p.Weapons) != 1 {
		t.Fatalf("weapons = %d, want the M4 given and then dropped, AK47 kept", len(p.Weapons))
	}
	w, _ := st.Weapons.Get(p.Weapons[0])
	if w.Kind != world.WeaponAK47 {
		t.Fatalf("kept weapon = %v, want the original AK47", w.Kind)
	}
}

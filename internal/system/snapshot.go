package system

import (
	"time"

	"github.com/gritfps/sim/internal/core/arena"
	coresys "github.com/gritfps/sim/internal/core/system"
	"github.com/gritfps/sim/internal/engine"
	"github.com/gritfps/sim/internal/world"
)

// SnapshotSystem advances the simulation clock, caches previous-frame body
// positions and rebuilds the target snapshot before any actor is mutated.
// It also assigns every bot its target for the frame. Phase 0 (Snapshot).
type SnapshotSystem struct {
	state *world.State
	svc   engine.Services
}

func NewSnapshotSystem(st *world.State, svc engine.Services) *SnapshotSystem {
	return &SnapshotSystem{state: st, svc: svc}
}

func (s *SnapshotSystem) Phase() coresys.Phase { return coresys.PhaseSnapshot }

func (s *SnapshotSystem) Update(dt time.Duration) {
	st := s.state
	st.Time += dt.Seconds()
	st.Frame++

	// The visual root follows the body here, once per frame, so everything
	// hanging under it (weapons, muzzle anchors) resolves global positions
	// against where the actor actually is.
	st.Actors.Each(func(_ arena.Handle, a *world.Actor) {
		if a.Body != 0 {
			a.Position = s.svc.Physics.Position(a.Body)
		}
		if a.Visual != 0 {
			s.svc.Scene.SetLocalPosition(a.Visual, a.Position)
		}
	})

	st.Targets = st.Targets[:0]
	st.Actors.Each(func(h arena.Handle, a *world.Actor) {
		st.Targets = append(st.Targets, world.TargetDescriptor{
			Handle:   h,
			Health:   a.Health,
			Position: a.Position,
		})
	})

	st.Actors.Each(func(h arena.Handle, a *world.Actor) {
		if a.Kind == world.ActorBot {
			s.assignBotTarget(h, a)
		}
	})
}

// assignBotTarget overwrites the bot's target from this frame's snapshot.
// A live last attacker takes precedence over the player's position; the
// grudge clears as soon as the attacker is dead or gone.
func (s *SnapshotSystem) assignBotTarget(self arena.Handle, a *world.Actor) {
	bot := a.Bot

	if !bot.LastAttacker.IsNone() {
		if td, ok := findTarget(s.state.Targets, bot.LastAttacker); ok && td.Health > 0 && bot.LastAttacker != self {
			bot.Target = td.Position
			bot.HasTarget = true
			return
		}
		bot.LastAttacker = arena.None
	}

	if td, ok := findTarget(s.state.Targets, s.state.Player); ok && td.Health > 0 {
		bot.Target = td.Position
		bot.HasTarget = true
		return
	}
	bot.HasTarget = false
}

func findTarget(targets []world.TargetDescriptor, h arena.Handle) (world.TargetDescriptor, bool) {
	if h.IsNone() {
		return world.TargetDescriptor{}, false
	}
	for _, td := range targets {
		if td.Handle == h {
			return td, true
		}
	}
	return world.TargetDescriptor{}, false
}

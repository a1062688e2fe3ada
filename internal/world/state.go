package world

import (
	"github.com/gritfps/sim/internal/core/arena"
	"github.com/gritfps/sim/internal/core/event"
	"github.com/gritfps/sim/internal/engine"
)

// State is the single owner of all gameplay entities and the event queue.
// Accessed only from the game-loop goroutine during the update and event
// phases; no other component holds a mutable reference across frames.
type State struct {
	Actors      *arena.Arena[Actor]
	Weapons     *arena.Arena[Weapon]
	Projectiles *arena.Arena[Projectile]
	Items       *arena.Arena[Item]
	JumpPads    *arena.Arena[JumpPad]

	Queue *event.Queue[Event]

	// Targets is the per-frame actor snapshot, rebuilt in the snapshot phase.
	Targets []TargetDescriptor

	SpawnPoints []engine.Vec3
	Player      arena.Handle // current player actor, None before spawn

	Time      float64 // simulation clock, seconds since match start
	Frame     uint64
	FragLimit int
	MatchOver bool

	// projectileFrees collects removals signaled during the update phase;
	// the cleanup phase flushes them after the event drain.
	projectileFrees []arena.Handle
}

func NewState() *State {
	s := &State{
		Actors:      arena.New[Actor](),
		Weapons:     arena.New[Weapon](),
		Projectiles: arena.New[Projectile](),
		Items:       arena.New[Item](),
		JumpPads:    arena.New[JumpPad](),
		Queue:       event.NewQueue[Event](),
		FragLimit:   10,
	}
	s.Actors.OnFree(s.onActorFreed)
	return s
}

// Sender returns a producer endpoint on the state's queue.
func (s *State) Sender() event.Sender[Event] { return s.Queue.Sender() }

// onActorFreed fans the removal out to every entity that may reference the
// freed actor: bots drop their grudge, owned weapons become unowned.
func (s *State) onActorFreed(h arena.Handle) {
	s.Actors.Each(func(_ arena.Handle, a *Actor) {
		if a.Bot != nil && a.Bot.LastAttacker == h {
			a.Bot.LastAttacker = arena.None
		}
	})
	s.Weapons.Each(func(_ arena.Handle, w *Weapon) {
		if w.Owner == h {
			w.Owner = arena.None
		}
	})
	if s.Player == h {
		s.Player = arena.None
	}
}

// MarkProjectileForRemoval defers a projectile free to the cleanup phase.
func (s *State) MarkProjectileForRemoval(h arena.Handle) {
	s.projectileFrees = append(s.projectileFrees, h)
}

// FlushProjectileRemovals frees every marked projectile and releases its
// visual through the scene service. Called once per frame by CleanupSystem.
func (s *State) FlushProjectileRemovals(scene engine.Scene) {
	for _, h := range s.projectileFrees {
		if p, ok := s.Projectiles.Get(h); ok {
			if p.Visual != 0 {
				scene.RemoveNode(p.Visual)
			}
			s.Projectiles.Free(h)
		}
	}
	s.projectileFrees = s.projectileFrees[:0]
}

// HUD builds the presentation read model for the player actor.
func (s *State) HUD() HUDState {
	hud := HUDState{FragLimit: s.FragLimit, MatchOver: s.MatchOver}
	s.Actors.Each(func(_ arena.Handle, a *Actor) {
		if a.Frags > hud.LeaderFrags {
			hud.LeaderFrags = a.Frags
		}
	})
	p, ok := s.Actors.Get(s.Player)
	if !ok {
		return hud
	}
	hud.Health = p.Health
	hud.Armor = p.Armor
	hud.Frags = p.Frags
	if w, ok := s.Weapons.Get(p.CurrentWeaponHandle()); ok {
		hud.Ammo = w.Ammo
	}
	return hud
}

// StateDump is the serializable structural snapshot of every arena plus the
// match scalars. The event-sender wiring is intentionally absent: it is
// re-established by RestoreState.
type StateDump struct {
	Actors      []arena.SlotRecord[Actor]      `json:"actors"`
	Weapons     []arena.SlotRecord[Weapon]     `json:"weapons"`
	Projectiles []arena.SlotRecord[Projectile] `json:"projectiles"`
	Items       []arena.SlotRecord[Item]       `json:"items"`
	JumpPads    []arena.SlotRecord[JumpPad]    `json:"jump_pads"`

	SpawnPoints []engine.Vec3 `json:"spawn_points"`
	Player      arena.Handle  `json:"player"`
	Time        float64       `json:"time"`
	Frame       uint64        `json:"frame"`
	FragLimit   int           `json:"frag_limit"`
	MatchOver   bool          `json:"match_over"`
}

func (s *State) Dump() *StateDump {
	return &StateDump{
		Actors:      s.Actors.Dump(),
		Weapons:     s.Weapons.Dump(),
		Projectiles: s.Projectiles.Dump(),
		Items:       s.Items.Dump(),
		JumpPads:    s.JumpPads.Dump(),
		SpawnPoints: s.SpawnPoints,
		Player:      s.Player,
		Time:        s.Time,
		Frame:       s.Frame,
		FragLimit:   s.FragLimit,
		MatchOver:   s.MatchOver,
	}
}

// RestoreState rebuilds a State from a dump and performs the post-load
// rewiring pass: every live actor is re-attached to the fresh queue.
func RestoreState(d *StateDump) *State {
	s := &State{
		Actors:      arena.Restore(d.Actors),
		Weapons:     arena.Restore(d.Weapons),
		Projectiles: arena.Restore(d.Projectiles),
		Items:       arena.Restore(d.Items),
		JumpPads:    arena.Restore(d.JumpPads),
		Queue:       event.NewQueue[Event](),
		SpawnPoints: d.SpawnPoints,
		Player:      d.Player,
		Time:        d.Time,
		Frame:       d.Frame,
		FragLimit:   d.FragLimit,
		MatchOver:   d.MatchOver,
	}
	s.Actors.OnFree(s.onActorFreed)
	s.RewireSenders()
	return s
}

// RewireSenders attaches every live actor to the state's queue. Senders do
// not survive serialization, so this runs after every load.
func (s *State) RewireSenders() {
	sender := s.Queue.Sender()
	s.Actors.Each(func(_ arena.Handle, a *Actor) {
		a.AttachSender(sender)
	})
}

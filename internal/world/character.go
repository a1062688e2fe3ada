package world

import (
	"github.com/gritfps/sim/internal/core/arena"
	"github.com/gritfps/sim/internal/core/event"
	"github.com/gritfps/sim/internal/engine"
)

// Character is the record shared by every actor variant. Data plus small
// accessors; per-frame behavior lives in the system package.
type Character struct {
	Health    float32 `json:"health"`
	MaxHealth float32 `json:"max_health"`
	Armor     float32 `json:"armor"`
	Frags     int     `json:"frags"`

	Weapons       []arena.Handle `json:"weapons,omitempty"`
	CurrentWeapon int            `json:"current_weapon"`

	Body   engine.BodyID `json:"body"`
	Visual engine.NodeID `json:"visual"`

	// Position is the body position cached during the snapshot phase.
	Position engine.Vec3 `json:"position"`

	// Respawns selects the death intent: a RespawnActor event when true,
	// RemoveActor when false.
	Respawns bool `json:"respawns"`

	// DeathHandled guards the death intent so it fires exactly once per life.
	DeathHandled bool `json:"death_handled"`

	// sender is deliberately unexported: it cannot be serialized and is
	// re-attached by the post-load rewiring pass.
	sender event.Sender[Event]
}

// AttachSender wires the character's outbound intent channel.
func (c *Character) AttachSender(s event.Sender[Event]) { c.sender = s }

// Send enqueues a self-driven intent. Discarded when unwired (see Sender).
func (c *Character) Send(ev Event) { c.sender.Send(ev) }

// Wired reports whether the character can emit events.
func (c *Character) Wired() bool { return c.sender.Attached() }

// Damage subtracts health without flooring; death is a separate check.
func (c *Character) Damage(amount float32) {
	c.Health -= amount
}

// Heal raises health, clamped at the starting value.
func (c *Character) Heal(amount float32) {
	c.Health += amount
	if c.Health > c.MaxHealth {
		c.Health = c.MaxHealth
	}
}

func (c *Character) IsDead() bool { return c.Health <= 0 }

func (c *Character) AddWeapon(h arena.Handle) {
	c.Weapons = append(c.Weapons, h)
	c.CurrentWeapon = len(c.Weapons) - 1
}

// NextWeapon advances the selection, clamped at the last slot.
func (c *Character) NextWeapon() {
	if c.CurrentWeapon < len(c.Weapons)-1 {
		c.CurrentWeapon++
	}
}

// PrevWeapon retreats the selection, clamped at the first slot.
func (c *Character) PrevWeapon() {
	if c.CurrentWeapon > 0 {
		c.CurrentWeapon--
	}
}

// CurrentWeaponHandle returns the selected weapon, or None when unarmed.
func (c *Character) CurrentWeaponHandle() arena.Handle {
	if c.CurrentWeapon < 0 || c.CurrentWeapon >= len(c.Weapons) {
		return arena.None
	}
	return c.Weapons[c.CurrentWeapon]
}

// Actor is the closed {Bot, Player} sum. Exactly one of Bot/Player is set,
// matching Kind.
type Actor struct {
	Kind ActorKind `json:"kind"`
	Character
	Bot    *BotState    `json:"bot,omitempty"`
	Player *PlayerState `json:"player,omitempty"`
}

// Char exposes the embedded base record.
func (a *Actor) Char() *Character { return &a.Character }

// LocomotionState is the bot movement animation state.
type LocomotionState uint8

const (
	LocoIdle LocomotionState = iota
	LocoWalk
	LocoJump
	LocoFalling
)

func (s LocomotionState) String() string {
	switch s {
	case LocoIdle:
		return "idle"
	case LocoWalk:
		return "walk"
	case LocoJump:
		return "jump"
	case LocoFalling:
		return "falling"
	}
	return "unknown"
}

// CombatState is the bot attack animation state.
type CombatState uint8

const (
	CombatAim CombatState = iota
	CombatWhip
)

func (s CombatState) String() string {
	if s == CombatWhip {
		return "whip"
	}
	return "aim"
}

// BotState carries the per-bot decision state. Both machines are rule-driven:
// every guard is recomputed from current world state each frame, and the blend
// values exist only for animation smoothing.
type BotState struct {
	Kind BotKind `json:"kind"`

	Locomotion      LocomotionState `json:"locomotion"`
	LocomotionBlend float32         `json:"locomotion_blend"`
	Combat          CombatState     `json:"combat"`
	CombatBlend     float32         `json:"combat_blend"`

	// Target is overwritten by the simulation loop every frame from the
	// target snapshot; LastAttacker takes precedence while it is live.
	Target    engine.Vec3 `json:"target"`
	HasTarget bool        `json:"has_target"`

	LastAttacker arena.Handle `json:"last_attacker"`
}

// PlayerState carries the player-variant data: the input captured by the
// presentation layer before the frame began.
type PlayerState struct {
	Input InputState `json:"input"`
}

// InputState is the per-frame captured input.
type InputState struct {
	Forward float32 `json:"forward"` // -1..1
	Strafe  float32 `json:"strafe"`  // -1..1
	Yaw     float32 `json:"yaw"`     // radians
	Pitch   float32 `json:"pitch"`   // radians
	Jump    bool    `json:"jump"`
	Fire    bool    `json:"fire"`
	NextWpn bool    `json:"next_weapon"`
	PrevWpn bool    `json:"prev_weapon"`
}

package world

import "github.com/gritfps/sim/internal/engine"

// Item is a map-placed pickup. Items are pooled for the whole match: picking
// one up flips PickedUp and starts the respawn countdown instead of freeing
// the slot.
type Item struct {
	Kind     ItemKind    `json:"kind"`
	Position engine.Vec3 `json:"position"`

	// BobPhase drives the cosmetic hover animation; no gameplay meaning.
	BobPhase float32 `json:"bob_phase"`

	PickedUp bool `json:"picked_up"`
	// RespawnIn counts down while picked up; at zero the item is available
	// and visible again.
	RespawnIn float32 `json:"respawn_in"`

	Visual engine.NodeID `json:"visual"`
}

// Available reports whether the item can currently be picked up.
func (it *Item) Available() bool { return !it.PickedUp }

// JumpPad is a static launcher: immutable after creation, purely reactive.
// Actors touching the trigger volume adopt Force as their velocity outright.
type JumpPad struct {
	Trigger engine.BodyID `json:"trigger"`
	Force   engine.Vec3   `json:"force"`
}

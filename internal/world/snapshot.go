package world

import (
	"github.com/gritfps/sim/internal/core/arena"
	"github.com/gritfps/sim/internal/engine"
)

// TargetDescriptor is a flat per-actor snapshot rebuilt every frame before
// any actor is mutated, so bot decision logic reads "the state of all actors
// as of this frame" without holding live arena references during updates.
type TargetDescriptor struct {
	Handle   arena.Handle
	Health   float32
	Position engine.Vec3
}

// HUDState is the per-frame read model exposed to the presentation layer.
type HUDState struct {
	Health    float32 `json:"health"`
	Armor     float32 `json:"armor"`
	Ammo      int     `json:"ammo"`
	Frags     int     `json:"frags"`
	// LeaderFrags is the best frag count across all actors.
	LeaderFrags int  `json:"leader_frags"`
	FragLimit   int  `json:"frag_limit"`
	MatchOver   bool `json:"match_over"`
}

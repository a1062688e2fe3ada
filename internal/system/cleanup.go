package system

import (
	"time"

	coresys "github.com/gritfps/sim/internal/core/system"
	"github.com/gritfps/sim/internal/engine"
	"github.com/gritfps/sim/internal/world"
)

// CleanupSystem flushes the deferred removals collected during the frame.
// Runs last, so every handle marked this frame stayed resolvable through the
// update and event phases. Phase 3 (Cleanup).
type CleanupSystem struct {
	state *world.State
	svc   engine.Services
}

func NewCleanupSystem(st *world.State, svc engine.Services) *CleanupSystem {
	return &CleanupSystem{state: st, svc: svc}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(time.Duration) {
	s.state.FlushProjectileRemovals(s.svc.Scene)
}

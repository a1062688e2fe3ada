package system

import "time"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseSnapshot Phase = iota // 0: copy previous-frame state, assign targets
	PhaseUpdate                // 1: per-entity updates; own-state mutation + events only
	PhaseEvents                // 2: drain the queue; all cross-entity mutation
	PhaseCleanup               // 3: flush deferred arena frees
)

// System is the interface every per-frame system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

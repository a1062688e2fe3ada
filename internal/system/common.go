package system

import (
	"github.com/gritfps/sim/internal/core/arena"
	"github.com/gritfps/sim/internal/engine"
	"github.com/gritfps/sim/internal/world"
)

// signalDeath fires an actor's death intent exactly once per life. The intent
// goes through the queue like every other cross-entity effect; which variant
// is sent depends on whether the actor respawns and whether the match is over.
func signalDeath(st *world.State, h arena.Handle, a *world.Actor) {
	if a.DeathHandled {
		return
	}
	a.DeathHandled = true
	if a.Respawns && !st.MatchOver {
		a.Send(world.RespawnActor{Actor: h})
	} else {
		a.Send(world.RemoveActor{Actor: h})
	}
}

// applyJumpPads overwrites the actor's velocity with the pad force when its
// body overlaps a registered launcher trigger. The overwrite is deliberate:
// pads cancel all prior momentum.
func applyJumpPads(st *world.State, phys engine.Physics, a *world.Actor) {
	if a.Body == 0 {
		return
	}
	for _, c := range phys.Contacts(a.Body) {
		launched := false
		st.JumpPads.Each(func(_ arena.Handle, pad *world.JumpPad) {
			if !launched && pad.Trigger == c.Other {
				phys.SetVelocity(a.Body, pad.Force)
				launched = true
			}
		})
		if launched {
			return
		}
	}
}

// actorByBody resolves a physics body back to the actor owning it.
func actorByBody(st *world.State, body engine.BodyID) (arena.Handle, bool) {
	var (
		found arena.Handle
		ok    bool
	)
	st.Actors.Each(func(h arena.Handle, a *world.Actor) {
		if !ok && a.Body == body {
			found, ok = h, true
		}
	})
	return found, ok
}

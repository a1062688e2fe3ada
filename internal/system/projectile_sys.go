package system

import (
	"time"

	"github.com/gritfps/sim/internal/core/arena"
	coresys "github.com/gritfps/sim/internal/core/system"
	"github.com/gritfps/sim/internal/data"
	"github.com/gritfps/sim/internal/engine"
	"github.com/gritfps/sim/internal/world"
)

// ProjectileSystem advances every projectile along its flight path, sweeps
// the traveled segment for hits and counts lifetimes down. Expired or
// impacted projectiles are marked for removal; the actual free happens in the
// cleanup phase so handles stay valid for the rest of the frame.
// Phase 1 (Update).
type ProjectileSystem struct {
	state  *world.State
	svc    engine.Services
	tables *data.Tables
}

func NewProjectileSystem(st *world.State, svc engine.Services, tables *data.Tables) *ProjectileSystem {
	return &ProjectileSystem{state: st, svc: svc, tables: tables}
}

func (s *ProjectileSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ProjectileSystem) Update(dt time.Duration) {
	fdt := float32(dt.Seconds())
	sender := s.state.Sender()

	s.state.Projectiles.Each(func(h arena.Handle, p *world.Projectile) {
		p.Lifetime -= fdt
		if p.Lifetime <= 0 {
			s.state.MarkProjectileForRemoval(h)
			return
		}

		def := s.tables.Projectiles[p.Kind]
		step := p.Speed * fdt

		shooterBody := s.shooterBody(p)
		for _, hit := range s.svc.Physics.RayCast(p.Position, p.Dir, step+def.Radius) {
			if hit.Body == shooterBody {
				continue
			}
			if victim, ok := actorByBody(s.state, hit.Body); ok {
				attacker, _ := s.shooterActor(p)
				sender.Send(world.DamageActor{
					Actor:    victim,
					Attacker: attacker,
					Amount:   def.Damage,
				})
			}
			s.state.MarkProjectileForRemoval(h)
			return
		}

		p.Position = p.Position.Add(p.Dir.Scale(step))
		if p.Visual != 0 {
			s.svc.Scene.SetLocalPosition(p.Visual, p.Position)
		}
	})
}

// shooterBody resolves the body of the actor who fired the projectile, so a
// rocket does not detonate in its owner's face on the spawn frame.
func (s *ProjectileSystem) shooterBody(p *world.Projectile) engine.BodyID {
	if a, ok := s.shooterActorPtr(p); ok {
		return a.Body
	}
	return 0
}

func (s *ProjectileSystem) shooterActor(p *world.Projectile) (arena.Handle, bool) {
	w, ok := s.state.Weapons.Get(p.Owner)
	if !ok {
		return arena.None, false
	}
	if _, ok := s.state.Actors.Get(w.Owner); !ok {
		return arena.None, false
	}
	return w.Owner, true
}

func (s *ProjectileSystem) shooterActorPtr(p *world.Projectile) (*world.Actor, bool) {
	w, ok := s.state.Weapons.Get(p.Owner)
	if !ok {
		return nil, false
	}
	return s.state.Actors.Get(w.Owner)
}

package engine

import (
	"math"
	"sort"
)

// Headless implements all three services without a real engine: a flat-ground
// kinematic world and a minimal node tree. It backs the server binary and the
// test suite; a rendering build swaps in real engine adapters instead.
type Headless struct {
	nodes  map[NodeID]*headlessNode
	bodies map[BodyID]*headlessBody

	nextNode NodeID
	nextBody BodyID

	gravity float32

	// Sounds records every Play call, newest last.
	Sounds      []PlayedSound
	MusicVolume float32
}

type PlayedSound struct {
	Name string
	At   Vec3
}

type headlessNode struct {
	name       string
	parent     NodeID
	localPos   Vec3
	yaw, pitch float32
	visible    bool
}

type headlessBody struct {
	pos     Vec3
	vel     Vec3
	radius  float32
	trigger bool
}

func NewHeadless() *Headless {
	return &Headless{
		nodes:       make(map[NodeID]*headlessNode),
		bodies:      make(map[BodyID]*headlessBody),
		gravity:     -9.81,
		MusicVolume: 1,
	}
}

// Services returns the bundle backed by this instance.
func (h *Headless) Services() Services {
	return Services{Scene: h, Physics: h, Audio: h}
}

// ── Scene ──────────────────────────────────────────────────────────

func (h *Headless) CreateNode(name string) NodeID {
	h.nextNode++
	h.nodes[h.nextNode] = &headlessNode{name: name, visible: true}
	return h.nextNode
}

func (h *Headless) RemoveNode(id NodeID) {
	delete(h.nodes, id)
	for _, n := range h.nodes {
		if n.parent == id {
			n.parent = 0
		}
	}
}

func (h *Headless) Reparent(child, parent NodeID) {
	if n, ok := h.nodes[child]; ok {
		n.parent = parent
	}
}

func (h *Headless) SetLocalPosition(id NodeID, pos Vec3) {
	if n, ok := h.nodes[id]; ok {
		n.localPos = pos
	}
}

func (h *Headless) SetLocalRotation(id NodeID, yaw, pitch float32) {
	if n, ok := h.nodes[id]; ok {
		n.yaw, n.pitch = yaw, pitch
	}
}

func (h *Headless) SetVisible(id NodeID, visible bool) {
	if n, ok := h.nodes[id]; ok {
		n.visible = visible
	}
}

func (h *Headless) Visible(id NodeID) bool {
	n, ok := h.nodes[id]
	return ok && n.visible
}

func (h *Headless) GlobalPosition(id NodeID) Vec3 {
	var pos Vec3
	// Walk up the parent chain; depth-capped against accidental cycles.
	for depth := 0; depth < 64; depth++ {
		n, ok := h.nodes[id]
		if !ok {
			break
		}
		pos = pos.Add(n.localPos)
		if n.parent == 0 {
			break
		}
		id = n.parent
	}
	return pos
}

func (h *Headless) LookVector(id NodeID) Vec3 {
	n, ok := h.nodes[id]
	if !ok {
		return Vec3{Z: 1}
	}
	cy := float32(math.Cos(float64(n.yaw)))
	sy := float32(math.Sin(float64(n.yaw)))
	cp := float32(math.Cos(float64(n.pitch)))
	sp := float32(math.Sin(float64(n.pitch)))
	return Vec3{X: sy * cp, Y: -sp, Z: cy * cp}
}

// ── Physics ────────────────────────────────────────────────────────

func (h *Headless) CreateBody(pos Vec3, radius float32) BodyID {
	h.nextBody++
	h.bodies[h.nextBody] = &headlessBody{pos: pos, radius: radius}
	return h.nextBody
}

func (h *Headless) CreateTrigger(pos Vec3, radius float32) BodyID {
	h.nextBody++
	h.bodies[h.nextBody] = &headlessBody{pos: pos, radius: radius, trigger: true}
	return h.nextBody
}

func (h *Headless) RemoveBody(id BodyID) { delete(h.bodies, id) }

func (h *Headless) Position(id BodyID) Vec3 {
	if b, ok := h.bodies[id]; ok {
		return b.pos
	}
	return Vec3{}
}

func (h *Headless) SetPosition(id BodyID, pos Vec3) {
	if b, ok := h.bodies[id]; ok {
		b.pos = pos
	}
}

func (h *Headless) Velocity(id BodyID) Vec3 {
	if b, ok := h.bodies[id]; ok {
		return b.vel
	}
	return Vec3{}
}

func (h *Headless) SetVelocity(id BodyID, vel Vec3) {
	if b, ok := h.bodies[id]; ok {
		b.vel = vel
	}
}

func (h *Headless) RayCast(origin, dir Vec3, maxDist float32) []RayHit {
	d, ok := dir.Normalized()
	if !ok {
		return nil
	}
	var hits []RayHit
	for id, b := range h.bodies {
		if b.trigger {
			continue
		}
		// Ray/sphere intersection.
		oc := origin.Sub(b.pos)
		bq := oc.Dot(d)
		cq := oc.Dot(oc) - b.radius*b.radius
		disc := bq*bq - cq
		if disc < 0 {
			continue
		}
		t := -bq - float32(math.Sqrt(float64(disc)))
		if t < 0 || t > maxDist {
			continue
		}
		p := origin.Add(d.Scale(t))
		n := p.Sub(b.pos).NormalizedOr(Up)
		hits = append(hits, RayHit{Body: id, Position: p, Normal: n, Distance: t})
	}
	// Ground plane at y=0.
	if d.Y < -1e-6 && origin.Y > 0 {
		t := -origin.Y / d.Y
		if t >= 0 && t <= maxDist {
			hits = append(hits, RayHit{Position: origin.Add(d.Scale(t)), Normal: Up, Distance: t})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

func (h *Headless) Contacts(id BodyID) []Contact {
	b, ok := h.bodies[id]
	if !ok {
		return nil
	}
	var out []Contact
	for oid, o := range h.bodies {
		if oid == id {
			continue
		}
		r := b.radius + o.radius
		if b.pos.Distance(o.pos) <= r {
			out = append(out, Contact{Other: oid, Position: b.pos.Add(o.pos).Scale(0.5)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Other < out[j].Other })
	return out
}

func (h *Headless) HasGroundContact(id BodyID) bool {
	b, ok := h.bodies[id]
	if !ok {
		return false
	}
	return b.pos.Y-b.radius <= 1e-3
}

func (h *Headless) Step(dt float32) {
	for _, b := range h.bodies {
		if b.trigger {
			continue
		}
		b.vel.Y += h.gravity * dt
		b.pos = b.pos.Add(b.vel.Scale(dt))
		if b.pos.Y-b.radius < 0 {
			b.pos.Y = b.radius
			if b.vel.Y < 0 {
				b.vel.Y = 0
			}
		}
	}
}

// ── Audio ──────────────────────────────────────────────────────────

func (h *Headless) Play(name string, at Vec3) {
	h.Sounds = append(h.Sounds, PlayedSound{Name: name, At: at})
}

func (h *Headless) SetMusicVolume(v float32) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	h.MusicVolume = v
}

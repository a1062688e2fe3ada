package engine

import (
	"math"
	"testing"
)

func TestStepGravityAndGroundContact(t *testing.T) {
	h := NewHeadless()
	b := h.CreateBody(Vec3{Y: 5}, 0.5)

	if h.HasGroundContact(b) {
		t.Fatal("airborne body reports ground contact")
	}
	for i := 0; i < 600; i++ {
		h.Step(1.0 / 60)
	}
	if !h.HasGroundContact(b) {
		t.Fatal("fallen body never touched ground")
	}
	if got := h.Position(b).Y; math.Abs(float64(got-0.5)) > 1e-3 {
		t.Fatalf("resting height = %v, want radius 0.5", got)
	}
}

func TestRayCastOrderedNearToFar(t *testing.T) {
	h := NewHeadless()
	far := h.CreateBody(Vec3{Z: 10, Y: 1}, 1)
	near := h.CreateBody(Vec3{Z: 4, Y: 1}, 1)

	hits := h.RayCast(Vec3{Y: 1}, Vec3{Z: 1}, 50)
	if len(hits) != 2 {
		t.Fatalf("hit count = %d, want 2", len(hits))
	}
	if hits[0].Body != near || hits[1].Body != far {
		t.Fatalf("hits not ordered near-to-far: %v", hits)
	}
}

func TestRayCastDegenerateDirection(t *testing.T) {
	h := NewHeadless()
	h.CreateBody(Vec3{Z: 4, Y: 1}, 1)
	if hits := h.RayCast(Vec3{Y: 1}, Vec3{}, 50); hits != nil {
		t.Fatalf("zero-direction ray returned hits: %v", hits)
	}
}

func TestTriggerOverlapReportsContact(t *testing.T) {
	h := NewHeadless()
	body := h.CreateBody(Vec3{Y: 0.5}, 0.5)
	pad := h.CreateTrigger(Vec3{Y: 0.5}, 1)

	contacts := h.Contacts(body)
	found := false
	for _, c := range contacts {
		if c.Other == pad {
			found = true
		}
	}
	if !found {
		t.Fatal("overlapping trigger not reported in contacts")
	}
	// Triggers are sensors: rays pass through them.
	if hits := h.RayCast(Vec3{Y: 0.5, Z: -5}, Vec3{Z: 1}, 3); len(hits) != 0 {
		for _, hit := range hits {
			if hit.Body == pad {
				t.Fatal("ray cast hit a trigger volume")
			}
		}
	}
}

func TestGlobalPositionFollowsParentChain(t *testing.T) {
	h := NewHeadless()
	root := h.CreateNode("actor")
	hand := h.CreateNode("hand")
	h.Reparent(hand, root)
	h.SetLocalPosition(root, Vec3{X: 1, Y: 2})
	h.SetLocalPosition(hand, Vec3{Z: 3})

	got := h.GlobalPosition(hand)
	want := Vec3{X: 1, Y: 2, Z: 3}
	if got != want {
		t.Fatalf("global position = %v, want %v", got, want)
	}
}

func TestNormalizedOrFallsBackToUp(t *testing.T) {
	if got := (Vec3{}).NormalizedOr(Up); got != Up {
		t.Fatalf("degenerate normalize = %v, want %v", got, Up)
	}
	n, ok := (Vec3{X: 3}).Normalized()
	if !ok || n.X != 1 {
		t.Fatalf("normalize (3,0,0) = %v ok=%v", n, ok)
	}
}

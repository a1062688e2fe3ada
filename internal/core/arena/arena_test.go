package arena

import "testing"

type dummy struct {
	Name string `json:"name"`
}

func TestSpawnGetFree(t *testing.T) {
	a := New[dummy]()
	h := a.Spawn(dummy{Name: "one"})
	if h.IsNone() {
		t.Fatal("spawn returned None")
	}
	v, ok := a.Get(h)
	if !ok || v.Name != "one" {
		t.Fatalf("get after spawn: ok=%v v=%+v", ok, v)
	}
	if !a.Free(h) {
		t.Fatal("free of live handle returned false")
	}
	if _, ok := a.Get(h); ok {
		t.Fatal("get succeeded after free")
	}
	if a.Free(h) {
		t.Fatal("double free returned true")
	}
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	a := New[dummy]()
	h1 := a.Spawn(dummy{Name: "old"})
	a.Free(h1)

	h2 := a.Spawn(dummy{Name: "new"})
	if h2.Index() != h1.Index() {
		t.Fatalf("expected slot reuse, got index %d vs %d", h2.Index(), h1.Index())
	}
	if h1 == h2 {
		t.Fatal("recycled slot issued an identical handle")
	}
	if _, ok := a.Get(h1); ok {
		t.Fatal("stale handle resolved after slot reuse")
	}
	v, ok := a.Get(h2)
	if !ok || v.Name != "new" {
		t.Fatalf("fresh handle did not resolve: ok=%v v=%+v", ok, v)
	}
}

func TestZeroHandleNeverResolves(t *testing.T) {
	a := New[dummy]()
	a.Spawn(dummy{Name: "first"}) // occupies slot 0
	if _, ok := a.Get(None); ok {
		t.Fatal("None handle resolved to a live entity")
	}
	if !None.IsNone() {
		t.Fatal("None.IsNone() = false")
	}
}

func TestFreeHookFanOut(t *testing.T) {
	a := New[dummy]()
	var notified []Handle
	a.OnFree(func(h Handle) { notified = append(notified, h) })

	h := a.Spawn(dummy{})
	a.Free(h)
	a.Free(h) // stale, must not notify again

	if len(notified) != 1 || notified[0] != h {
		t.Fatalf("free hook calls = %v, want exactly [%v]", notified, h)
	}
}

func TestEachSlotOrder(t *testing.T) {
	a := New[dummy]()
	h0 := a.Spawn(dummy{Name: "a"})
	h1 := a.Spawn(dummy{Name: "b"})
	h2 := a.Spawn(dummy{Name: "c"})
	a.Free(h1)

	var seen []Handle
	a.Each(func(h Handle, _ *dummy) { seen = append(seen, h) })
	if len(seen) != 2 || seen[0] != h0 || seen[1] != h2 {
		t.Fatalf("Each order = %v, want [%v %v]", seen, h0, h2)
	}
	if a.Len() != 2 {
		t.Fatalf("Len = %d, want 2", a.Len())
	}
}

func TestEachPairVisitsDistinctPairs(t *testing.T) {
	a := New[dummy]()
	a.Spawn(dummy{Name: "a"})
	a.Spawn(dummy{Name: "b"})
	a.Spawn(dummy{Name: "c"})

	pairs := 0
	a.EachPair(func(h1 Handle, _ *dummy, h2 Handle, _ *dummy) {
		if h1 == h2 {
			t.Fatal("pair iteration yielded an entity against itself")
		}
		pairs++
	})
	if pairs != 3 {
		t.Fatalf("pair count = %d, want 3", pairs)
	}
}

func TestDumpRestoreKeepsHandlesValid(t *testing.T) {
	a := New[dummy]()
	h1 := a.Spawn(dummy{Name: "keep"})
	h2 := a.Spawn(dummy{Name: "drop"})
	a.Free(h2)

	b := Restore(a.Dump())
	v, ok := b.Get(h1)
	if !ok || v.Name != "keep" {
		t.Fatalf("restored arena lost live entity: ok=%v", ok)
	}
	if _, ok := b.Get(h2); ok {
		t.Fatal("freed handle resolved in restored arena")
	}
	// A slot freed before the dump must not re-issue the old generation.
	h3 := b.Spawn(dummy{Name: "again"})
	if h3 == h2 {
		t.Fatal("restored arena re-issued a handle from before the save")
	}
}

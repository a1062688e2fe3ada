package arena

// Handle encodes a 32-bit slot index in the lower bits and a 32-bit generation
// in the upper bits. Generation increments on free to invalidate stale handles.
// Generations start at 1 so the zero Handle is never a live reference.
type Handle uint64

// None is the invalid handle. Lookups with None always miss.
const None Handle = 0

func NewHandle(index uint32, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

func (h Handle) Index() uint32      { return uint32(h) }
func (h Handle) Generation() uint32 { return uint32(h >> 32) }
func (h Handle) IsNone() bool       { return h.Generation() == 0 }

type slot[T any] struct {
	value      T
	generation uint32
	live       bool
}

// Arena is a generational-handle container. It exclusively owns its entities;
// handles are non-owning lookup keys that go stale when their slot is freed.
// Iteration follows slot order and is stable only until the next Spawn/Free.
// Spawning or freeing while iterating is disallowed — defer such mutation.
type Arena[T any] struct {
	slots     []slot[T]
	freeList  []uint32
	count     int
	freeHooks []func(Handle)
}

func New[T any]() *Arena[T] {
	return &Arena[T]{
		slots:    make([]slot[T], 0, 64),
		freeList: make([]uint32, 0, 16),
	}
}

// Spawn inserts a value and returns a fresh handle for it.
func (a *Arena[T]) Spawn(v T) Handle {
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		s := &a.slots[idx]
		s.value = v
		s.live = true
		a.count++
		return NewHandle(idx, s.generation)
	}
	idx := uint32(len(a.slots))
	a.slots = append(a.slots, slot[T]{value: v, generation: 1, live: true})
	a.count++
	return NewHandle(idx, 1)
}

// Free invalidates a handle and recycles its slot. Freeing a stale or None
// handle is a no-op. On success every registered free hook is notified so
// owning systems can drop their own references to the entity.
func (a *Arena[T]) Free(h Handle) bool {
	idx := h.Index()
	if int(idx) >= len(a.slots) {
		return false
	}
	s := &a.slots[idx]
	if !s.live || s.generation != h.Generation() {
		return false // already freed (stale reference)
	}
	var zero T
	s.value = zero
	s.generation++
	s.live = false
	a.count--
	a.freeList = append(a.freeList, idx)
	for _, fn := range a.freeHooks {
		fn(h)
	}
	return true
}

// OnFree registers a hook invoked after every successful Free.
func (a *Arena[T]) OnFree(fn func(Handle)) {
	a.freeHooks = append(a.freeHooks, fn)
}

// Get returns the live entity for h, or false when the handle is stale.
// Handles are only ever produced by the arena itself, so a miss is a logic
// fault on the caller's side; callers decide whether that is fatal.
func (a *Arena[T]) Get(h Handle) (*T, bool) {
	idx := h.Index()
	if int(idx) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[idx]
	if !s.live || s.generation != h.Generation() {
		return nil, false
	}
	return &s.value, true
}

func (a *Arena[T]) Alive(h Handle) bool {
	_, ok := a.Get(h)
	return ok
}

func (a *Arena[T]) Len() int { return a.count }

// Each visits every live entity in slot order.
func (a *Arena[T]) Each(fn func(Handle, *T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.live {
			fn(NewHandle(uint32(i), s.generation), &s.value)
		}
	}
}

// EachPair visits every unordered pair of distinct live entities.
func (a *Arena[T]) EachPair(fn func(Handle, *T, Handle, *T)) {
	for i := range a.slots {
		si := &a.slots[i]
		if !si.live {
			continue
		}
		hi := NewHandle(uint32(i), si.generation)
		for j := i + 1; j < len(a.slots); j++ {
			sj := &a.slots[j]
			if !sj.live {
				continue
			}
			fn(hi, &si.value, NewHandle(uint32(j), sj.generation), &sj.value)
		}
	}
}

// SlotRecord is the serialized form of one arena slot. Free slots keep their
// generation so restored arenas never re-issue a handle an old save already
// contained.
type SlotRecord[T any] struct {
	Generation uint32 `json:"generation"`
	Live       bool   `json:"live"`
	Value      T      `json:"value,omitempty"`
}

// Dump serializes every slot, live and free, in slot order.
func (a *Arena[T]) Dump() []SlotRecord[T] {
	out := make([]SlotRecord[T], len(a.slots))
	for i := range a.slots {
		s := &a.slots[i]
		out[i] = SlotRecord[T]{Generation: s.generation, Live: s.live}
		if s.live {
			out[i].Value = s.value
		}
	}
	return out
}

// Restore rebuilds an arena from a Dump. Handles recorded inside the saved
// entities stay valid against the restored arena.
func Restore[T any](records []SlotRecord[T]) *Arena[T] {
	a := &Arena[T]{
		slots:    make([]slot[T], len(records)),
		freeList: make([]uint32, 0, 16),
	}
	for i, r := range records {
		a.slots[i] = slot[T]{value: r.Value, generation: r.Generation, live: r.Live}
		if r.Live {
			a.count++
		} else {
			a.freeList = append(a.freeList, uint32(i))
		}
	}
	return a
}

package resource

import (
	"errors"
	"fmt"
)

// ErrStaleHandle is returned when a handle refers to a slot that has been
// freed (and possibly reused) since the handle was issued.
var ErrStaleHandle = errors.New("resource: stale handle")

// Handle addresses a slot in an Arena. The zero Handle is never valid.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

// String returns a debug representation, e.g. "#3@2".
func (h Handle) String() string {
	if h.IsZero() {
		return "#nil"
	}
	return fmt.Sprintf("#%d@%d", h.index, h.gen)
}

type slot[T any] struct {
	item T
	gen  uint32 // odd while occupied
}

// Arena stores items in recycled slots addressed by generation-checked
// handles. Freeing a slot bumps its generation, so handles issued before the
// free no longer resolve.
//
// Arena is not safe for concurrent use.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

// Insert stores item and returns its handle.
func (a *Arena[T]) Insert(item T) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		// #nosec G115 -- slot count is bounded by live GPU objects
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{})
	}
	s := &a.slots[idx]
	s.gen++
	s.item = item
	a.live++
	return Handle{index: idx, gen: s.gen}
}

// Get returns the item for h.
func (a *Arena[T]) Get(h Handle) (T, bool) {
	if !a.Valid(h) {
		var zero T
		return zero, false
	}
	return a.slots[h.index].item, true
}

// Valid reports whether h refers to a live item.
func (a *Arena[T]) Valid(h Handle) bool {
	if h.IsZero() || int(h.index) >= len(a.slots) {
		return false
	}
	s := a.slots[h.index]
	return s.gen == h.gen && s.gen%2 == 1
}

// Remove frees the slot of h and returns the item it held.
func (a *Arena[T]) Remove(h Handle) (T, error) {
	var zero T
	if !a.Valid(h) {
		return zero, fmt.Errorf("%w: %s", ErrStaleHandle, h)
	}
	s := &a.slots[h.index]
	item := s.item
	s.item = zero
	s.gen++
	a.free = append(a.free, h.index)
	a.live--
	return item, nil
}

// Len returns the number of live items.
func (a *Arena[T]) Len() int { return a.live }

// Each calls fn for every live item in slot order.
func (a *Arena[T]) Each(fn func(Handle, T)) {
	for i, s := range a.slots {
		if s.gen%2 == 1 {
			// #nosec G115 -- slot count is bounded by live GPU objects
			fn(Handle{index: uint32(i), gen: s.gen}, s.item)
		}
	}
}

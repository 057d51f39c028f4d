package resource

import (
	"errors"
	"testing"
)

func TestArenaInsertGet(t *testing.T) {
	var a Arena[string]
	h1 := a.Insert("vbo")
	h2 := a.Insert("ibo")

	if h1 == h2 {
		t.Fatal("Insert() returned duplicate handles")
	}
	if v, ok := a.Get(h2); !ok || v != "ibo" {
		t.Errorf("Get(h2) = %q, %v, want ibo, true", v, ok)
	}
	if a.Len() != 2 {
		t.Errorf("Len() = %d, want 2", a.Len())
	}
}

func TestArenaZeroHandle(t *testing.T) {
	var a Arena[int]
	a.Insert(1)
	var h Handle
	if !h.IsZero() || a.Valid(h) {
		t.Error("zero handle must be invalid")
	}
	if h.String() != "#nil" {
		t.Errorf("String() = %q, want #nil", h.String())
	}
}

func TestArenaStaleHandle(t *testing.T) {
	var a Arena[int]
	old := a.Insert(1)
	if _, err := a.Remove(old); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	fresh := a.Insert(2)
	if fresh.index != old.index {
		t.Fatalf("slot not recycled: %v vs %v", fresh, old)
	}
	if a.Valid(old) {
		t.Error("stale handle still valid after slot reuse")
	}
	if _, ok := a.Get(old); ok {
		t.Error("Get(stale) succeeded")
	}
	if _, err := a.Remove(old); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Remove(stale) error = %v, want ErrStaleHandle", err)
	}
	if v, _ := a.Get(fresh); v != 2 {
		t.Errorf("Get(fresh) = %d, want 2", v)
	}
}

func TestArenaEach(t *testing.T) {
	var a Arena[int]
	a.Insert(1)
	h := a.Insert(2)
	a.Insert(3)
	_, _ = a.Remove(h)

	sum := 0
	a.Each(func(_ Handle, v int) { sum += v })
	if sum != 4 {
		t.Errorf("Each() sum = %d, want 4", sum)
	}
}

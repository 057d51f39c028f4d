package resource

import (
	"errors"
	"slices"
	"testing"
)

// hookLog records hook invocations.
type hookLog struct {
	added   []string
	removed []string
	reject  map[string]bool
}

func (h *hookLog) hooks() Hooks[int] {
	return Hooks[int]{
		OnAdd: func(name string, _ int) error {
			if h.reject[name] {
				return errors.New("rejected")
			}
			h.added = append(h.added, name)
			return nil
		},
		OnRemove: func(name string, _ int) {
			h.removed = append(h.removed, name)
		},
	}
}

func TestManagerAdd(t *testing.T) {
	log := &hookLog{}
	m := NewManager(log.hooks())

	a := m.Add("a", 10)
	b := m.Add("b", 20)
	if a != 1 || b != 2 {
		t.Errorf("Add() indices = %d, %d, want 1, 2", a, b)
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}

	got, ok := m.Get("b")
	if !ok || got != 20 {
		t.Errorf("Get(b) = %d, %v, want 20, true", got, ok)
	}
	got, ok = m.GetIndex(a)
	if !ok || got != 10 {
		t.Errorf("GetIndex(%d) = %d, %v, want 10, true", a, got, ok)
	}
	if name, _ := m.Name(b); name != "b" {
		t.Errorf("Name(%d) = %q, want %q", b, name, "b")
	}
	if idx, _ := m.Index("a"); idx != a {
		t.Errorf("Index(a) = %d, want %d", idx, a)
	}
}

func TestManagerAddIdempotent(t *testing.T) {
	log := &hookLog{}
	m := NewManager(log.hooks())

	first := m.Add("tex", 1)
	second := m.Add("tex", 2)
	if first != second {
		t.Errorf("second Add() = %d, want %d", second, first)
	}
	if len(log.added) != 1 {
		t.Errorf("OnAdd ran %d times, want 1", len(log.added))
	}
	if v, _ := m.Get("tex"); v != 1 {
		t.Errorf("Get(tex) = %d, want original item 1", v)
	}
}

func TestManagerAddRejected(t *testing.T) {
	log := &hookLog{reject: map[string]bool{"bad": true}}
	m := NewManager(log.hooks())

	if idx := m.Add("bad", 1); idx != 0 {
		t.Errorf("Add(bad) = %d, want 0", idx)
	}
	if m.Has("bad") || m.Len() != 0 {
		t.Error("rejected item left state behind")
	}
	// The counter did not advance.
	if idx := m.Add("good", 2); idx != 1 {
		t.Errorf("Add(good) = %d, want 1", idx)
	}
}

func TestManagerRemove(t *testing.T) {
	log := &hookLog{}
	m := NewManager(log.hooks())
	m.Add("a", 1)
	b := m.Add("b", 2)

	m.Remove("a")
	m.RemoveIndex(b)
	m.Remove("missing")
	m.RemoveIndex(99)

	if !slices.Equal(log.removed, []string{"a", "b"}) {
		t.Errorf("OnRemove calls = %v, want [a b]", log.removed)
	}
	if m.Has("a") || m.HasIndex(b) {
		t.Error("removed items still present")
	}
	if _, ok := m.Get("a"); ok {
		t.Error("Get(a) found a removed item")
	}
	if _, ok := m.Name(b); ok {
		t.Error("Name(b) found a removed index")
	}
	// Indices are not reused.
	if idx := m.Add("c", 3); idx != 3 {
		t.Errorf("Add(c) = %d, want 3", idx)
	}
}

func TestManagerClear(t *testing.T) {
	log := &hookLog{}
	m := NewManager(log.hooks())
	m.Add("x", 1)
	m.Add("y", 2)
	m.Add("z", 3)

	m.Clear()
	if !slices.Equal(log.removed, []string{"x", "y", "z"}) {
		t.Errorf("Clear() OnRemove order = %v, want [x y z]", log.removed)
	}
	if m.Len() != 0 {
		t.Errorf("Len() after Clear() = %d, want 0", m.Len())
	}
	if idx := m.Add("w", 4); idx != 1 {
		t.Errorf("Add() after Clear() = %d, want 1", idx)
	}
}

func TestManagerNames(t *testing.T) {
	m := NewManager(Hooks[string]{})
	for _, n := range []string{"c", "a", "b"} {
		m.Add(n, n)
	}
	m.Remove("a")
	if got := m.Names(); !slices.Equal(got, []string{"c", "b"}) {
		t.Errorf("Names() = %v, want [c b]", got)
	}
}

func TestManagerEmptyNamePanics(t *testing.T) {
	m := NewManager(Hooks[int]{})
	defer func() {
		if recover() == nil {
			t.Error("Add(\"\") did not panic")
		}
	}()
	m.Add("", 1)
}

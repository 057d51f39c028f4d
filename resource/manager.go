// Package resource provides registries for GPU-side resources.
//
// Manager maps unique names to monotonic indices and runs caller supplied
// hooks when an item enters or leaves the registry; the renderer uses one
// manager per resource kind (shaders, textures, buffers, fonts) so that
// allocation and release happen in exactly one place.
//
// Arena hands out generation-checked handles for backend objects so that a
// stale handle is detected instead of silently aliasing a recycled slot.
package resource

import (
	"slices"

	"github.com/gogpu/gfx"
)

// Hooks are invoked by a Manager around registration. Both are optional.
type Hooks[T any] struct {
	// OnAdd runs before the item is registered. A non-nil error rejects the
	// item: nothing is recorded and Add returns 0.
	OnAdd func(name string, item T) error

	// OnRemove runs before the item is erased, from Remove, RemoveIndex and
	// Clear.
	OnRemove func(name string, item T)
}

// Manager is a registry of named items with stable numeric indices.
//
// Names are unique. Indices start at 1 and grow monotonically; an index is
// never handed out twice until Clear resets the counter. Index 0 means
// "no item".
//
// Manager is not safe for concurrent use; it belongs to the render thread.
type Manager[T any] struct {
	hooks Hooks[T]

	byName      map[string]T
	byIndex     map[uint32]T
	nameToIndex map[string]uint32
	indexToName map[uint32]string
	next        uint32
}

// NewManager creates an empty manager with the given hooks.
func NewManager[T any](hooks Hooks[T]) *Manager[T] {
	return &Manager[T]{
		hooks:       hooks,
		byName:      make(map[string]T),
		byIndex:     make(map[uint32]T),
		nameToIndex: make(map[string]uint32),
		indexToName: make(map[uint32]string),
		next:        1,
	}
}

// Add registers item under name and returns its index.
//
// If name is already registered the existing index is returned and the
// OnAdd hook is not run again. If OnAdd fails the failure is logged and 0
// is returned.
func (m *Manager[T]) Add(name string, item T) uint32 {
	gfx.Assert(name != "", "resource.Manager.Add", "empty name")

	if idx, ok := m.nameToIndex[name]; ok {
		return idx
	}

	if m.hooks.OnAdd != nil {
		if err := m.hooks.OnAdd(name, item); err != nil {
			gfx.Logger().Warn("resource: add rejected", "name", name, "err", err)
			return 0
		}
	}

	idx := m.next
	m.next++
	m.byName[name] = item
	m.byIndex[idx] = item
	m.nameToIndex[name] = idx
	m.indexToName[idx] = name
	return idx
}

// Remove unregisters name, running OnRemove first. Unknown names are ignored.
func (m *Manager[T]) Remove(name string) {
	idx, ok := m.nameToIndex[name]
	if !ok {
		return
	}
	m.remove(name, idx)
}

// RemoveIndex unregisters the item at idx. Unknown indices are ignored.
func (m *Manager[T]) RemoveIndex(idx uint32) {
	name, ok := m.indexToName[idx]
	if !ok {
		return
	}
	m.remove(name, idx)
}

func (m *Manager[T]) remove(name string, idx uint32) {
	if m.hooks.OnRemove != nil {
		m.hooks.OnRemove(name, m.byName[name])
	}
	delete(m.byName, name)
	delete(m.byIndex, idx)
	delete(m.nameToIndex, name)
	delete(m.indexToName, idx)
}

// Get returns the item registered under name.
func (m *Manager[T]) Get(name string) (T, bool) {
	item, ok := m.byName[name]
	return item, ok
}

// GetIndex returns the item registered at idx.
func (m *Manager[T]) GetIndex(idx uint32) (T, bool) {
	item, ok := m.byIndex[idx]
	return item, ok
}

// Has reports whether name is registered.
func (m *Manager[T]) Has(name string) bool {
	_, ok := m.nameToIndex[name]
	return ok
}

// HasIndex reports whether idx is registered.
func (m *Manager[T]) HasIndex(idx uint32) bool {
	_, ok := m.indexToName[idx]
	return ok
}

// Index returns the index of name.
func (m *Manager[T]) Index(name string) (uint32, bool) {
	idx, ok := m.nameToIndex[name]
	return idx, ok
}

// Name returns the name registered at idx.
func (m *Manager[T]) Name(idx uint32) (string, bool) {
	name, ok := m.indexToName[idx]
	return name, ok
}

// Len returns the number of registered items.
func (m *Manager[T]) Len() int { return len(m.byName) }

// Names returns the registered names in index order.
func (m *Manager[T]) Names() []string {
	idxs := m.sortedIndices()
	names := make([]string, len(idxs))
	for i, idx := range idxs {
		names[i] = m.indexToName[idx]
	}
	return names
}

// Clear runs OnRemove for every item in index order, empties the manager
// and resets the index counter to 1.
func (m *Manager[T]) Clear() {
	for _, idx := range m.sortedIndices() {
		name := m.indexToName[idx]
		if m.hooks.OnRemove != nil {
			m.hooks.OnRemove(name, m.byIndex[idx])
		}
	}
	clear(m.byName)
	clear(m.byIndex)
	clear(m.nameToIndex)
	clear(m.indexToName)
	m.next = 1
}

func (m *Manager[T]) sortedIndices() []uint32 {
	idxs := make([]uint32, 0, len(m.indexToName))
	for idx := range m.indexToName {
		idxs = append(idxs, idx)
	}
	slices.Sort(idxs)
	return idxs
}

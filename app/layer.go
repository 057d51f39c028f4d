package app

import "slices"

// Layer is one slice of an application's per-frame work.
type Layer interface {
	Name() string
	Enabled() bool

	// OnAttach is called when the layer enters a LayerStack and OnDetach
	// when it leaves.
	OnAttach()
	OnDetach()

	// OnUpdate runs once per frame. t is the time since the application
	// started and dt the time since the previous frame, both in seconds.
	OnUpdate(t, dt float64)

	// OnEvent reports whether the layer handled ev. Handled events are not
	// offered to the layers below.
	OnEvent(ev Event) bool
}

// BaseLayer implements Layer with no-op callbacks. Embed it and override
// what the layer needs.
type BaseLayer struct {
	name     string
	disabled bool
}

// NewBaseLayer returns an enabled base layer named name.
func NewBaseLayer(name string) BaseLayer { return BaseLayer{name: name} }

func (l *BaseLayer) Name() string  { return l.name }
func (l *BaseLayer) Enabled() bool { return !l.disabled }
func (l *BaseLayer) Enable()       { l.disabled = false }
func (l *BaseLayer) Disable()      { l.disabled = true }

func (l *BaseLayer) OnAttach()              {}
func (l *BaseLayer) OnDetach()              {}
func (l *BaseLayer) OnUpdate(t, dt float64) {}
func (l *BaseLayer) OnEvent(Event) bool     { return false }

// LayerStack orders layers front to back. Updates run front to back;
// events travel back to front so the topmost layer sees them first.
type LayerStack struct {
	layers []Layer
}

// PushBack appends l and attaches it.
func (s *LayerStack) PushBack(l Layer) {
	s.layers = append(s.layers, l)
	l.OnAttach()
}

// PushFront inserts l before every other layer and attaches it.
func (s *LayerStack) PushFront(l Layer) {
	s.layers = slices.Insert(s.layers, 0, l)
	l.OnAttach()
}

// PopBack detaches and removes the last layer. It returns nil when the
// stack is empty.
func (s *LayerStack) PopBack() Layer {
	n := len(s.layers)
	if n == 0 {
		return nil
	}
	l := s.layers[n-1]
	s.layers[n-1] = nil
	s.layers = s.layers[:n-1]
	l.OnDetach()
	return l
}

// PopFront detaches and removes the first layer.
func (s *LayerStack) PopFront() Layer {
	if len(s.layers) == 0 {
		return nil
	}
	l := s.layers[0]
	s.layers = slices.Delete(s.layers, 0, 1)
	l.OnDetach()
	return l
}

// Remove detaches and removes l. It reports whether l was in the stack.
func (s *LayerStack) Remove(l Layer) bool {
	i := slices.Index(s.layers, l)
	if i < 0 {
		return false
	}
	s.layers = slices.Delete(s.layers, i, i+1)
	l.OnDetach()
	return true
}

// Clear detaches every layer, front to back.
func (s *LayerStack) Clear() {
	for _, l := range s.layers {
		l.OnDetach()
	}
	clear(s.layers)
	s.layers = s.layers[:0]
}

func (s *LayerStack) Len() int { return len(s.layers) }

// Layers returns the layers front to back. The slice must not be modified.
func (s *LayerStack) Layers() []Layer { return s.layers }

// OnUpdate updates the enabled layers front to back.
func (s *LayerStack) OnUpdate(t, dt float64) {
	for _, l := range s.layers {
		if l.Enabled() {
			l.OnUpdate(t, dt)
		}
	}
}

// OnEvent offers ev to the enabled layers back to front and reports
// whether one of them handled it.
func (s *LayerStack) OnEvent(ev Event) bool {
	for i := len(s.layers) - 1; i >= 0; i-- {
		l := s.layers[i]
		if l.Enabled() && l.OnEvent(ev) {
			return true
		}
	}
	return false
}

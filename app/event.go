package app

import (
	"github.com/gogpu/gfx"
	"github.com/gogpu/gpucontext"
)

// Event is a window or input event. The concrete types are KeyEvent,
// TextEvent, MouseMoveEvent, MouseButtonEvent, ScrollEvent, ResizeEvent
// and FocusEvent.
type Event interface {
	event()
}

type KeyEvent struct {
	Key     gpucontext.Key
	Mods    gpucontext.Modifiers
	Pressed bool
}

type TextEvent struct {
	Text string
}

type MouseMoveEvent struct {
	X, Y float64
}

type MouseButtonEvent struct {
	Button  gpucontext.MouseButton
	X, Y    float64
	Pressed bool
}

type ScrollEvent struct {
	DX, DY float64
}

type ResizeEvent struct {
	Width, Height int
}

type FocusEvent struct {
	Focused bool
}

func (KeyEvent) event()         {}
func (TextEvent) event()        {}
func (MouseMoveEvent) event()   {}
func (MouseButtonEvent) event() {}
func (ScrollEvent) event()      {}
func (ResizeEvent) event()      {}
func (FocusEvent) event()       {}

// eventQueue buffers events from the window thread until the frame loop
// drains them.
type eventQueue chan Event

func (q eventQueue) push(ev Event) {
	select {
	case q <- ev:
	default:
		gfx.Logger().Warn("app: event queue full, dropping event", "event", ev)
	}
}

// subscribe routes every callback of src into q.
func (q eventQueue) subscribe(src gpucontext.EventSource) {
	src.OnKeyPress(func(k gpucontext.Key, m gpucontext.Modifiers) {
		q.push(KeyEvent{Key: k, Mods: m, Pressed: true})
	})
	src.OnKeyRelease(func(k gpucontext.Key, m gpucontext.Modifiers) {
		q.push(KeyEvent{Key: k, Mods: m})
	})
	src.OnTextInput(func(text string) { q.push(TextEvent{Text: text}) })
	src.OnMouseMove(func(x, y float64) { q.push(MouseMoveEvent{X: x, Y: y}) })
	src.OnMousePress(func(b gpucontext.MouseButton, x, y float64) {
		q.push(MouseButtonEvent{Button: b, X: x, Y: y, Pressed: true})
	})
	src.OnMouseRelease(func(b gpucontext.MouseButton, x, y float64) {
		q.push(MouseButtonEvent{Button: b, X: x, Y: y})
	})
	src.OnScroll(func(dx, dy float64) { q.push(ScrollEvent{DX: dx, DY: dy}) })
	src.OnResize(func(w, h int) { q.push(ResizeEvent{Width: w, Height: h}) })
	src.OnFocus(func(focused bool) { q.push(FocusEvent{Focused: focused}) })
}

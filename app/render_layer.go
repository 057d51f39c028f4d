package app

import "github.com/gogpu/gfx/render"

// PrepareFunc records a frame's commands into s.
type PrepareFunc func(s *render.Script, t, dt float64)

// RenderLayer records a fresh script every frame and executes it.
type RenderLayer struct {
	BaseLayer
	script  *render.Script
	prepare PrepareFunc
}

// NewRenderLayer creates a layer drawing with r.
func NewRenderLayer(name string, r *render.Renderer, prepare PrepareFunc) *RenderLayer {
	return &RenderLayer{BaseLayer: NewBaseLayer(name), script: r.NewScript(), prepare: prepare}
}

// Script returns the script recorded by the last update.
func (l *RenderLayer) Script() *render.Script { return l.script }

func (l *RenderLayer) OnUpdate(t, dt float64) {
	l.script.Reset()
	if l.prepare != nil {
		l.prepare(l.script, t, dt)
	}
	if l.script.Len() > 0 {
		l.script.Execute()
	}
}

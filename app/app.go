// Package app runs a render.Renderer in a fixed-rate frame loop driven by
// a stack of layers.
//
//	cfg, err := app.LoadConfig("gfx.yaml")
//	...
//	a, err := app.New(cfg, r, app.WithEventSource(window))
//	a.Layers().PushBack(app.NewRenderLayer("scene", r, drawScene))
//	err = a.Run(ctx)
//
// Events from the window are queued and delivered on the loop goroutine
// between frames, so layers never run concurrently with each other.
package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/render"
	"github.com/gogpu/gpucontext"
)

// eventBuffer is the capacity of the window event queue.
const eventBuffer = 256

// Option configures New.
type Option func(*options)

type options struct {
	source    gpucontext.EventSource
	maxFrames int
}

// WithEventSource delivers the window events of src to the layers.
func WithEventSource(src gpucontext.EventSource) Option {
	return func(o *options) { o.source = src }
}

// WithMaxFrames stops Run after n frames. Zero runs until stopped.
func WithMaxFrames(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxFrames = n
		}
	}
}

// Application owns the frame loop.
type Application struct {
	cfg     Config
	r       *render.Renderer
	layers  LayerStack
	events  eventQueue
	exitKey gpucontext.Key
	opts    options

	stop     chan struct{}
	stopOnce sync.Once
	frames   atomic.Int64
}

// New creates an application for cfg drawing with r.
func New(cfg Config, r *render.Renderer, opts ...Option) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	gfx.Assert(r != nil, "app.New", "nil renderer")
	key, _ := cfg.Key()
	a := &Application{
		cfg:     cfg,
		r:       r,
		events:  make(eventQueue, eventBuffer),
		exitKey: key,
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(&a.opts)
	}
	if a.opts.source != nil {
		a.events.subscribe(a.opts.source)
	}
	r.SetViewportSize(cfg.Width, cfg.Height)
	return a, nil
}

// Config returns the configuration the application was created with.
func (a *Application) Config() Config { return a.cfg }

// Renderer returns the renderer.
func (a *Application) Renderer() *render.Renderer { return a.r }

// Layers returns the layer stack.
func (a *Application) Layers() *LayerStack { return &a.layers }

// Frames returns the number of frames run so far. It is safe to call from
// any goroutine.
func (a *Application) Frames() int { return int(a.frames.Load()) }

// Stop ends Run after the current frame. It is safe to call from any
// goroutine and more than once.
func (a *Application) Stop() {
	a.stopOnce.Do(func() { close(a.stop) })
}

// Post queues ev as if it came from the event source.
func (a *Application) Post(ev Event) { a.events.push(ev) }

// Run runs frames at Config.FPS until Stop, the frame limit or the
// cancellation of ctx. Every layer is detached before Run returns. The
// error is ctx.Err() when ctx ended the loop and nil otherwise.
func (a *Application) Run(ctx context.Context) error {
	log := gfx.Logger()
	log.Info("app: running", "title", a.cfg.Title, "width", a.cfg.Width, "height", a.cfg.Height, "fps", a.cfg.FPS)
	defer a.layers.Clear()

	ticker := time.NewTicker(time.Second / time.Duration(a.cfg.FPS))
	defer ticker.Stop()

	start := time.Now()
	last := start
	for {
		select {
		case <-ctx.Done():
			log.Info("app: cancelled", "frames", a.Frames())
			return ctx.Err()
		case <-a.stop:
			log.Info("app: stopped", "frames", a.Frames())
			return nil
		case ev := <-a.events:
			a.dispatch(ev)
		case now := <-ticker.C:
			a.drain()
			if a.stopped() {
				continue
			}
			a.frame(now.Sub(start).Seconds(), now.Sub(last).Seconds())
			last = now
			if n := a.opts.maxFrames; n > 0 && a.Frames() >= n {
				a.Stop()
			}
		}
	}
}

func (a *Application) stopped() bool {
	select {
	case <-a.stop:
		return true
	default:
		return false
	}
}

// drain dispatches every queued event.
func (a *Application) drain() {
	for {
		select {
		case ev := <-a.events:
			a.dispatch(ev)
		default:
			return
		}
	}
}

func (a *Application) dispatch(ev Event) {
	switch e := ev.(type) {
	case KeyEvent:
		if e.Pressed && a.exitKey != gpucontext.KeyUnknown && e.Key == a.exitKey {
			a.Stop()
			return
		}
	case ResizeEvent:
		if e.Width > 0 && e.Height > 0 {
			a.r.SetViewportSize(e.Width, e.Height)
		}
	}
	a.layers.OnEvent(ev)
}

// frame clears the screen and updates the layers.
func (a *Application) frame(t, dt float64) {
	a.r.Begin()
	a.r.Clear(a.cfg.Color())
	a.r.End()
	a.layers.OnUpdate(t, dt)
	a.frames.Add(1)
}

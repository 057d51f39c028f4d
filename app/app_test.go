package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gfx/gpu/gputest"
	"github.com/gogpu/gfx/render"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// window is an EventSource whose callbacks tests can fire.
type window struct {
	gpucontext.NullEventSource
	keyPress func(gpucontext.Key, gpucontext.Modifiers)
	resize   func(int, int)
}

func (w *window) OnKeyPress(fn func(gpucontext.Key, gpucontext.Modifiers)) { w.keyPress = fn }
func (w *window) OnResize(fn func(int, int))                             { w.resize = fn }

type fixture struct {
	r   *render.Renderer
	ctx *gputest.Context
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dev, ctx := gputest.New()
	r := render.NewRenderer(ctx, dev)
	t.Cleanup(r.Release)
	return fixture{r: r, ctx: ctx}
}

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.FPS = 1000
	return cfg
}

func runWithTimeout(t *testing.T, a *Application) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := a.Run(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("Run() did not stop")
	}
	return err
}

func TestRunMaxFrames(t *testing.T) {
	f := newFixture(t)
	a, err := New(fastConfig(), f.r, WithMaxFrames(3))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	var log []string
	l := newRec("scene", &log)
	a.Layers().PushBack(l)

	if err := runWithTimeout(t, a); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if a.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", a.Frames())
	}
	expectLog(t, &log, "attach:scene", "update:scene", "update:scene", "update:scene", "detach:scene")
	if got := f.ctx.Log.Count("Clear"); got != 3 {
		t.Errorf("Clear calls = %d, want 3", got)
	}
}

func TestRunExitKey(t *testing.T) {
	f := newFixture(t)
	w := &window{}
	a, err := New(fastConfig(), f.r, WithEventSource(w))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	var log []string
	a.Layers().PushBack(newRec("ui", &log))

	w.keyPress(gpucontext.KeyA, 0)
	w.keyPress(gpucontext.KeyEscape, 0)
	if err := runWithTimeout(t, a); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, op := range log {
		if op == "event:ui" {
			return
		}
	}
	t.Errorf("KeyA not delivered: %v", log)
}

func TestRunResize(t *testing.T) {
	f := newFixture(t)
	w := &window{}
	a, err := New(fastConfig(), f.r, WithEventSource(w), WithMaxFrames(1))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if wd, ht := f.r.ViewportSize(); wd != 800 || ht != 600 {
		t.Errorf("initial ViewportSize() = %dx%d", wd, ht)
	}

	w.resize(1024, 768)
	if err := runWithTimeout(t, a); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if wd, ht := f.r.ViewportSize(); wd != 1024 || ht != 768 {
		t.Errorf("ViewportSize() = %dx%d, want 1024x768", wd, ht)
	}
}

func TestRunCancelled(t *testing.T) {
	f := newFixture(t)
	a, err := New(DefaultConfig(), f.r)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	a.Stop()
	a.Stop()
}

func TestNewInvalidConfig(t *testing.T) {
	f := newFixture(t)
	cfg := DefaultConfig()
	cfg.FPS = 0
	if _, err := New(cfg, f.r); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New() error = %v, want ErrInvalidConfig", err)
	}
}

func TestRenderLayer(t *testing.T) {
	f := newFixture(t)
	var gotT, gotDT float64
	l := NewRenderLayer("clear", f.r, func(s *render.Script, t, dt float64) {
		gotT, gotDT = t, dt
		s.Clear(gputypes.Color{R: 1, A: 1})
		s.SetView(mgl32.Ident4())
	})

	l.OnUpdate(2, 0.5)
	if gotT != 2 || gotDT != 0.5 {
		t.Errorf("prepare(t, dt) = %v, %v", gotT, gotDT)
	}
	if l.Script().Len() != 2 {
		t.Errorf("Script().Len() = %d, want 2", l.Script().Len())
	}
	l.OnUpdate(3, 1)
	if got := f.ctx.Log.Count("Clear"); got != 2 {
		t.Errorf("Clear calls = %d, want 2", got)
	}
	if l.Script().Len() != 2 {
		t.Errorf("script not reset: Len() = %d", l.Script().Len())
	}

	empty := NewRenderLayer("empty", f.r, nil)
	empty.OnUpdate(0, 0)
	if got := f.ctx.Log.Count("Enter"); got != 2 {
		t.Errorf("Enter calls = %d, want 2", got)
	}
}

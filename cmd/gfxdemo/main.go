// Command gfxdemo runs a spinning triangle and a text overlay through the
// render pipeline for a fixed number of frames.
//
// Without a window it renders headless on the noop backend, which exercises
// the full record, batch and submit path:
//
//	gfxdemo -frames 120 -v
//	gfxdemo -config gfx.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/app"
	"github.com/gogpu/gfx/gpu"
	_ "github.com/gogpu/gfx/gpu/halgpu"
	"github.com/gogpu/gfx/layout"
	"github.com/gogpu/gfx/render"
)

var triangle = []float32{
	// x, y, r, g, b
	0, 0.6, 1, 0.2, 0.2,
	-0.6, -0.4, 0.2, 1, 0.2,
	0.6, -0.4, 0.2, 0.2, 1,
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML window config")
		backend    = flag.String("backend", "", "gpu backend (default: best registered)")
		frames     = flag.Int("frames", 60, "frames to run, 0 runs until interrupted")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	gfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(*configPath, *backend, *frames); err != nil {
		fmt.Fprintln(os.Stderr, "gfxdemo:", err)
		os.Exit(1)
	}
}

func run(configPath, backend string, frames int) error {
	cfg := app.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = app.LoadConfig(configPath); err != nil {
			return err
		}
	}

	dev, ctx, err := gpu.OpenBackend(backend)
	if err != nil {
		return err
	}
	r := render.NewRenderer(ctx, dev, render.WithViewportSize(cfg.Width, cfg.Height))
	if err := r.Init(); err != nil {
		return err
	}
	defer r.Release()

	r.RegisterShader("flat", r.NewShader(render.FlatShaderSource()))
	vb := r.NewVertexBuffer(len(triangle)*4, layout.MustParse("2f 3f"), false)
	if r.RegisterBuffer("triangle", vb) == 0 {
		return errors.New("register triangle buffer failed")
	}
	vb.Upload(gpu.Float32Bytes(triangle...))

	a, err := app.New(cfg, r, app.WithMaxFrames(frames))
	if err != nil {
		return err
	}
	a.Layers().PushBack(app.NewRenderLayer("triangle", r, func(s *render.Script, t, _ float64) {
		s.EnableShaderByName("flat")
		s.Draw(vb, nil, gpu.Triangles, mgl32.HomogRotate3DZ(float32(t)), 3, 0)
		s.DisableShader()
	}))
	a.Layers().PushBack(app.NewRenderLayer("hud", r, func(s *render.Script, t, dt float64) {
		fps := 0.0
		if dt > 0 {
			fps = 1 / dt
		}
		s.DrawText(fmt.Sprintf("t=%.2fs  %.0f fps", t, fps), mgl32.Vec2{8, 8}, mgl32.Vec4{1, 1, 1, 1}, 1, render.DefaultFontName)
	}))

	sigctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := a.Run(sigctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	gfx.Logger().Info("gfxdemo: done", "frames", a.Frames())
	return nil
}

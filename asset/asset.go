// Package asset loads images, fonts and shaders from an fs.FS.
//
// A Registry maps asset kinds to Loaders. The built-in kinds are "image",
// "font" and "shader"; applications may register more.
//
//	reg := asset.NewRegistry(os.DirFS("assets"))
//	img, err := reg.LoadImage("textures/brick.png", asset.Options{FlipVertically: true})
package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/gogpu/gfx"
)

// Built-in asset kinds.
const (
	KindImage  = "image"
	KindFont   = "font"
	KindShader = "shader"
)

// ErrUnknownKind is returned when no loader is registered for a kind.
var ErrUnknownKind = errors.New("asset: unknown kind")

// Options tunes a load. Loaders ignore the fields that do not apply.
type Options struct {
	// FlipVertically and FlipHorizontally mirror decoded images.
	FlipVertically   bool
	FlipHorizontally bool

	// PixelHeight is the font atlas height; 0 selects DefaultPixelHeight.
	PixelHeight float64

	// Vertex and Fragment override the shader entry points.
	Vertex, Fragment string
}

// DefaultPixelHeight is the font atlas height used when Options leaves it
// unset.
const DefaultPixelHeight = 16

// Loader decodes one kind of asset.
type Loader interface {
	Load(fsys fs.FS, path string, opts Options) (any, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(fsys fs.FS, path string, opts Options) (any, error)

func (f LoaderFunc) Load(fsys fs.FS, path string, opts Options) (any, error) {
	return f(fsys, path, opts)
}

// Registry resolves asset kinds to loaders over one file system.
//
// Registry is safe for concurrent use.
type Registry struct {
	fsys fs.FS

	mu      sync.RWMutex
	loaders map[string]Loader
}

// NewRegistry creates a registry over fsys with the built-in loaders.
func NewRegistry(fsys fs.FS) *Registry {
	r := &Registry{fsys: fsys, loaders: make(map[string]Loader)}
	r.Register(KindImage, ImageLoader{})
	r.Register(KindFont, FontLoader{})
	r.Register(KindShader, ShaderLoader{})
	return r
}

// Register installs l for kind, replacing any previous loader.
func (r *Registry) Register(kind string, l Loader) {
	gfx.Assert(kind != "", "asset.Registry.Register", "empty kind")
	gfx.Assert(l != nil, "asset.Registry.Register", "nil loader for %q", kind)
	r.mu.Lock()
	r.loaders[kind] = l
	r.mu.Unlock()
}

// Has reports whether a loader is registered for kind.
func (r *Registry) Has(kind string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.loaders[kind]
	return ok
}

// Load loads path with the loader for kind. Failures are logged and
// returned with a nil resource.
func (r *Registry) Load(kind, path string, opts Options) (any, error) {
	r.mu.RLock()
	l, ok := r.loaders[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}

	v, err := l.Load(r.fsys, path, opts)
	if err != nil {
		gfx.Logger().Error("asset: load failed", "kind", kind, "path", path, "err", err)
		return nil, err
	}
	gfx.Logger().Debug("asset: loaded", "kind", kind, "path", path)
	return v, nil
}

// load is Load with a typed result.
func load[T any](r *Registry, kind, path string, opts Options) (T, error) {
	var zero T
	v, err := r.Load(kind, path, opts)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("asset: %s loader returned %T for %s", kind, v, path)
	}
	return t, nil
}

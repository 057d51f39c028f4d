package asset

import (
	"io/fs"
	"path"
	"strings"

	"github.com/gogpu/gfx/gpu"
	"github.com/gogpu/gfx/shader"
)

// ShaderLoader reads a WGSL file into a gpu.ShaderSource labelled with the
// file name without its extension. The source is parsed so that syntax
// errors surface at load time.
type ShaderLoader struct{}

func (ShaderLoader) Load(fsys fs.FS, name string, opts Options) (any, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	src := gpu.ShaderSource{
		Label:    strings.TrimSuffix(path.Base(name), path.Ext(name)),
		WGSL:     string(data),
		Vertex:   opts.Vertex,
		Fragment: opts.Fragment,
	}
	if _, err := shader.Compile(src.WGSL); err != nil {
		return nil, err
	}
	return src, nil
}

// LoadShader loads a shader with the "shader" loader.
func (r *Registry) LoadShader(name string, opts Options) (gpu.ShaderSource, error) {
	return load[gpu.ShaderSource](r, KindShader, name, opts)
}

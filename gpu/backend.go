// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gpucontext"
)

// Backend opens a device and its context.
type Backend interface {
	Name() string
	Open() (Device, Context, error)
}

// backends holds registered backend factories. Real backends are preferred
// over the recording test backend.
var backends = gpucontext.NewRegistry[Backend](
	gpucontext.WithPriority("hal", "noop", "test"),
)

// RegisterBackend registers a backend factory under name. Backends call it
// from init. Registering an existing name replaces it.
func RegisterBackend(name string, factory func() Backend) {
	backends.Register(name, factory)
}

// UnregisterBackend removes a backend factory.
func UnregisterBackend(name string) {
	backends.Unregister(name)
}

// Backends returns the registered backend names.
func Backends() []string {
	return backends.Available()
}

// OpenBackend opens the named backend, or the best registered one when
// name is empty.
func OpenBackend(name string) (Device, Context, error) {
	var b Backend
	if name == "" {
		name = backends.BestName()
	}
	if name != "" {
		b = backends.Get(name)
	}
	if b == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrNoBackend, name)
	}
	dev, ctx, err := b.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("gpu: open backend %q: %w", name, err)
	}
	gfx.Logger().Info("gpu: backend opened", "backend", b.Name())
	return dev, ctx, nil
}

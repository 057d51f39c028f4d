// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import "errors"

var (
	// ErrNotAllocated is returned when a handle is used before Allocate.
	ErrNotAllocated = errors.New("gpu: resource not allocated")

	// ErrNilDevice is returned when a handle has no device.
	ErrNilDevice = errors.New("gpu: nil device")

	// ErrNoBackend is returned by OpenBackend when no backend matches.
	ErrNoBackend = errors.New("gpu: no backend available")

	// ErrUniformType is returned when a value has no uniform encoding.
	ErrUniformType = errors.New("gpu: unsupported uniform type")
)

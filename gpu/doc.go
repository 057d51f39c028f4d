// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu defines the GPU resource handles used by the render pipeline
// and the backend boundary they talk to.
//
// # Handles
//
// Buffer, Texture and Shader are Go-side handles created against a [Device].
// Creating a handle does not touch the GPU; Allocate does, and Free releases
// the backend object exactly once. The renderer's resource managers call
// Allocate and Free from their add and remove hooks, so application code
// normally never calls them directly.
//
// # Backends
//
// A backend supplies a [Device] (resource creation) and a [Context]
// (pipeline state and draw submission). Backends register a factory with
// [RegisterBackend]; [OpenBackend] opens one by name, or the best available
// when the name is empty.
//
//   - gpu/halgpu: github.com/gogpu/wgpu/hal
//   - gpu/gputest: records every call, for tests
//
// # Contract violations
//
// Writing past the end of a buffer, freeing twice, or using a handle that
// was never allocated panics with a *gfx.ContractError.
package gpu

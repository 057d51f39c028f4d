// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// EncodeUniform returns the std140-compatible little-endian encoding of v.
//
// mat3 columns are padded to vec4 as WGSL requires.
func EncodeUniform(v any) ([]byte, error) {
	switch x := v.(type) {
	case float32:
		return Float32Bytes(x), nil
	case float64:
		return Float32Bytes(float32(x)), nil
	case int32:
		return Uint32Bytes(uint32(x)), nil
	case int:
		return Uint32Bytes(uint32(int32(x))), nil
	case uint32:
		return Uint32Bytes(x), nil
	case bool:
		if x {
			return Uint32Bytes(1), nil
		}
		return Uint32Bytes(0), nil
	case mgl32.Vec2:
		return Float32Bytes(x[:]...), nil
	case mgl32.Vec3:
		return Float32Bytes(x[:]...), nil
	case mgl32.Vec4:
		return Float32Bytes(x[:]...), nil
	case mgl32.Mat2:
		return Float32Bytes(x[:]...), nil
	case mgl32.Mat3:
		out := make([]byte, 48)
		for c := range 3 {
			for r := range 3 {
				binary.LittleEndian.PutUint32(out[c*16+r*4:], math.Float32bits(x[c*3+r]))
			}
		}
		return out, nil
	case mgl32.Mat4:
		return Float32Bytes(x[:]...), nil
	case []float32:
		return Float32Bytes(x...), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUniformType, v)
}

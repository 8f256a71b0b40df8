// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

// Transforms are column-major 4x4 matrices, element (row, col) at
// index col*4+row, matching what GPU APIs consume directly. Full spatial
// math (decomposition, interpolation) belongs to the transform collaborator;
// the graph only needs identity and composition.

// Identity returns the identity transform.
func Identity() [16]float32 {
	return [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns a·b, applying b first.
func Mul(a, b [16]float32) [16]float32 {
	var out [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Translation returns a transform that offsets by (x, y, z). Handy for
// clients that only position content.
func Translation(x, y, z float32) [16]float32 {
	m := Identity()
	m[12] = x
	m[13] = y
	m[14] = z
	return m
}

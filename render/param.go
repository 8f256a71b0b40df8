// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

// ParamValue is a material parameter value staged by clients and applied by
// the render goroutine. The set of kinds mirrors what shaders can consume;
// all kinds are comparable so staging maps can coalesce by value.
//
// TextureID is special: it names an asset, and the drawable layer resolves
// and uploads it before binding, so drivers only ever see [Material.SetTexture].
type ParamValue interface {
	paramValue()
}

type (
	// Float is a scalar float parameter.
	Float float32
	// Vec2 is a 2-component float vector.
	Vec2 [2]float32
	// Vec3 is a 3-component float vector.
	Vec3 [3]float32
	// Vec4 is a 4-component float vector.
	Vec4 [4]float32
	// Color is an RGBA color in linear space.
	Color [4]float32
	// Int is a scalar signed integer parameter.
	Int int32
	// Int2 is a 2-component signed integer vector.
	Int2 [2]int32
	// Int3 is a 3-component signed integer vector.
	Int3 [3]int32
	// Int4 is a 4-component signed integer vector.
	Int4 [4]int32
	// Bool is a boolean parameter.
	Bool bool
	// UInt is a scalar unsigned integer parameter.
	UInt uint32
	// UInt2 is a 2-component unsigned integer vector.
	UInt2 [2]uint32
	// UInt3 is a 3-component unsigned integer vector.
	UInt3 [3]uint32
	// UInt4 is a 4-component unsigned integer vector.
	UInt4 [4]uint32
	// Matrix is a column-major 4x4 matrix parameter.
	Matrix [16]float32
	// TextureID names a texture asset to resolve, decode, and bind.
	TextureID string
)

func (Float) paramValue()     {}
func (Vec2) paramValue()      {}
func (Vec3) paramValue()      {}
func (Vec4) paramValue()      {}
func (Color) paramValue()     {}
func (Int) paramValue()       {}
func (Int2) paramValue()      {}
func (Int3) paramValue()      {}
func (Int4) paramValue()      {}
func (Bool) paramValue()      {}
func (UInt) paramValue()      {}
func (UInt2) paramValue()     {}
func (UInt3) paramValue()     {}
func (UInt4) paramValue()     {}
func (Matrix) paramValue()    {}
func (TextureID) paramValue() {}

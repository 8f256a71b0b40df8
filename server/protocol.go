// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package server

import (
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/gogpu/holos/render"
)

// request is one newline-delimited wire message. Unused fields for an op are
// simply absent.
type request struct {
	Op string `json:"op"`

	Parent   string    `json:"parent,omitempty"`
	Name     string    `json:"name,omitempty"`
	Path     string    `json:"path,omitempty"`
	Target   string    `json:"target,omitempty"`
	Resource string    `json:"resource,omitempty"`
	Prefixes []string  `json:"prefixes,omitempty"`
	Transform []float32 `json:"transform,omitempty"`

	Slot    int        `json:"slot,omitempty"`
	Param   string     `json:"param,omitempty"`
	Value   *wireValue `json:"value,omitempty"`
	Offset  int32      `json:"offset,omitempty"`
	Enabled *bool      `json:"enabled,omitempty"`
}

// response is the per-request reply. Every request gets exactly one.
type response struct {
	OK    bool   `json:"ok"`
	Path  string `json:"path,omitempty"`
	Error string `json:"error,omitempty"`
}

// wireValue is a tagged material parameter value: "t" names the kind, "c"
// carries the content in a kind-specific shape.
type wireValue struct {
	T string          `json:"t"`
	C json.RawMessage `json:"c"`
}

func decodeValue(v *wireValue) (render.ParamValue, error) {
	if v == nil {
		return nil, fmt.Errorf("missing value")
	}
	switch v.T {
	case "float":
		var c float32
		if err := sonic.Unmarshal(v.C, &c); err != nil {
			return nil, err
		}
		return render.Float(c), nil
	case "vec2":
		var c [2]float32
		if err := sonic.Unmarshal(v.C, &c); err != nil {
			return nil, err
		}
		return render.Vec2(c), nil
	case "vec3":
		var c [3]float32
		if err := sonic.Unmarshal(v.C, &c); err != nil {
			return nil, err
		}
		return render.Vec3(c), nil
	case "vec4":
		var c [4]float32
		if err := sonic.Unmarshal(v.C, &c); err != nil {
			return nil, err
		}
		return render.Vec4(c), nil
	case "color":
		var c [4]float32
		if err := sonic.Unmarshal(v.C, &c); err != nil {
			return nil, err
		}
		return render.Color(c), nil
	case "int":
		var c int32
		if err := sonic.Unmarshal(v.C, &c); err != nil {
			return nil, err
		}
		return render.Int(c), nil
	case "int2":
		var c [2]int32
		if err := sonic.Unmarshal(v.C, &c); err != nil {
			return nil, err
		}
		return render.Int2(c), nil
	case "int3":
		var c [3]int32
		if err := sonic.Unmarshal(v.C, &c); err != nil {
			return nil, err
		}
		return render.Int3(c), nil
	case "int4":
		var c [4]int32
		if err := sonic.Unmarshal(v.C, &c); err != nil {
			return nil, err
		}
		return render.Int4(c), nil
	case "bool":
		var c bool
		if err := sonic.Unmarshal(v.C, &c); err != nil {
			return nil, err
		}
		return render.Bool(c), nil
	case "uint":
		var c uint32
		if err := sonic.Unmarshal(v.C, &c); err != nil {
			return nil, err
		}
		return render.UInt(c), nil
	case "uint2":
		var c [2]uint32
		if err := sonic.Unmarshal(v.C, &c); err != nil {
			return nil, err
		}
		return render.UInt2(c), nil
	case "uint3":
		var c [3]uint32
		if err := sonic.Unmarshal(v.C, &c); err != nil {
			return nil, err
		}
		return render.UInt3(c), nil
	case "uint4":
		var c [4]uint32
		if err := sonic.Unmarshal(v.C, &c); err != nil {
			return nil, err
		}
		return render.UInt4(c), nil
	case "matrix":
		var c [16]float32
		if err := sonic.Unmarshal(v.C, &c); err != nil {
			return nil, err
		}
		return render.Matrix(c), nil
	case "texture":
		var c string
		if err := sonic.Unmarshal(v.C, &c); err != nil {
			return nil, err
		}
		return render.TextureID(c), nil
	}
	return nil, fmt.Errorf("unknown value kind %q", v.T)
}

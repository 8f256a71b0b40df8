// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed shaders/blit.wgsl
var blitShaderSource string

// compileBlitShader compiles the blit shader to SPIR-V words. Compilation
// happens once at driver init so a broken shader fails startup, not the
// first frame.
func compileBlitShader() ([]uint32, error) {
	spirvBytes, err := naga.Compile(blitShaderSource)
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile blit shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}

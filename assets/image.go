// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package assets

import (
	"fmt"
	"image"
	_ "image/jpeg" // texture decode
	_ "image/png"  // texture decode
	"os"

	"golang.org/x/image/draw"
)

// DecodeImage loads a texture asset and converts it to tightly-packed RGBA,
// the one layout drivers accept for upload.
func DecodeImage(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("assets: open texture: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("assets: decode texture %s: %w", path, err)
	}
	if rgba, ok := src.(*image.RGBA); ok && rgba.Stride == rgba.Rect.Dx()*4 {
		return rgba, nil
	}

	out := image.NewRGBA(image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	return out, nil
}

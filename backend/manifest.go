// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import "github.com/bytedance/sonic"

// gltfManifest is the subset of a glTF document the drivers need: the
// material list, which fixes the model's slot layout.
type gltfManifest struct {
	Materials []struct {
		Name string `json:"name"`
	} `json:"materials"`
}

// MaterialNames extracts the material slot names from glTF JSON. Binary
// containers and models without a materials array get a single unnamed slot,
// so every loadable model has at least one slot to mutate.
func MaterialNames(data []byte) []string {
	var m gltfManifest
	if err := sonic.Unmarshal(data, &m); err != nil || len(m.Materials) == 0 {
		return []string{""}
	}
	names := make([]string, len(m.Materials))
	for i, mat := range m.Materials {
		names[i] = mat.Name
	}
	return names
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package assets resolves client-supplied resource identifiers to files on
// disk. Slot counts, formats, and whether an asset exists at all are
// determined by content outside server control, so resolution failures are
// ordinary outcomes here, not errors.
package assets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/holos/cache"
)

// Extension sets accepted for each resource class.
var (
	ModelExtensions   = []string{"glb", "gltf"}
	TextureExtensions = []string{"png", "jpg", "jpeg"}
)

// ResourceID names an asset. Exactly one form is used: File is a direct
// absolute path, otherwise Namespace/Path are searched under the requesting
// client's resource prefixes.
type ResourceID struct {
	File      string
	Namespace string
	Path      string
}

// ParseResourceID parses the wire form of a resource ID: an absolute path,
// or "namespace:relative/path".
func ParseResourceID(s string) ResourceID {
	if strings.HasPrefix(s, "/") {
		return ResourceID{File: s}
	}
	if ns, rest, ok := strings.Cut(s, ":"); ok {
		return ResourceID{Namespace: ns, Path: rest}
	}
	return ResourceID{Path: s}
}

// String returns a stable form for logging and cache keys.
func (id ResourceID) String() string {
	if id.File != "" {
		return "file:" + id.File
	}
	return id.Namespace + ":" + id.Path
}

// Resolver maps resource IDs to paths, memoizing successful lookups.
// Misses are never cached: a later object referencing an asset that has
// appeared in the meantime should find it.
type Resolver struct {
	hits *cache.Cache[string, string]
}

// NewResolver creates a resolver.
func NewResolver() *Resolver {
	return &Resolver{hits: cache.New[string, string](512)}
}

// Resolve returns the path of an existing file matching id, searched under
// prefixes with the allowed extensions. Direct-file IDs bypass the prefix
// search but still must exist and carry an allowed extension.
func (r *Resolver) Resolve(id ResourceID, prefixes []string, extensions []string) (string, bool) {
	key := id.String() + "|" + strings.Join(prefixes, string(os.PathListSeparator)) + "|" + strings.Join(extensions, ",")
	if p, ok := r.hits.Get(key); ok {
		return p, true
	}

	p, ok := resolve(id, prefixes, extensions)
	if ok {
		r.hits.Set(key, p)
	}
	return p, ok
}

func resolve(id ResourceID, prefixes []string, extensions []string) (string, bool) {
	if id.File != "" {
		if !filepath.IsAbs(id.File) || !allowedExtension(id.File, extensions) {
			return "", false
		}
		if fileExists(id.File) {
			return id.File, true
		}
		return "", false
	}
	if id.Namespace == "" || id.Path == "" || strings.Contains(id.Path, "..") {
		return "", false
	}
	for _, prefix := range prefixes {
		base := filepath.Join(prefix, id.Namespace, filepath.FromSlash(id.Path))
		if allowedExtension(base, extensions) && fileExists(base) {
			return base, true
		}
		for _, ext := range extensions {
			candidate := base + "." + ext
			if fileExists(candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}

func allowedExtension(path string, extensions []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, allowed := range extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

package smd

import (
	"path/filepath"
	"strings"
)

// DefaultTextureRenames maps image extensions importers cannot load to one
// they can. Only the suffix changes, the image itself is left alone.
var DefaultTextureRenames = map[string]string{
	".vtf": ".png",
}

// textureExt returns the extension of name. Leading dots of the base name do
// not start an extension, so ".vtf" has none.
func textureExt(name string) string {
	stem := strings.TrimLeft(filepath.Base(name), ".")
	if !strings.Contains(stem, ".") {
		return ""
	}
	return filepath.Ext(name)
}

// NormalizeTextureName substitutes the extension of name when it is listed
// in renames. A nil table uses DefaultTextureRenames.
func NormalizeTextureName(name string, renames map[string]string) string {
	if renames == nil {
		renames = DefaultTextureRenames
	}
	ext := textureExt(name)
	if ext == "" {
		return name
	}
	if to, ok := renames[ext]; ok {
		return name[:len(name)-len(ext)] + to
	}
	return name
}

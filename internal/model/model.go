// Package model resolves block identifiers to fully merged block model
// definitions: parent-chain inheritance, manual overrides, synthetic
// fallbacks for assets the upstream pack does not ship, and texture variable
// indirection.
package model

import "strings"

// Definition is one block model as found in model JSON, or the merged result
// of a parent chain. Fields the renderer does not use (display transforms,
// ambient occlusion) are ignored at decode time.
type Definition struct {
	Parent   string            `json:"parent,omitempty"`
	Elements []Element         `json:"elements,omitempty"`
	Textures map[string]string `json:"textures,omitempty"`
}

// Element is one axis-aligned cuboid, in block-local units 0..16.
type Element struct {
	From  [3]float64          `json:"from"`
	To    [3]float64          `json:"to"`
	Faces map[string]FaceSpec `json:"faces,omitempty"`
}

// FaceSpec assigns a texture reference to one face of an element. Texture is
// either a literal texture path or a "#variable" reference into the model's
// Textures map.
type FaceSpec struct {
	Texture   string `json:"texture"`
	TintIndex *int   `json:"tintindex,omitempty"`
}

// Tinted reports whether the face carries a tint marker.
func (f FaceSpec) Tinted() bool { return f.TintIndex != nil }

// Empty reports whether the definition renders nothing.
func (d Definition) Empty() bool { return len(d.Elements) == 0 }

// Merge layers child over parent: child keys win, the Textures map merges
// key-wise, and Elements are replaced wholesale when the child defines any
// (otherwise the parent's flattened elements carry through).
func Merge(parent, child Definition) Definition {
	out := parent
	if child.Parent != "" {
		out.Parent = child.Parent
	}
	if len(child.Elements) > 0 {
		out.Elements = child.Elements
	}
	if len(child.Textures) > 0 {
		tex := make(map[string]string, len(parent.Textures)+len(child.Textures))
		for k, v := range parent.Textures {
			tex[k] = v
		}
		for k, v := range child.Textures {
			tex[k] = v
		}
		out.Textures = tex
	}
	return out
}

// Texture variable references start with '#'. Chains of variables are
// followed a bounded number of hops so that a reference cycle is a detectable
// failure instead of an endless loop.
const (
	variableMarker = "#"
	maxTextureHops = 16
)

// ResolveTexture follows a texture reference through the definition's
// Textures map until a literal path is reached. It returns false when a
// variable is missing or the chain does not terminate within maxTextureHops.
func (d Definition) ResolveTexture(ref string) (string, bool) {
	for hops := 0; strings.HasPrefix(ref, variableMarker); hops++ {
		if hops >= maxTextureHops {
			return "", false
		}
		next, ok := d.Textures[strings.TrimPrefix(ref, variableMarker)]
		if !ok {
			return "", false
		}
		ref = next
	}
	if ref == "" {
		return "", false
	}
	return ref, true
}

// StripNamespace drops a "namespace:" prefix from a block or asset
// identifier, e.g. "minecraft:stone" -> "stone".
func StripNamespace(id string) string {
	if i := strings.IndexByte(id, ':'); i >= 0 {
		return id[i+1:]
	}
	return id
}

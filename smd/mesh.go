package smd

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// NormalSource selects which normal an exporter writes for each corner.
type NormalSource string

const (
	// NormalsCorner writes the normal parsed for the corner itself.
	NormalsCorner NormalSource = "corner"
	// NormalsWelded writes the consolidated normal of the welded vertex.
	NormalsWelded NormalSource = "welded"
)

func ParseNormalSource(s string) (NormalSource, error) {
	switch NormalSource(s) {
	case "", NormalsCorner:
		return NormalsCorner, nil
	case NormalsWelded:
		return NormalsWelded, nil
	}
	return "", errors.Errorf("Unknown normal source %q", s)
}

type Mesh struct {
	Name      string
	Vertices  []*WeldedVertex
	Triangles []Triangle

	consolidated bool
}

// ConsolidateNormals averages the normals of every welded vertex. It must run
// after the whole triangle stream was read; repeated calls do nothing.
func (m *Mesh) ConsolidateNormals() {
	if m.consolidated {
		return
	}
	for _, v := range m.Vertices {
		v.ConsolidateNormals()
	}
	m.consolidated = true
}

func (m *Mesh) Consolidated() bool { return m.consolidated }

// Texture returns the texture of the first triangle. Textures of the
// remaining triangles are not used for export.
func (m *Mesh) Texture() string {
	if len(m.Triangles) == 0 {
		return ""
	}
	return m.Triangles[0].Texture
}

func (m *Mesh) CornerNormal(iTriangle, iCorner int, src NormalSource) mgl64.Vec3 {
	tri := &m.Triangles[iTriangle]
	if src == NormalsWelded {
		return m.Vertices[tri.Indices[iCorner]].Normal.Vec3()
	}
	return tri.Normals[iCorner]
}

func (m *Mesh) CornerPosition(iTriangle, iCorner int) mgl64.Vec3 {
	return m.Vertices[m.Triangles[iTriangle].Indices[iCorner]].Position.Vec3()
}

// Validate checks that every triangle references an existing vertex.
func (m *Mesh) Validate() error {
	for iTri, tri := range m.Triangles {
		for _, idx := range tri.Indices {
			if idx < 0 || idx >= len(m.Vertices) {
				return errors.Errorf("Triangle %d references vertex %d of %d", iTri, idx, len(m.Vertices))
			}
		}
	}
	return nil
}

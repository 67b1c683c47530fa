package smd

import (
	"github.com/go-gl/mathgl/mgl64"
)

// RawVertexRecord is one triangle corner as read from the corner line.
type RawVertexRecord struct {
	Bone     int
	Position mgl64.Vec3
	Normal   mgl64.Vec3
	UV       mgl64.Vec2
}

// WeldedVertex is a unique position shared by every corner that landed on it.
// Position and Normal are kept in homogeneous form with w = 0.
type WeldedVertex struct {
	// Bone of the corner that created the vertex. Not part of the weld key.
	Bone     int
	Position mgl64.Vec4
	Normal   mgl64.Vec4

	// Normals of later corners welded here, merged by ConsolidateNormals.
	PendingNormals []mgl64.Vec4
}

func newWeldedVertex(rec RawVertexRecord) *WeldedVertex {
	return &WeldedVertex{
		Bone:     rec.Bone,
		Position: rec.Position.Vec4(0),
		Normal:   rec.Normal.Vec4(0),
	}
}

func (v *WeldedVertex) addNormal(rec RawVertexRecord) {
	v.PendingNormals = append(v.PendingNormals, rec.Normal.Vec4(0))
}

// ConsolidateNormals replaces Normal with the unweighted mean of its own
// normal and all pending normals. The result is not renormalized.
func (v *WeldedVertex) ConsolidateNormals() {
	sum := v.Normal
	for _, n := range v.PendingNormals {
		sum = sum.Add(n)
	}
	count := float64(len(v.PendingNormals) + 1)
	for i := range sum {
		sum[i] /= count
	}
	v.Normal = sum
	v.PendingNormals = nil
}

// Triangle references three welded vertices. Normals and UVs are per corner
// copies and are not deduplicated.
type Triangle struct {
	Indices [3]int
	Normals [3]mgl64.Vec3
	UVs     [3]mgl64.Vec2
	Texture string
}

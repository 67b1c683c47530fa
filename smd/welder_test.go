package smd

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(bone int, pos, normal mgl64.Vec3) RawVertexRecord {
	return RawVertexRecord{Bone: bone, Position: pos, Normal: normal}
}

func TestInternSamePositionSameIndex(t *testing.T) {
	w := NewWelder()

	first := w.InternVertex(record(0, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}))
	second := w.InternVertex(record(5, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0}))

	assert.Equal(t, 0, first)
	assert.Equal(t, first, second)
	require.Equal(t, 1, w.Len())

	v := w.Vertices[0]
	assert.Equal(t, 0, v.Bone, "bone of the first corner is kept")
	assert.Equal(t, mgl64.Vec4{1, 0, 0, 0}, v.Normal)
	assert.Equal(t, []mgl64.Vec4{{0, 1, 0, 0}}, v.PendingNormals)
}

func TestInternKeepsInsertionOrder(t *testing.T) {
	w := NewWelder()
	positions := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 0, 0}, {0, 0, 0}, {2, 2, 2}}
	expected := []int{0, 1, 2, 1, 0, 3}

	for i, pos := range positions {
		assert.Equal(t, expected[i], w.InternVertex(record(0, pos, mgl64.Vec3{})), "corner %d", i)
	}
	unique := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {2, 2, 2}}
	require.Equal(t, len(unique), w.Len())
	for i, v := range w.Vertices {
		assert.Equal(t, unique[i].Vec4(0), v.Position)
	}
}

func TestInternExactEquality(t *testing.T) {
	w := NewWelder()
	a := w.InternVertex(record(0, mgl64.Vec3{0.1, 0, 0}, mgl64.Vec3{}))
	b := w.InternVertex(record(0, mgl64.Vec3{math.Nextafter(0.1, 1), 0, 0}, mgl64.Vec3{}))
	assert.NotEqual(t, a, b, "no tolerance is applied")
}

func TestInternSignedZero(t *testing.T) {
	w := NewWelder()
	negZero := math.Copysign(0, -1)

	a := w.InternVertex(record(0, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{}))
	b := w.InternVertex(record(0, mgl64.Vec3{negZero, 0, negZero}, mgl64.Vec3{}))
	assert.Equal(t, a, b, "-0 == +0")
	assert.Equal(t, 1, w.Len())
}

func TestInternNaNNeverWelds(t *testing.T) {
	w := NewWelder()
	nan := math.NaN()

	a := w.InternVertex(record(0, mgl64.Vec3{nan, 0, 0}, mgl64.Vec3{}))
	b := w.InternVertex(record(0, mgl64.Vec3{nan, 0, 0}, mgl64.Vec3{}))
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, w.Len())
}

func TestConsolidateNormalsSingle(t *testing.T) {
	v := newWeldedVertex(record(0, mgl64.Vec3{}, mgl64.Vec3{0.3, -2, 5}))
	v.ConsolidateNormals()
	assert.Equal(t, mgl64.Vec4{0.3, -2, 5, 0}, v.Normal)
	assert.Empty(t, v.PendingNormals)
}

func TestConsolidateNormalsMean(t *testing.T) {
	w := NewWelder()
	w.InternVertex(record(0, mgl64.Vec3{1, 2, 3}, mgl64.Vec3{1, 0, 0}))
	w.InternVertex(record(1, mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, 1, 0}))
	w.InternVertex(record(2, mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, 0, 1}))
	require.Equal(t, 1, w.Len())

	v := w.Vertices[0]
	v.ConsolidateNormals()

	third := 1.0 / 3.0
	assert.InDelta(t, third, v.Normal[0], 1e-12)
	assert.InDelta(t, third, v.Normal[1], 1e-12)
	assert.InDelta(t, third, v.Normal[2], 1e-12)
	assert.Equal(t, 0.0, v.Normal[3])
	assert.Nil(t, v.PendingNormals)
}

func TestConsolidateNormalsNotRenormalized(t *testing.T) {
	w := NewWelder()
	w.InternVertex(record(0, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}))
	w.InternVertex(record(0, mgl64.Vec3{}, mgl64.Vec3{-1, 0, 0}))

	v := w.Vertices[0]
	v.ConsolidateNormals()
	assert.Equal(t, mgl64.Vec4{0, 0, 0, 0}, v.Normal)
}

func TestMeshConsolidateOnce(t *testing.T) {
	w := NewWelder()
	w.InternVertex(record(0, mgl64.Vec3{}, mgl64.Vec3{2, 0, 0}))
	w.InternVertex(record(0, mgl64.Vec3{}, mgl64.Vec3{0, 0, 0}))

	m := &Mesh{Vertices: w.Vertices}
	m.ConsolidateNormals()
	m.ConsolidateNormals()

	assert.True(t, m.Consolidated())
	assert.Equal(t, mgl64.Vec4{1, 0, 0, 0}, m.Vertices[0].Normal)
}

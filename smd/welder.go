package smd

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type positionKey [4]uint64

// Welder deduplicates corners by exact position equality.
//
// Lookup goes through a map keyed on position bits instead of scanning the
// list. Keys fold -0 into +0 so they agree with ==, and positions holding NaN
// are never indexed since NaN is unequal to everything, itself included.
type Welder struct {
	Vertices []*WeldedVertex

	index map[positionKey]int
}

func NewWelder() *Welder {
	return &Welder{
		Vertices: make([]*WeldedVertex, 0),
		index:    make(map[positionKey]int),
	}
}

func keyOf(pos mgl64.Vec4) (positionKey, bool) {
	var key positionKey
	for i, c := range pos {
		if math.IsNaN(c) {
			return key, false
		}
		if c == 0 {
			c = 0
		}
		key[i] = math.Float64bits(c)
	}
	return key, true
}

// InternVertex returns the index of the vertex at rec's position, creating it
// if the position was not seen before. A hit queues rec's normal on the
// existing vertex for later consolidation.
func (w *Welder) InternVertex(rec RawVertexRecord) int {
	pos := rec.Position.Vec4(0)
	key, hashable := keyOf(pos)
	if hashable {
		if idx, ok := w.index[key]; ok {
			w.Vertices[idx].addNormal(rec)
			return idx
		}
	}

	w.Vertices = append(w.Vertices, newWeldedVertex(rec))
	idx := len(w.Vertices) - 1
	if hashable {
		w.index[key] = idx
	}
	return idx
}

func (w *Welder) Len() int { return len(w.Vertices) }

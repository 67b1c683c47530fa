package smd

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// ExportObj writes welded positions as "v" and per corner uvs/normals as
// "vt"/"vn", so faces keep sharing vertices.
func (m *Mesh) ExportObj(_w io.Writer, opts *ExportOptions) error {
	bw := bufio.NewWriter(_w)
	w := func(format string, args ...interface{}) {
		fmt.Fprintf(bw, format+"\n", args...)
	}

	w("# %d vertices, %d triangles", len(m.Vertices), len(m.Triangles))
	w("o %s", m.Name)

	for _, vertex := range m.Vertices {
		w("v %f %f %f", vertex.Position[0], vertex.Position[1], vertex.Position[2])
	}

	for _, tri := range m.Triangles {
		for _, uv := range tri.UVs {
			w("vt %f %f", uv[0], uv[1])
		}
	}

	for iTri, tri := range m.Triangles {
		for iCorner := range tri.Indices {
			n := m.CornerNormal(iTri, iCorner, opts.Normals)
			w("vn %f %f %f", n[0], n[1], n[2])
		}
	}

	if len(m.Triangles) != 0 {
		w("usemtl %s", m.Texture())
	}

	// obj indexes are 1-based
	iCorner := 1
	for _, tri := range m.Triangles {
		w("f %d/%d/%d %d/%d/%d %d/%d/%d",
			tri.Indices[0]+1, iCorner, iCorner,
			tri.Indices[1]+1, iCorner+1, iCorner+1,
			tri.Indices[2]+1, iCorner+2, iCorner+2)
		iCorner += 3
	}

	return errors.Wrapf(bw.Flush(), "Failed to write obj")
}

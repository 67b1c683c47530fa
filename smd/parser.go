package smd

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const (
	markerTriangles = "triangles"
	markerEnd       = "end"

	// bone, 3 position, 3 normal, 2 uv
	cornerFieldsMin = 9
	maxLineLength   = 1 << 20
)

type parserState int

const (
	stateSeekingTriangles parserState = iota
	stateReadingPolygon
	stateDone
)

type ParseOptions struct {
	// Name of the resulting mesh.
	Name string
	// Extension renames for texture names, nil means DefaultTextureRenames.
	TextureRenames map[string]string
	// Decodes the input before parsing, nil reads it as is.
	Encoding encoding.Encoding
}

type parser struct {
	lines  *bufio.Scanner
	line   int
	opts   *ParseOptions
	welder *Welder
	mesh   *Mesh
}

// Load opens the file at path and parses its triangles block.
func Load(path string, opts ParseOptions) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError("open", path, err)
	}
	defer f.Close()

	m, err := Parse(f, opts)
	if err != nil {
		if IsMalformed(err) || IsIO(err) {
			return nil, err
		}
		return nil, ioError("read", path, err)
	}
	return m, nil
}

// Parse reads the stream up to the end of the triangles block and welds every
// corner. Normals are left unconsolidated.
func Parse(r io.Reader, opts ParseOptions) (*Mesh, error) {
	if opts.Encoding != nil {
		r = transform.NewReader(r, opts.Encoding.NewDecoder())
	}

	lines := bufio.NewScanner(r)
	lines.Buffer(make([]byte, 0, 4096), maxLineLength)

	p := &parser{
		lines:  lines,
		opts:   &opts,
		welder: NewWelder(),
		mesh: &Mesh{
			Name:      opts.Name,
			Triangles: make([]Triangle, 0),
		},
	}

	for state := stateSeekingTriangles; state != stateDone; {
		var err error
		switch state {
		case stateSeekingTriangles:
			state, err = p.seekTriangles()
		case stateReadingPolygon:
			state, err = p.readPolygon()
		}
		if err != nil {
			return nil, err
		}
	}

	p.mesh.Vertices = p.welder.Vertices
	return p.mesh, nil
}

// nextLine returns the next trimmed line, ok is false at end of input.
func (p *parser) nextLine() (string, bool, error) {
	if !p.lines.Scan() {
		if err := p.lines.Err(); err != nil {
			return "", false, errors.Wrapf(err, "Failed to read line %d", p.line+1)
		}
		return "", false, nil
	}
	p.line++
	return strings.TrimSpace(p.lines.Text()), true, nil
}

func (p *parser) seekTriangles() (parserState, error) {
	for {
		line, ok, err := p.nextLine()
		if err != nil {
			return stateDone, err
		}
		if !ok {
			return stateDone, malformed(0, "%q block not found", markerTriangles)
		}
		if line == markerTriangles {
			return stateReadingPolygon, nil
		}
	}
}

func (p *parser) readPolygon() (parserState, error) {
	texture, ok, err := p.nextLine()
	if err != nil {
		return stateDone, err
	}
	if !ok {
		return stateDone, malformed(0, "%q block is not terminated with %q", markerTriangles, markerEnd)
	}
	if texture == markerEnd {
		return stateDone, nil
	}

	tri := Triangle{
		Texture: NormalizeTextureName(texture, p.opts.TextureRenames),
	}

	for iCorner := 0; iCorner < 3; iCorner++ {
		line, ok, err := p.nextLine()
		if err != nil {
			return stateDone, err
		}
		if !ok {
			return stateDone, malformed(0, "polygon %d has %d of 3 corners", len(p.mesh.Triangles), iCorner)
		}

		rec, err := p.parseCorner(line)
		if err != nil {
			return stateDone, err
		}

		tri.Indices[iCorner] = p.welder.InternVertex(rec)
		tri.Normals[iCorner] = rec.Normal
		tri.UVs[iCorner] = rec.UV
	}

	p.mesh.Triangles = append(p.mesh.Triangles, tri)
	return stateReadingPolygon, nil
}

func (p *parser) parseCorner(line string) (RawVertexRecord, error) {
	var rec RawVertexRecord

	fields, err := tokenizeCorner([]byte(line))
	if err != nil {
		return rec, malformed(p.line, "%v", err)
	}
	if len(fields) < cornerFieldsMin {
		return rec, malformed(p.line, "corner has %d fields, expected at least %d", len(fields), cornerFieldsMin)
	}

	values := make([]float64, cornerFieldsMin)
	for i, field := range fields[:cornerFieldsMin] {
		if !field.Number {
			return rec, malformed(p.line, "field %d (column %d) %q is not a number", i+1, field.Column, field.Text)
		}
		if i == 0 {
			bone, err := strconv.Atoi(field.Text)
			if err != nil {
				return rec, malformed(p.line, "bone index %q is not an integer", field.Text)
			}
			rec.Bone = bone
			continue
		}
		v, err := strconv.ParseFloat(field.Text, 64)
		if err != nil {
			return rec, malformed(p.line, "field %d %q: %v", i+1, field.Text, err)
		}
		values[i] = v
	}

	rec.Position = mgl64.Vec3{values[1], values[2], values[3]}
	rec.Normal = mgl64.Vec3{values[4], values[5], values[6]}
	rec.UV = mgl64.Vec2{values[7], values[8]}
	return rec, nil
}

package smd

import (
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/smd2fbx/utils/gltfutils"
)

type GLTFMeshExported struct {
	MeshIndex     uint32
	MaterialIndex *uint32
}

type gltfTextureExported struct {
	TextureIndex uint32
}

func exportGLTFTexture(gltfCacher *gltfutils.GLTFCacher, fileName string) *gltfTextureExported {
	return gltfCacher.GetCachedOr("texture:"+fileName, func() interface{} {
		doc := gltfCacher.Doc

		samplerIndex := uint32(len(doc.Samplers))
		doc.Samplers = append(doc.Samplers, &gltf.Sampler{
			MinFilter: gltf.MinLinear,
			MagFilter: gltf.MagLinear,
			WrapS:     gltf.WrapRepeat,
			WrapT:     gltf.WrapRepeat,
		})

		imageIndex := uint32(len(doc.Images))
		doc.Images = append(doc.Images, &gltf.Image{
			Name: fileName,
			URI:  fileName,
		})

		gte := &gltfTextureExported{TextureIndex: uint32(len(doc.Textures))}
		doc.Textures = append(doc.Textures, &gltf.Texture{
			Name:    fileName,
			Sampler: gltf.Index(samplerIndex),
			Source:  gltf.Index(imageIndex),
		})
		return gte
	}).(*gltfTextureExported)
}

// ExportGLTF writes one primitive with three vertices per triangle, since
// normals and uvs are stored per corner.
func (m *Mesh) ExportGLTF(gltfCacher *gltfutils.GLTFCacher, opts *ExportOptions) *GLTFMeshExported {
	doc := gltfCacher.Doc
	gme := &GLTFMeshExported{}

	gltfMesh := &gltf.Mesh{Name: m.Name}

	if len(m.Triangles) != 0 {
		cornersCount := len(m.Triangles) * 3
		positions := make([][3]float32, 0, cornersCount)
		normals := make([][3]float32, 0, cornersCount)
		uvs := make([][2]float32, 0, cornersCount)
		indices := make([]uint32, 0, cornersCount)

		for iTri, tri := range m.Triangles {
			for iCorner := range tri.Indices {
				p := m.CornerPosition(iTri, iCorner)
				n := m.CornerNormal(iTri, iCorner, opts.Normals)
				uv := tri.UVs[iCorner]

				indices = append(indices, uint32(len(positions)))
				positions = append(positions, [3]float32{float32(p[0]), float32(p[1]), float32(p[2])})
				normals = append(normals, [3]float32{float32(n[0]), float32(n[1]), float32(n[2])})
				// gltf places the uv origin at the top left
				uvs = append(uvs, [2]float32{float32(uv[0]), float32(1 - uv[1])})
			}
		}

		primitive := &gltf.Primitive{
			Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
			Attributes: map[string]uint32{
				"POSITION":   modeler.WritePosition(doc, positions),
				"NORMAL":     modeler.WriteNormal(doc, normals),
				"TEXCOORD_0": modeler.WriteTextureCoord(doc, uvs),
			},
		}

		texture := m.Texture()
		material := &gltf.Material{
			Name:        texture,
			DoubleSided: true,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorTexture: &gltf.TextureInfo{
					Index: exportGLTFTexture(gltfCacher, texture).TextureIndex,
				},
			},
		}
		gme.MaterialIndex = gltf.Index(uint32(len(doc.Materials)))
		doc.Materials = append(doc.Materials, material)
		primitive.Material = gme.MaterialIndex

		gltfMesh.Primitives = []*gltf.Primitive{primitive}
	}

	gme.MeshIndex = uint32(len(doc.Meshes))
	doc.Meshes = append(doc.Meshes, gltfMesh)
	return gme
}

func (m *Mesh) ExportGLTFDefault(opts *ExportOptions) *gltf.Document {
	gltfCacher := gltfutils.NewCacher()
	doc := gltfCacher.Doc

	node := &gltf.Node{Name: m.Name}
	// gltf meshes need at least one primitive
	if len(m.Triangles) != 0 {
		gme := m.ExportGLTF(gltfCacher, opts)
		node.Mesh = gltf.Index(gme.MeshIndex)
	}
	gltfutils.AddRootNode(doc, node)

	return doc
}

func (m *Mesh) WriteGLTF(w io.Writer, binary bool, opts *ExportOptions) error {
	return gltfutils.Export(w, m.ExportGLTFDefault(opts), binary)
}

package smd

import (
	"fmt"
	"io"

	"github.com/mogaika/fbx"
	"github.com/mogaika/fbx/builders/bfbx73"

	"github.com/mogaika/smd2fbx/utils/fbxbuilder"
)

// FbxExporter keeps ids of the objects created for one mesh.
type FbxExporter struct {
	ModelId    int64
	MeshNodeId int64
	GeometryId int64
	MaterialId int64
	TextureId  int64
	VideoId    int64

	Geometry *fbx.Node
}

type fbxTextureExported struct {
	TextureId int64
	VideoId   int64
}

func fbxName(name, class string) string {
	return name + "\x00\x01" + class
}

func (m *Mesh) fbxGeometry(f *fbxbuilder.FBXBuilder, fe *FbxExporter, opts *ExportOptions) *fbx.Node {
	vertices := make([]float64, 0, len(m.Vertices)*3)
	for _, v := range m.Vertices {
		vertices = append(vertices, v.Position[0], v.Position[1], v.Position[2])
	}

	indexes := make([]int32, 0, len(m.Triangles)*3)
	normals := make([]float64, 0, len(m.Triangles)*9)
	uv := make([]float64, 0, len(m.Triangles)*6)
	materials := make([]int32, len(m.Triangles))

	for iTri, tri := range m.Triangles {
		// last index of a polygon is stored as -(index+1)
		indexes = append(indexes,
			int32(tri.Indices[0]),
			int32(tri.Indices[1]),
			-int32(tri.Indices[2])-1)

		for iCorner := range tri.Indices {
			n := m.CornerNormal(iTri, iCorner, opts.Normals)
			normals = append(normals, n[0], n[1], n[2])
			uv = append(uv, tri.UVs[iCorner][0], tri.UVs[iCorner][1])
		}
	}

	fe.GeometryId = f.GenerateId()

	return bfbx73.Geometry(fe.GeometryId, fbxName(fmt.Sprintf("%sMesh%d", m.Name, 0), "Geometry"), "Mesh").AddNodes(
		bfbx73.Properties70().AddNodes(
			bfbx73.P("Color", "ColorRGB", "Color", "", float64(1), float64(1), float64(1)),
		),
		bfbx73.GeometryVersion(124),
		bfbx73.Vertices(vertices),
		bfbx73.PolygonVertexIndex(indexes),
		bfbx73.LayerElementNormal(0).AddNodes(
			bfbx73.Version(101),
			bfbx73.Name(""),
			bfbx73.MappingInformationType("ByPolygonVertex"),
			bfbx73.ReferenceInformationType("Direct"),
			bfbx73.Normals(normals),
		),
		bfbx73.LayerElementUV(0).AddNodes(
			bfbx73.Version(101),
			bfbx73.Name(""),
			bfbx73.MappingInformationType("ByPolygonVertex"),
			bfbx73.ReferenceInformationType("Direct"),
			bfbx73.UV(uv),
		),
		bfbx73.LayerElementMaterial(0).AddNodes(
			bfbx73.Version(101),
			bfbx73.Name(""),
			bfbx73.MappingInformationType("ByPolygon"),
			bfbx73.ReferenceInformationType("IndexToDirect"),
			bfbx73.Materials(materials),
		),
		bfbx73.Layer(0).AddNodes(
			bfbx73.Version(100),
			bfbx73.LayerElement().AddNodes(
				bfbx73.Type("LayerElementNormal"),
				bfbx73.TypedIndex(0),
			),
			bfbx73.LayerElement().AddNodes(
				bfbx73.Type("LayerElementUV"),
				bfbx73.TypedIndex(0),
			),
			bfbx73.LayerElement().AddNodes(
				bfbx73.Type("LayerElementMaterial"),
				bfbx73.TypedIndex(0),
			),
		),
	)
}

func exportFbxTexture(f *fbxbuilder.FBXBuilder, fileName string) *fbxTextureExported {
	return f.GetCachedOr("texture:"+fileName, func() interface{} {
		fte := &fbxTextureExported{
			TextureId: f.GenerateId(),
			VideoId:   f.GenerateId(),
		}

		video := fbxbuilder.Node("Video", fte.VideoId, fbxName(fileName, "Video"), "Clip").AddNodes(
			bfbx73.Type("Clip"),
			bfbx73.Properties70().AddNodes(
				bfbx73.P("Path", "KString", "XRefUrl", "", fileName),
			),
			fbxbuilder.Node("UseMipMap", int32(0)),
			fbxbuilder.Node("Filename", fileName),
			fbxbuilder.Node("RelativeFilename", fileName),
		)

		texture := fbxbuilder.Node("Texture", fte.TextureId, fbxName(fileName, "Texture"), "").AddNodes(
			bfbx73.Type("TextureVideoClip"),
			bfbx73.Version(202),
			fbxbuilder.Node("TextureName", fbxName(fileName, "Texture")),
			bfbx73.Properties70().AddNodes(
				bfbx73.P("CurrentTextureBlendMode", "enum", "", "", int32(0)),
				bfbx73.P("UseMaterial", "bool", "", "", int32(1)),
			),
			fbxbuilder.Node("Media", fbxName(fileName, "Video")),
			fbxbuilder.Node("FileName", fileName),
			fbxbuilder.Node("RelativeFilename", fileName),
			fbxbuilder.Node("ModelUVTranslation", float64(0), float64(0)),
			fbxbuilder.Node("ModelUVScaling", float64(1), float64(1)),
			fbxbuilder.Node("Texture_Alpha_Source", "None"),
			fbxbuilder.Node("Cropping", int32(0), int32(0), int32(0), int32(0)),
		)

		f.AddObjects(video, texture)
		f.AddConnections(bfbx73.C("OO", fte.VideoId, fte.TextureId))
		return fte
	}).(*fbxTextureExported)
}

// fbxMaterial creates the phong material shared by all polygons, diffuse
// mapped with textureName.
func fbxMaterial(f *fbxbuilder.FBXBuilder, fe *FbxExporter, textureName string) *fbx.Node {
	fe.MaterialId = f.GenerateId()

	material := bfbx73.Material(fe.MaterialId, fbxName(textureName, "Material"), "").AddNodes(
		bfbx73.Version(102),
		bfbx73.ShadingModel("phong"),
		bfbx73.MultiLayer(0),
		bfbx73.Properties70().AddNodes(
			bfbx73.P("ShadingModel", "KString", "", "", "phong"),
			bfbx73.P("EmissiveColor", "Color", "", "A", float64(0), float64(0), float64(0)),
			bfbx73.P("AmbientColor", "Color", "", "A", float64(1), float64(1), float64(1)),
			bfbx73.P("DiffuseColor", "Color", "", "A", float64(1), float64(1), float64(1)),
			bfbx73.P("SpecularColor", "Color", "", "A", float64(0), float64(0), float64(0)),
			bfbx73.P("TransparencyFactor", "Number", "", "A", float64(0)),
			bfbx73.P("Shininess", "double", "Number", "", float64(0.5)),
			bfbx73.P("ShininessExponent", "Number", "", "A", float64(0.5)),
			bfbx73.P("Emissive", "Vector3D", "Vector", "", float64(0), float64(0), float64(0)),
			bfbx73.P("Ambient", "Vector3D", "Vector", "", float64(1), float64(1), float64(1)),
			bfbx73.P("Diffuse", "Vector3D", "Vector", "", float64(1), float64(1), float64(1)),
			bfbx73.P("Specular", "Vector3D", "Vector", "", float64(0), float64(0), float64(0)),
			bfbx73.P("Opacity", "double", "Number", "", float64(1)),
		),
	)

	fte := exportFbxTexture(f, textureName)
	fe.TextureId = fte.TextureId
	fe.VideoId = fte.VideoId
	f.AddConnections(bfbx73.C("OP", fte.TextureId, fe.MaterialId, "DiffuseColor"))

	return material
}

// ExportFbx adds the mesh to f as a null model holding one textured mesh
// node. The model is not attached to the scene root.
func (m *Mesh) ExportFbx(f *fbxbuilder.FBXBuilder, opts *ExportOptions) *FbxExporter {
	fe := &FbxExporter{
		ModelId:    f.GenerateId(),
		MeshNodeId: f.GenerateId(),
	}

	model := bfbx73.Model(fe.ModelId, fbxName(m.Name, "Model"), "Null").AddNodes(
		bfbx73.Version(232),
		bfbx73.Properties70(),
		bfbx73.Shading(true),
		bfbx73.Culling("CullingOff"),
	)
	nodeAttribute := bfbx73.NodeAttribute(f.GenerateId(), fbxName(m.Name, "NodeAttribute"), "Null").AddNodes(
		bfbx73.TypeFlags("Null"),
	)

	meshNode := bfbx73.Model(fe.MeshNodeId, fbxName(fmt.Sprintf("%sNode%d", m.Name, 0), "Model"), "Mesh").AddNodes(
		bfbx73.Version(232),
		bfbx73.Properties70().AddNodes(
			bfbx73.P("InheritType", "enum", "", "", int32(1)),
			bfbx73.P("DefaultAttributeIndex", "int", "Integer", "", int32(0)),
			bfbx73.P("Lcl Translation", "Lcl Translation", "", "A", float64(0), float64(0), float64(0)),
			bfbx73.P("Lcl Rotation", "Lcl Rotation", "", "A", float64(0), float64(0), float64(0)),
			bfbx73.P("Lcl Scaling", "Lcl Scaling", "", "A", float64(1), float64(1), float64(1)),
		),
		bfbx73.Shading(true),
		bfbx73.Culling("CullingOff"),
	)

	fe.Geometry = m.fbxGeometry(f, fe, opts)

	f.AddObjects(model, nodeAttribute, meshNode, fe.Geometry)
	f.AddConnections(
		bfbx73.C("OO", nodeAttribute.Properties[0].(int64), fe.ModelId),
		bfbx73.C("OO", fe.MeshNodeId, fe.ModelId),
		bfbx73.C("OO", fe.GeometryId, fe.MeshNodeId),
	)

	// an empty mesh has no polygon to take the texture from
	if len(m.Triangles) != 0 {
		material := fbxMaterial(f, fe, m.Texture())
		f.AddObjects(material)
		f.AddConnections(bfbx73.C("OO", fe.MaterialId, fe.MeshNodeId))
	}

	return fe
}

// ExportFbxDefault builds a standalone document with the mesh under the scene root.
func (m *Mesh) ExportFbxDefault(fileName string, opts *ExportOptions) *fbxbuilder.FBXBuilder {
	info := opts.SceneInfo
	info.Title = m.Name
	info.Keywords = m.Name

	f := fbxbuilder.NewFBXBuilder(fileName, info)
	fe := m.ExportFbx(f, opts)
	f.AddConnections(bfbx73.C("OO", fe.ModelId, int64(0)))
	return f
}

func (m *Mesh) WriteFbx(w io.Writer, fileName string, opts *ExportOptions) error {
	return m.ExportFbxDefault(fileName, opts).Write(w)
}

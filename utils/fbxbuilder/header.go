package fbxbuilder

import (
	"path/filepath"

	"github.com/mogaika/fbx"
	"github.com/mogaika/fbx/builders/bfbx73"
)

// objectTemplate is the Definitions entry of one object type. Counts are
// filled in by countDefinitions on write.
type objectTemplate struct {
	ObjectType string
	Template   string
	Properties []*fbx.Node
}

func color(name string, r, g, b float64) *fbx.Node {
	return bfbx73.P(name, "Color", "", "A", r, g, b)
}

func number(name string, v float64) *fbx.Node {
	return bfbx73.P(name, "Number", "", "A", v)
}

func flag(name string, v bool) *fbx.Node {
	i := int32(0)
	if v {
		i = 1
	}
	return bfbx73.P(name, "bool", "", "", i)
}

func enum(name string, v int32) *fbx.Node {
	return bfbx73.P(name, "enum", "", "", v)
}

func vector(name, kind string, x, y, z float64) *fbx.Node {
	return bfbx73.P(name, kind, "", "A", x, y, z)
}

// Templates match what the smd exporters write, so importers that only read
// the templates still see a lit, textured phong surface.
func objectTemplates() []objectTemplate {
	return []objectTemplate{
		{"Model", "FbxNode", []*fbx.Node{
			enum("QuaternionInterpolate", 0),
			flag("Show", true),
			vector("Lcl Translation", "Lcl Translation", 0, 0, 0),
			vector("Lcl Rotation", "Lcl Rotation", 0, 0, 0),
			vector("Lcl Scaling", "Lcl Scaling", 1, 1, 1),
			bfbx73.P("Visibility", "Visibility", "", "A", float64(1)),
			bfbx73.P("Visibility Inheritance", "Visibility Inheritance", "", "", int32(1)),
		}},
		{"Material", "FbxSurfacePhong", []*fbx.Node{
			bfbx73.P("ShadingModel", "KString", "", "", "Phong"),
			flag("MultiLayer", false),
			color("EmissiveColor", 0, 0, 0),
			color("AmbientColor", 1, 1, 1),
			color("DiffuseColor", 1, 1, 1),
			color("SpecularColor", 0, 0, 0),
			number("EmissiveFactor", 1),
			number("AmbientFactor", 1),
			number("DiffuseFactor", 1),
			number("SpecularFactor", 1),
			number("ShininessExponent", 0.5),
			number("TransparencyFactor", 0),
		}},
		{"Texture", "FbxFileTexture", []*fbx.Node{
			enum("TextureTypeUse", 0),
			number("Texture alpha", 1),
			enum("CurrentMappingType", 0),
			enum("WrapModeU", 0),
			enum("WrapModeV", 0),
			flag("UVSwap", false),
			flag("PremultiplyAlpha", true),
			flag("UseMaterial", true),
			flag("UseMipMap", false),
		}},
		{"Video", "FbxVideo", []*fbx.Node{
			flag("ImageSequence", false),
			bfbx73.P("Width", "int", "Integer", "", int32(0)),
			bfbx73.P("Height", "int", "Integer", "", int32(0)),
			bfbx73.P("Path", "KString", "XRefUrl", "", ""),
		}},
		{"Geometry", "FbxMesh", []*fbx.Node{
			bfbx73.P("Color", "ColorRGB", "Color", "", float64(1), float64(1), float64(1)),
			flag("Primary Visibility", true),
			flag("Casts Shadows", true),
			flag("Receive Shadows", true),
		}},
		{"NodeAttribute", "FbxNull", []*fbx.Node{
			bfbx73.P("Size", "double", "Number", "", float64(100)),
			enum("Look", 1),
		}},
	}
}

// y up, z front, x right handed; the smd axes are written untouched
var globalAxes = []struct {
	Name  string
	Value int32
}{
	{"UpAxis", 1},
	{"UpAxisSign", 1},
	{"FrontAxis", 2},
	{"FrontAxisSign", 1},
	{"CoordAxis", 0},
	{"CoordAxisSign", 1},
	{"OriginalUpAxis", 1},
	{"OriginalUpAxisSign", 1},
}

func sceneInfoNode(filename string, info SceneInfo) *fbx.Node {
	props := bfbx73.Properties70().AddNodes(
		bfbx73.P("DocumentUrl", "KString", "Url", "", filename),
		bfbx73.P("SrcDocumentUrl", "KString", "Url", "", filename),
	)
	// both the creating and the last saving application are this converter
	for _, prefix := range []string{"Original", "LastSaved"} {
		props.AddNodes(
			bfbx73.P(prefix, "Compound", "", ""),
			bfbx73.P(prefix+"|ApplicationVendor", "KString", "", "", FBX_APPLICATION_VENDOR),
			bfbx73.P(prefix+"|ApplicationName", "KString", "", "", FBX_APPLICATION_NAME),
			bfbx73.P(prefix+"|ApplicationVersion", "KString", "", "", FBX_APPLICATION_VERSION),
			bfbx73.P(prefix+"|DateTime_GMT", "DateTime", "", "", FBX_DATE_TIME_GMT),
		)
		if prefix == "Original" {
			props.AddNodes(bfbx73.P("Original|FileName", "KString", "", "", filepath.Base(filename)))
		}
	}

	return bfbx73.SceneInfo("GlobalInfo\x00\x01SceneInfo", "UserData").AddNodes(
		bfbx73.Type("UserData"),
		bfbx73.Version(100),
		bfbx73.MetaData().AddNodes(
			bfbx73.Version(100),
			bfbx73.Title(info.Title),
			bfbx73.Subject(info.Subject),
			bfbx73.Author(info.Author),
			bfbx73.Keywords(info.Keywords),
			bfbx73.Revision(info.Revision),
			bfbx73.Comment(info.Comment),
		),
		props,
	)
}

func globalSettingsNode() *fbx.Node {
	props := bfbx73.Properties70()
	for _, axis := range globalAxes {
		props.AddNodes(bfbx73.P(axis.Name, "int", "Integer", "", axis.Value))
	}
	props.AddNodes(
		bfbx73.P("UnitScaleFactor", "double", "Number", "", float64(1)),
		bfbx73.P("OriginalUnitScaleFactor", "double", "Number", "", float64(1)),
		bfbx73.P("AmbientColor", "ColorRGB", "Color", "", float64(0), float64(0), float64(0)),
	)
	return bfbx73.GlobalSettings().AddNodes(bfbx73.Version(1000), props)
}

func definitionsNode() *fbx.Node {
	definitions := bfbx73.Definitions().AddNodes(
		bfbx73.Version(100),
		bfbx73.Count(1),
		bfbx73.ObjectType("GlobalSettings").AddNodes(bfbx73.Count(1)),
	)
	for _, ot := range objectTemplates() {
		definitions.AddNodes(bfbx73.ObjectType(ot.ObjectType).AddNodes(
			bfbx73.Count(0),
			bfbx73.PropertyTemplate(ot.Template).AddNodes(
				bfbx73.Properties70().AddNodes(ot.Properties...),
			),
		))
	}
	return definitions
}

func creationTimeStamp() *fbx.Node {
	return bfbx73.CreationTimeStamp().AddNodes(
		bfbx73.Version(1000),
		bfbx73.Year(1970),
		bfbx73.Month(1),
		bfbx73.Day(1),
		bfbx73.Hour(10),
		bfbx73.Minute(0),
		bfbx73.Second(0),
		bfbx73.Millisecond(0),
	)
}

// createHeaders lays out the top level records of the document. Objects and
// connections stay empty until the exporters fill them.
func (f *FBXBuilder) createHeaders(filename string, info SceneInfo) {
	f.Root().AddNodes(
		bfbx73.FBXHeaderExtension().AddNodes(
			bfbx73.FBXHeaderVersion(1003),
			bfbx73.FBXVersion(FBX_VERSION),
			bfbx73.EncryptionType(0),
			creationTimeStamp(),
			bfbx73.Creator(FBX_CREATOR),
			sceneInfoNode(filename, info),
		),
		bfbx73.FileId(FBX_FILE_ID),
		bfbx73.CreationTime(FBX_CREATION_TIME),
		bfbx73.Creator(FBX_CREATOR),
		globalSettingsNode(),
		bfbx73.Documents().AddNodes(
			bfbx73.Count(1),
			bfbx73.Document(f.GenerateId(), "Scene", "Scene").AddNodes(
				bfbx73.Properties70().AddNodes(
					bfbx73.P("SourceObject", "object", "", ""),
					bfbx73.P("ActiveAnimStackName", "KString", "", "", ""),
				),
				bfbx73.RootNode(0),
			),
		),
		bfbx73.References(),
		definitionsNode(),
		f.objects,
		f.connections,
		bfbx73.Takes().AddNodes(
			bfbx73.Current(""),
		),
	)
}

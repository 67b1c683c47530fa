package fbxbuilder

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mogaika/fbx"
	"github.com/mogaika/fbx/builders/bfbx73"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func definitionCount(t *testing.T, f *FBXBuilder, objectType string) interface{} {
	t.Helper()
	for _, ot := range f.Root().GetNode("Definitions").GetNodes("ObjectType") {
		if ot.Properties[0].(string) == objectType {
			return ot.GetNode("Count").Properties[0]
		}
	}
	return nil
}

func TestWriteCountsDefinitions(t *testing.T) {
	f := NewFBXBuilder("test.fbx", SceneInfo{Title: "test"})
	f.AddObjects(
		bfbx73.Model(f.GenerateId(), "a\x00\x01Model", "Null"),
		bfbx73.Model(f.GenerateId(), "b\x00\x01Model", "Null"),
		Node("Video", f.GenerateId(), "v\x00\x01Video", "Clip"),
	)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("Kaydara FBX Binary")))

	assert.Equal(t, int32(2), definitionCount(t, f, "Model"))
	assert.Equal(t, int32(1), definitionCount(t, f, "Video"))
	assert.Equal(t, int32(4), f.Root().GetNode("Definitions").GetNode("Count").Properties[0])
}

func TestWriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.fbx")
	file, err := os.Create(path)
	require.NoError(t, err)

	f := NewFBXBuilder(path, SceneInfo{})
	require.NoError(t, f.Write(file))
	require.NoError(t, file.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("Kaydara FBX Binary")))
}

func TestCache(t *testing.T) {
	f := NewFBXBuilder("test.fbx", SceneInfo{})
	calls := 0
	create := func() interface{} {
		calls++
		return f.GenerateId()
	}

	a := f.GetCachedOr("texture:a", create)
	b := f.GetCachedOr("texture:a", create)
	assert.Equal(t, a, b)
	assert.Equal(t, 1, calls)
	assert.Equal(t, a, f.GetCached("texture:a"))
	assert.Nil(t, f.GetCached("texture:b"))
}

func TestGenerateIdUnique(t *testing.T) {
	f := NewFBXBuilder("test.fbx", SceneInfo{})
	seen := make(map[int64]bool)
	for i := 0; i < 100; i++ {
		id := f.GenerateId()
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func findP(props *fbx.Node, name string) *fbx.Node {
	for _, p := range props.GetNodes("P") {
		if p.Properties[0] == name {
			return p
		}
	}
	return nil
}

func TestHeaders(t *testing.T) {
	f := NewFBXBuilder("dir/crate.fbx", SceneInfo{Title: "crate.fbx", Author: "iDGi"})
	root := f.Root()

	definitions := root.GetNode("Definitions")
	require.NotNil(t, definitions)
	types := make([]string, 0)
	for _, ot := range definitions.GetNodes("ObjectType") {
		types = append(types, ot.Properties[0].(string))
	}
	assert.Equal(t, []string{"GlobalSettings", "Model", "Material", "Texture", "Video", "Geometry", "NodeAttribute"}, types)

	var phong *fbx.Node
	for _, ot := range definitions.GetNodes("ObjectType") {
		if ot.Properties[0] == "Material" {
			phong = ot.GetNode("PropertyTemplate").GetNode("Properties70")
		}
	}
	require.NotNil(t, phong)
	ambient := findP(phong, "AmbientColor")
	require.NotNil(t, ambient)
	assert.Equal(t, []interface{}{"AmbientColor", "Color", "", "A", float64(1), float64(1), float64(1)}, ambient.Properties)

	sceneInfo := root.GetNode("FBXHeaderExtension").GetNode("SceneInfo")
	require.NotNil(t, sceneInfo)
	assert.Equal(t, "crate.fbx", sceneInfo.GetNode("MetaData").GetNode("Title").Properties[0])

	props := sceneInfo.GetNode("Properties70")
	for _, name := range []string{"Original|ApplicationName", "LastSaved|ApplicationName"} {
		p := findP(props, name)
		if assert.NotNil(t, p, name) {
			assert.Equal(t, FBX_APPLICATION_NAME, p.Properties[4])
		}
	}
	assert.Equal(t, "crate.fbx", findP(props, "Original|FileName").Properties[4])
	assert.Nil(t, findP(props, "LastSaved|FileName"))

	settings := root.GetNode("GlobalSettings").GetNode("Properties70")
	assert.Equal(t, int32(1), findP(settings, "UpAxis").Properties[4])
	assert.Equal(t, int32(2), findP(settings, "FrontAxis").Properties[4])
}

func TestHeadersNotShared(t *testing.T) {
	a := NewFBXBuilder("a.fbx", SceneInfo{})
	b := NewFBXBuilder("b.fbx", SceneInfo{})

	pa := a.Root().GetNode("Definitions").GetNodes("ObjectType")[1].GetNode("PropertyTemplate").GetNode("Properties70").Nodes[0]
	pb := b.Root().GetNode("Definitions").GetNodes("ObjectType")[1].GetNode("PropertyTemplate").GetNode("Properties70").Nodes[0]
	assert.Equal(t, pa.Properties, pb.Properties)
	assert.NotSame(t, pa, pb)
}

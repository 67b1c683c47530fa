package gltfutils

import (
	"bytes"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRootNode(t *testing.T) {
	gc := NewCacher()

	a := AddRootNode(gc.Doc, &gltf.Node{Name: "a"})
	b := AddRootNode(gc.Doc, &gltf.Node{Name: "b"})

	assert.Equal(t, uint32(0), a)
	assert.Equal(t, uint32(1), b)
	assert.Equal(t, []uint32{0, 1}, gc.Doc.Scenes[0].Nodes)
}

func TestCacherGetCachedOr(t *testing.T) {
	gc := NewCacher()
	calls := 0
	create := func() interface{} {
		calls++
		return calls
	}

	assert.Equal(t, 1, gc.GetCachedOr("image:a", create))
	assert.Equal(t, 1, gc.GetCachedOr("image:a", create))
	assert.Equal(t, 2, gc.GetCachedOr("image:b", create))

	gc.AddCache("image:c", "c")
	assert.Equal(t, "c", gc.GetCached("image:c"))
}

func TestExportEmptyDocument(t *testing.T) {
	gc := NewCacher()
	AddRootNode(gc.Doc, &gltf.Node{Name: "empty"})

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, gc.Doc, false))
	assert.Contains(t, buf.String(), `"empty"`)

	buf.Reset()
	require.NoError(t, Export(&buf, gc.Doc, true))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("glTF")))
}

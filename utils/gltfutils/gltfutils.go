package gltfutils

import (
	"io"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// GLTFCacher is a document plus exported objects keyed by name, so
// textures referenced several times are written once.
type GLTFCacher struct {
	Doc *gltf.Document
	c   map[string]interface{}
}

func NewCacher() *GLTFCacher {
	return &GLTFCacher{
		Doc: gltf.NewDocument(),
		c:   make(map[string]interface{}),
	}
}

func (gc *GLTFCacher) AddCache(key string, v interface{}) {
	gc.c[key] = v
}

func (gc *GLTFCacher) GetCached(key string) interface{} {
	return gc.c[key]
}

func (gc *GLTFCacher) GetCachedOr(key string, create func() interface{}) interface{} {
	if v, ok := gc.c[key]; ok {
		return v
	}
	v := create()
	gc.c[key] = v
	return v
}

// AddRootNode appends node to the document and to the default scene.
func AddRootNode(doc *gltf.Document, node *gltf.Node) uint32 {
	index := uint32(len(doc.Nodes))
	doc.Nodes = append(doc.Nodes, node)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, index)
	return index
}

// Export encodes doc as .glb, or as .gltf with buffers embedded as data uris.
func Export(w io.Writer, doc *gltf.Document, binary bool) error {
	if !binary {
		for _, buffer := range doc.Buffers {
			if buffer.URI == "" {
				buffer.EmbeddedResource()
			}
		}
	}
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = binary
	return errors.Wrapf(encoder.Encode(doc), "Failed to encode gltf")
}

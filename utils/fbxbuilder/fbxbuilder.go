package fbxbuilder

import (
	"io"
	"os"

	"github.com/mogaika/fbx"
	"github.com/mogaika/fbx/builders/bfbx73"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mogaika/smd2fbx/logger"
)

const FBX_VERSION = 7400
const FBX_CREATOR = "FBX SDK/FBX Plugins version 2013.3 build=20121223"
const FBX_APPLICATION_VENDOR = "smd2fbx"
const FBX_APPLICATION_NAME = "smd2fbx"
const FBX_APPLICATION_VERSION = "1.0"
const FBX_DATE_TIME_GMT = "01/01/1970 00:00:00.000"
const FBX_CREATION_TIME = "1970-01-01 10:00:00:000"

var FBX_FILE_ID []byte = []byte{
	0x28, 0xb3, 0x2a, 0xeb, 0xb6, 0x24, 0xcc, 0xc2,
	0xbf, 0xc8, 0xb0, 0x2a, 0xa9, 0x2b, 0xfc, 0xf1}

// SceneInfo is the document metadata stored in the header extension.
type SceneInfo struct {
	Title    string
	Subject  string
	Author   string
	Keywords string
	Revision string
	Comment  string
}

type FBXBuilder struct {
	f      *fbx.FBX
	c      map[string]interface{}
	lastId int64

	objects     *fbx.Node
	connections *fbx.Node
}

func NewFBXBuilder(filename string, info SceneInfo) *FBXBuilder {
	f := &FBXBuilder{
		c:           make(map[string]interface{}),
		lastId:      1000000,
		f:           fbx.NewFBX(FBX_VERSION),
		objects:     bfbx73.Objects(),
		connections: bfbx73.Connections(),
	}
	f.createHeaders(filename, info)
	return f
}

// Node creates a node for record types that have no bfbx73 helper.
func Node(name string, properties ...interface{}) *fbx.Node {
	return &fbx.Node{Name: name, Properties: properties}
}

// countDefinitions updates ObjectType counts from the objects added so far.
func (f *FBXBuilder) countDefinitions() {
	counts := make(map[string]int32)
	for _, object := range f.objects.Nodes {
		counts[object.Name]++
	}

	definitions := f.Root().GetNode("Definitions")
	totalCount := int32(1) // GlobalSettings

	for name, count := range counts {
		totalCount += count

		var objectType *fbx.Node
		for _, ot := range definitions.GetNodes("ObjectType") {
			if ot.Properties[0].(string) == name {
				objectType = ot
			}
		}
		if objectType == nil {
			objectType = bfbx73.ObjectType(name)
			definitions.AddNode(objectType)
		}

		objectType.GetOrAddNode(bfbx73.Count(0)).Properties[0] = count
		logger.Debug("[fbx] definition", zap.String("type", name), zap.Int32("count", count))
	}

	definitions.GetOrAddNode(bfbx73.Count(0)).Properties[0] = totalCount
}

func (f *FBXBuilder) Root() *fbx.Node {
	return &f.f.Root
}

// Objects returns the nodes added through AddObjects.
func (f *FBXBuilder) Objects() []*fbx.Node {
	return f.objects.Nodes
}

func (f *FBXBuilder) Connections() []*fbx.Node {
	return f.connections.Nodes
}

func (f *FBXBuilder) AddCache(key string, d interface{}) {
	f.c[key] = d
}

func (f *FBXBuilder) GetCached(key string) interface{} {
	return f.c[key]
}

func (f *FBXBuilder) GetCachedOr(key string, create func() interface{}) interface{} {
	if v, ok := f.c[key]; ok {
		return v
	}
	v := create()
	f.c[key] = v
	return v
}

func (f *FBXBuilder) GenerateId() int64 {
	f.lastId++
	return f.lastId
}

// Write serializes the document. The encoder seeks back to patch node end
// offsets, so the data goes through a temp file unless w is one already.
func (f *FBXBuilder) Write(w io.Writer) error {
	f.countDefinitions()
	if ce := logger.Log.Check(zap.DebugLevel, "[fbx] document"); ce != nil {
		ce.Write(zap.String("tree", f.f.SPrint()))
	}

	if file, ok := w.(*os.File); ok {
		return errors.Wrapf(fbx.Write(file, f.f), "Failed to encode fbx")
	}

	tempFile, err := os.CreateTemp("", "fbxexport.*.fbx")
	if err != nil {
		return errors.Wrapf(err, "Unable to create temp file")
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	if err := fbx.Write(tempFile, f.f); err != nil {
		return errors.Wrapf(err, "Failed to encode fbx")
	}

	if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
		return errors.Wrapf(err, "Unable to seek")
	}
	_, err = io.Copy(w, tempFile)
	return err
}

func (f *FBXBuilder) AddObjects(nodes ...*fbx.Node)     { f.objects.AddNodes(nodes...) }
func (f *FBXBuilder) AddConnections(nodes ...*fbx.Node) { f.connections.AddNodes(nodes...) }

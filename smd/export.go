package smd

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mogaika/smd2fbx/logger"
	"github.com/mogaika/smd2fbx/utils"
	"github.com/mogaika/smd2fbx/utils/fbxbuilder"
)

type Format string

const (
	FormatFBX  Format = "fbx"
	FormatGLTF Format = "gltf"
	FormatGLB  Format = "glb"
	FormatOBJ  Format = "obj"
)

var Formats = []Format{FormatFBX, FormatGLTF, FormatGLB, FormatOBJ}

func ParseFormat(s string) (Format, error) {
	s = strings.TrimPrefix(strings.ToLower(s), ".")
	if s == "" {
		return FormatFBX, nil
	}
	for _, f := range Formats {
		if Format(s) == f {
			return f, nil
		}
	}
	return "", errors.Errorf("Unknown output format %q", s)
}

func (f Format) Extension() string {
	if f == "" {
		return FormatFBX.Extension()
	}
	return "." + string(f)
}

func (f Format) ContentType() string {
	switch f {
	case FormatGLTF:
		return "model/gltf+json"
	case FormatGLB:
		return "model/gltf-binary"
	case FormatOBJ:
		return "text/plain"
	}
	return "application/octet-stream"
}

type ExportOptions struct {
	Format  Format
	Normals NormalSource
	// Title and Keywords are replaced by the model name.
	SceneInfo fbxbuilder.SceneInfo
	// Dump logs the welded mesh at debug level before encoding.
	Dump bool
}

func DefaultSceneInfo() fbxbuilder.SceneInfo {
	return fbxbuilder.SceneInfo{
		Subject:  "Another SMD converter thingy...",
		Author:   "iDGi",
		Revision: "rev. 1.0",
		Comment:  "n/a",
	}
}

// OutputPath replaces the extension of the input path with the format one.
func OutputPath(input string, format Format) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + format.Extension()
}

// Export consolidates normals if that was not done yet and encodes the mesh.
// fileName is recorded in the fbx document header.
func Export(w io.Writer, m *Mesh, fileName string, opts *ExportOptions) error {
	if err := m.Validate(); err != nil {
		return err
	}
	m.ConsolidateNormals()

	if opts.Dump {
		logger.Debug("[smd] mesh", zap.String("dump", utils.SDump(m)))
	}

	switch opts.Format {
	case FormatFBX, "":
		return m.WriteFbx(w, fileName, opts)
	case FormatGLTF:
		return m.WriteGLTF(w, false, opts)
	case FormatGLB:
		return m.WriteGLTF(w, true, opts)
	case FormatOBJ:
		return m.ExportObj(w, opts)
	}
	return errors.Errorf("Unknown output format %q", opts.Format)
}

// ExportFile writes the mesh to path through a temp file in the same
// directory. Nothing is left at path when export fails.
func ExportFile(path string, m *Mesh, opts *ExportOptions) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return ioError("create", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = Export(tmp, m, path, opts); err != nil {
		if IsMalformed(err) {
			return err
		}
		return ioError("write", path, err)
	}
	if err = tmp.Close(); err != nil {
		return ioError("write", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return ioError("rename", path, err)
	}
	return nil
}

// ConvertFile parses input and writes it next to it with the extension of
// opts.Format. It returns the output path.
func ConvertFile(input string, popts ParseOptions, opts *ExportOptions) (string, error) {
	output := OutputPath(input, opts.Format)
	if popts.Name == "" {
		popts.Name = filepath.Base(output)
	}

	m, err := Load(input, popts)
	if err != nil {
		return "", err
	}

	logger.Info("[smd] parsed",
		zap.String("file", input),
		zap.Int("polygons", len(m.Triangles)),
		zap.Int("vertices", len(m.Vertices)))

	if err := ExportFile(output, m, opts); err != nil {
		return "", err
	}

	logger.Info("[smd] exported", zap.String("file", output), zap.String("format", string(opts.Format)))
	return output, nil
}

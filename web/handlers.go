package web

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mogaika/smd2fbx/config"
	"github.com/mogaika/smd2fbx/logger"
	"github.com/mogaika/smd2fbx/smd"
	"github.com/mogaika/smd2fbx/webutils"
)

func (s *Server) HandlerFormats(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, smd.Formats)
}

func (s *Server) HandlerEncodings(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, config.ListEncodings())
}

// HandlerConvert converts the uploaded smd (form field "smd" or raw body).
// Query "name" sets the model name, "normals" and "encoding" override config.
func (s *Server) HandlerConvert(w http.ResponseWriter, r *http.Request) {
	cfg := *s.cfg
	q := r.URL.Query()
	if format, ok := mux.Vars(r)["format"]; ok {
		cfg.Export.Format = format
	}
	if normals := q.Get("normals"); normals != "" {
		cfg.Export.Normals = normals
	}
	if encoding := q.Get("encoding"); encoding != "" {
		cfg.Input.Encoding = encoding
	}

	eopts, err := cfg.ExportOptions()
	if err != nil {
		webutils.WriteError(w, http.StatusBadRequest, err)
		return
	}
	popts, err := cfg.ParseOptions()
	if err != nil {
		webutils.WriteError(w, http.StatusBadRequest, err)
		return
	}

	name := filepath.Base(q.Get("name"))
	if name == "." || name == "/" || name == "" {
		name = "model"
	}
	name = strings.TrimSuffix(name, filepath.Ext(name)) + eopts.Format.Extension()
	popts.Name = name

	in, err := webutils.ReadUpload(w, r, "smd", cfg.Server.MaxInputSize)
	if err != nil {
		webutils.WriteError(w, uploadErrorStatus(err, http.StatusBadRequest), err)
		return
	}
	defer in.Close()

	m, err := smd.Parse(in, popts)
	if err != nil {
		webutils.WriteError(w, uploadErrorStatus(err, http.StatusInternalServerError), err)
		return
	}

	// encode fully before responding, a failed export must not leave a
	// truncated attachment
	var buf bytes.Buffer
	if err := smd.Export(&buf, m, name, eopts); err != nil {
		webutils.WriteError(w, http.StatusInternalServerError, err)
		return
	}

	logger.Info("[web] converted",
		zap.String("name", name),
		zap.Int("polygons", len(m.Triangles)),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("size", buf.Len()))

	webutils.WriteFile(w, &buf, name, eopts.Format.ContentType())
}

func uploadErrorStatus(err error, fallback int) int {
	switch {
	case webutils.IsTooLarge(err):
		return http.StatusRequestEntityTooLarge
	case smd.IsMalformed(err):
		return http.StatusBadRequest
	}
	return fallback
}

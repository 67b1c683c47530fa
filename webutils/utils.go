package webutils

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mogaika/smd2fbx/logger"
)

func WriteFileHeaders(w http.ResponseWriter, name, contentType string) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
}

func WriteFile(w http.ResponseWriter, in io.Reader, name, contentType string) {
	WriteFileHeaders(w, name, contentType)
	if _, err := io.Copy(w, in); err != nil {
		logger.Warn("[web] Error when writing file", zap.String("file", name), zap.Error(err))
	}
}

func WriteJson(w http.ResponseWriter, data interface{}) {
	res, err := json.Marshal(data)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err)
	} else {
		w.Header().Set("Content-Type", "application/json")
		WriteResult(w, res)
	}
}

// ReadUpload returns the multipart file formFileKey of a POST request, or the
// raw body when the request is not multipart. A request body over limit bytes
// fails with an error matched by IsTooLarge, either here or on read.
func ReadUpload(w http.ResponseWriter, r *http.Request, formFileKey string, limit int64) (io.ReadCloser, error) {
	if strings.ToUpper(r.Method) != "POST" {
		return nil, errors.Errorf("Invalid http method %q", r.Method)
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(limit); err != nil {
			return nil, errors.Wrapf(err, "Failed to parse form")
		}
		f, _, err := r.FormFile(formFileKey)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to get file %q", formFileKey)
		}
		return f, nil
	}

	return r.Body, nil
}

// IsTooLarge reports whether err comes from a body over the ReadUpload limit.
func IsTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func WriteResult(w http.ResponseWriter, data []byte) {
	if _, err := w.Write(data); err != nil {
		logger.Warn("[web] Error when writing response", zap.Error(err))
	}
}

func WriteError(w http.ResponseWriter, status int, err error) {
	type jError struct {
		Error string `json:"error"`
	}
	data, merr := json.Marshal(&jError{Error: err.Error()})
	if merr != nil {
		logger.Error("[web] Error marshaling error", zap.Error(err), zap.NamedError("marshal", merr))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	logger.Info("[web] HERR", zap.Int("status", status), zap.ByteString("body", data))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	WriteResult(w, data)
}

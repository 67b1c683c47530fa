package webutils

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadUploadRawBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/convert", strings.NewReader("0123456789"))

	in, err := ReadUpload(httptest.NewRecorder(), req, "smd", 10)
	require.NoError(t, err)
	defer in.Close()

	data, err := io.ReadAll(in)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(data))
}

func TestReadUploadRawBodyTooLarge(t *testing.T) {
	req := httptest.NewRequest("POST", "/convert", strings.NewReader("0123456789"))

	in, err := ReadUpload(httptest.NewRecorder(), req, "smd", 4)
	require.NoError(t, err)
	defer in.Close()

	// the body must fail instead of being cut short
	_, err = io.ReadAll(in)
	require.Error(t, err)
	assert.True(t, IsTooLarge(err))
}

func TestReadUploadMultipartTooLarge(t *testing.T) {
	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	fw, err := mw.CreateFormFile("smd", "a.smd")
	require.NoError(t, err)
	_, err = fw.Write([]byte(strings.Repeat("0 0 0 0 0 0 1 0 0\n", 64)))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/convert", &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	_, err = ReadUpload(httptest.NewRecorder(), req, "smd", 16)
	require.Error(t, err)
	assert.True(t, IsTooLarge(err))
}

func TestReadUploadMultipart(t *testing.T) {
	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	fw, err := mw.CreateFormFile("smd", "a.smd")
	require.NoError(t, err)
	_, err = fw.Write([]byte("triangles\nend\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/convert", &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	in, err := ReadUpload(httptest.NewRecorder(), req, "smd", 1<<20)
	require.NoError(t, err)
	defer in.Close()

	data, err := io.ReadAll(in)
	require.NoError(t, err)
	assert.Equal(t, "triangles\nend\n", string(data))

	_, err = ReadUpload(httptest.NewRecorder(), req, "other", 1<<20)
	assert.Error(t, err)
}

func TestReadUploadMethod(t *testing.T) {
	_, err := ReadUpload(httptest.NewRecorder(), httptest.NewRequest("GET", "/convert", nil), "smd", 1)
	assert.Error(t, err)
	assert.False(t, IsTooLarge(err))
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusBadRequest, errors.New(`bad "input"`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"bad \"input\""}`, rec.Body.String())
}

func TestWriteFile(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteFile(rec, strings.NewReader("data"), "a.fbx", "")

	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="a.fbx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "data", rec.Body.String())
}

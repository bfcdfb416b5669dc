package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "realtime-chat/backend/pkg/errors"
	"realtime-chat/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough of a real PNG for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", JSON: true, Output: io.Discard})
}

func newUploadRouter(t *testing.T, maxFileSize int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h, err := NewUploadHandler(t.TempDir(), maxFileSize, "http://localhost:5002", testLogger())
	require.NoError(t, err)

	r := gin.New()
	r.Use(apperrors.ErrorHandler())
	h.RegisterRoutes(r)
	return r
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadAcceptsImage(t *testing.T) {
	r := newUploadRouter(t, 100*1024)

	body, contentType := multipartBody(t, "pic.png", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		FileURL  string `json:"fileUrl"`
		FileType string `json:"fileType"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.FileURL, "/uploads/")
	assert.Contains(t, resp.FileURL, "pic.png")
	assert.Equal(t, "image/png", resp.FileType)
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	r := newUploadRouter(t, 100*1024)

	body, contentType := multipartBody(t, "notes.txt", []byte("plain text, not media"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "UNSUPPORTED_TYPE")
}

func TestUploadRejectsOversizeFile(t *testing.T) {
	r := newUploadRouter(t, 16)

	payload := append(pngHeader, bytes.Repeat([]byte{0}, 64)...)
	body, contentType := multipartBody(t, "big.png", payload)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "FILE_TOO_LARGE")
}

func TestUploadRequiresFile(t *testing.T) {
	r := newUploadRouter(t, 100*1024)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.CodeValidationFailed)
}

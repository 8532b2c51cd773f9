package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing to see image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n")

func multipartUpload(t *testing.T, folder, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if folder != "" {
		require.NoError(t, writer.WriteField("folder", folder))
	}
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func (e *testEnv) doUpload(t *testing.T, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/admin/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestUploadImage(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	body, contentType := multipartUpload(t, "gallery", "photo.png", append(pngHeader, []byte("pixels")...))
	resp := env.doUpload(t, token, body, contentType)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var result struct {
		Path string `json:"path"`
		URL  string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.True(t, strings.HasPrefix(result.Path, "gallery/"))
	assert.True(t, strings.HasSuffix(result.Path, ".png"))
	assert.Equal(t, "https://media.example.com/"+result.Path, result.URL)

	require.Len(t, env.uploaded.keys, 1)
}

func TestUploadRejectsNonImage(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	body, contentType := multipartUpload(t, "gallery", "notes.txt", []byte("plain text, not an image"))
	resp := env.doUpload(t, token, body, contentType)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.Code)
	assert.Empty(t, env.uploaded.keys)
}

func TestUploadRejectsUnknownFolder(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	body, contentType := multipartUpload(t, "secrets", "photo.png", pngHeader)
	resp := env.doUpload(t, token, body, contentType)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUploadRequiresFolder(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	body, contentType := multipartUpload(t, "", "photo.png", pngHeader)
	resp := env.doUpload(t, token, body, contentType)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "Missing folder")
	assert.Empty(t, env.uploaded.keys)
}

func TestUploadRequiresFile(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("folder", "gallery"))
	require.NoError(t, writer.Close())

	resp := env.doUpload(t, token, &buf, writer.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUploadRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartUpload(t, "gallery", "photo.png", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/admin/uploads", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

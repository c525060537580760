package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadImageRequest(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	srv, app := setupTestServer(t)
	token, _ := signupUser(t, app, "barnacle")

	t.Run("Post image upload", func(t *testing.T) {
		body, contentType := uploadImageRequest(t, "shore.png", []byte("png-bytes"))
		req := httptest.NewRequest(http.MethodPost, "/api/images/upload", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var uploaded struct {
			ImageURL string `json:"image_url"`
		}
		decodeBody(t, resp, &uploaded)
		require.True(t, strings.HasPrefix(uploaded.ImageURL, "posts/"), "got %q", uploaded.ImageURL)

		stored, err := os.ReadFile(filepath.Join(srv.config.UploadDir, filepath.FromSlash(uploaded.ImageURL)))
		require.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), stored)
	})

	t.Run("User avatar upload", func(t *testing.T) {
		body, contentType := uploadImageRequest(t, "me.jpg", []byte("jpg-bytes"))
		req := httptest.NewRequest(http.MethodPost, "/api/images/upload?kind=user", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var uploaded struct {
			ImageURL string `json:"image_url"`
		}
		decodeBody(t, resp, &uploaded)
		assert.True(t, strings.HasPrefix(uploaded.ImageURL, "users/"), "got %q", uploaded.ImageURL)
	})

	t.Run("Unsupported extension rejected", func(t *testing.T) {
		body, contentType := uploadImageRequest(t, "payload.exe", []byte("nope"))
		req := httptest.NewRequest(http.MethodPost, "/api/images/upload", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Missing file", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/images/upload", token, map[string]string{})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

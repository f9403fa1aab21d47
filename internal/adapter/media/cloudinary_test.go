package media

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResourceType(t *testing.T) {
	tests := map[string]string{
		"image/jpeg":               "image",
		"video/mp4":                "video",
		"audio/webm":               "video",
		"application/octet-stream": "auto",
		"":                         "auto",
	}
	for contentType, want := range tests {
		assert.Equal(t, want, ResourceType(contentType), contentType)
	}
}

func TestCloudinaryUploader_Upload(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/demo/video/upload", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "voice", r.FormValue("upload_preset"))

		file, header, err := r.FormFile("file")
		if assert.NoError(t, err) {
			defer file.Close()
			data, _ := io.ReadAll(file)
			assert.Equal(t, "clip", string(data))
			assert.Equal(t, "post_u1.webm", header.Filename)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"secure_url":"https://cdn.example/clip.webm","resource_type":"video"}`)
	}))
	defer srv.Close()

	u := NewCloudinaryUploader(Config{CloudName: "demo", UploadPreset: "voice", BaseURL: srv.URL}, zap.NewNop())

	// Act
	up, err := u.Upload(context.Background(), []byte("clip"), "post_u1.webm", "audio/webm")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/clip.webm", up.URL)
	assert.Equal(t, "video", up.ResourceType)
}

func TestCloudinaryUploader_RejectedDoesNotTripBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"message":"Invalid image file"}}`)
	}))
	defer srv.Close()

	u := NewCloudinaryUploader(Config{CloudName: "demo", BaseURL: srv.URL}, zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := u.Upload(context.Background(), []byte("x"), "a.jpg", "image/jpeg")
		require.ErrorIs(t, err, ErrUploadRejected)
		assert.Contains(t, err.Error(), "Invalid image file")
	}
	assert.Equal(t, int32(5), calls.Load())
}

func TestCloudinaryUploader_ServerErrorsOpenCircuit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	u := NewCloudinaryUploader(Config{CloudName: "demo", BaseURL: srv.URL}, zap.NewNop())

	var lastErr error
	for i := 0; i < 5; i++ {
		_, lastErr = u.Upload(context.Background(), []byte("x"), "a.jpg", "image/jpeg")
	}

	assert.ErrorIs(t, lastErr, gobreaker.ErrOpenState)
	assert.Equal(t, int32(3), calls.Load())
}

func TestInlineUploader(t *testing.T) {
	up, err := InlineUploader{}.Upload(context.Background(), []byte("hi"), "x.png", "image/png")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up.URL, "data:image/png;base64,"))
	assert.Equal(t, "image", up.ResourceType)
}

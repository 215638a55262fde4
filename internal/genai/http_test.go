package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-studio/internal/image"
	"scene-studio/pkg/geometry"
)

func encodePNG(t *testing.T, buf *image.Buffer) string {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, png.Encode(&b, buf.ToNRGBA()))
	return base64.StdEncoding.EncodeToString(b.Bytes())
}

func testBuffer(w, h int, tag uint8) *image.Buffer {
	buf := image.NewBuffer(w, h)
	for i := 0; i < len(buf.Pix); i += 4 {
		buf.Pix[i] = tag
		buf.Pix[i+3] = 255
	}
	return buf
}

func TestCompositeScene_RoundTrip(t *testing.T) {
	result := testBuffer(40, 30, 77)

	var gotPath, gotAuth, gotRequestID string
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")

		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotForm = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotForm[k] = v[0]
		}
		assert.Contains(t, r.MultipartForm.File, "product")
		assert.Contains(t, r.MultipartForm.File, "scene")

		_ = json.NewEncoder(w).Encode(serviceResponse{
			Image:       encodePNG(t, result),
			DebugPrompt: "test prompt",
		})
	}))
	defer server.Close()

	client := NewHTTPClient(Config{Endpoint: server.URL, APIKey: "secret", Model: "scene-composite-1", TimeoutSec: 5})
	got, err := client.CompositeScene(context.Background(), CompositeRequest{
		Product:      testBuffer(10, 10, 1),
		ProductLabel: "bottle",
		Scene:        testBuffer(40, 30, 2),
		SceneLabel:   "shelf",
		Position:     geometry.NewPoint2D(25, 75),
		Scale:        1.5,
	})
	require.NoError(t, err)

	assert.Equal(t, "/composite", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "bottle", gotForm["product_label"])
	assert.Equal(t, "25.0000", gotForm["position_x"])
	assert.Equal(t, "75.0000", gotForm["position_y"])
	assert.Equal(t, "1.5000", gotForm["scale"])
	assert.Equal(t, "scene-composite-1", gotForm["model"])

	assert.True(t, got.Image.Equal(result), "the returned image survives the PNG round trip")
	assert.Equal(t, "test prompt", got.DebugPrompt)
	assert.Nil(t, got.DebugImage)
}

func TestCompositeScene_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(serviceResponse{Error: "model overloaded"})
	}))
	defer server.Close()

	client := NewHTTPClient(Config{Endpoint: server.URL, TimeoutSec: 5})
	_, err := client.CompositeScene(context.Background(), CompositeRequest{
		Product: testBuffer(4, 4, 1),
		Scene:   testBuffer(8, 8, 2),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestCompositeScene_Unreachable(t *testing.T) {
	client := NewHTTPClient(Config{Endpoint: "http://127.0.0.1:1", TimeoutSec: 1})
	_, err := client.CompositeScene(context.Background(), CompositeRequest{
		Product: testBuffer(4, 4, 1),
		Scene:   testBuffer(8, 8, 2),
	})
	assert.Error(t, err)
}

func TestInpaint_SendsMask(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		assert.Equal(t, "/inpaint", r.URL.Path)
		assert.Contains(t, r.MultipartForm.File, "scene")
		assert.Contains(t, r.MultipartForm.File, "mask")
		_ = json.NewEncoder(w).Encode(serviceResponse{Image: encodePNG(t, testBuffer(8, 8, 9))})
	}))
	defer server.Close()

	client := NewHTTPClient(Config{Endpoint: server.URL, TimeoutSec: 5})
	out, err := client.Inpaint(context.Background(), testBuffer(8, 8, 1), testBuffer(8, 8, 255))
	require.NoError(t, err)
	assert.Equal(t, uint8(9), out.Pix[0])
}

func TestRemoveBackground_NoImageInResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(serviceResponse{})
	}))
	defer server.Close()

	client := NewHTTPClient(Config{Endpoint: server.URL, TimeoutSec: 5})
	_, err := client.RemoveBackground(context.Background(), testBuffer(4, 4, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no image")
}

func TestConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:8089", cfg.Endpoint)
	assert.Equal(t, "scene-composite-1", cfg.Model)
	assert.Equal(t, 120, cfg.TimeoutSec)
	assert.Empty(t, cfg.APIKey)

	assert.Equal(t, "2m0s", cfg.Timeout().String())
	assert.Equal(t, "2m0s", Config{}.Timeout().String(), "zero timeout falls back to the default")
}

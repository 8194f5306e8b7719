package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/snaptext/config"
	"github.com/ByLCY/snaptext/fonts"
)

func newTestServer() *Server {
	defaults := config.Default()
	defaults.Backend = config.BackendRaster
	return New(defaults, &fonts.Resolver{Fallback: fonts.DefaultEmbedded}, nil)
}

func captionRequest(t *testing.T, fields map[string]string, withImage bool) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withImage {
		img := image.NewRGBA(image.Rect(0, 0, 120, 80))
		draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 128, G: 128, B: 128, A: 255}), image.Point{}, draw.Src)
		fw, err := mw.CreateFormFile("image", "in.png")
		require.NoError(t, err)
		require.NoError(t, png.Encode(fw, img))
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/v1/caption", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())

	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestRequestIDEcho(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))
}

func TestNode(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/node", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var info struct {
		Params []struct {
			Name    string   `json:"name"`
			Choices []string `json:"choices"`
		} `json:"params"`
		Placements []string `json:"placements"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Len(t, info.Params, len(config.Params()))
	assert.Equal(t, config.KeyText, info.Params[0].Name)
	assert.Equal(t, []string{"top", "middle", "bottom", "custom"}, info.Placements)
}

func TestCaption(t *testing.T) {
	req := captionRequest(t, map[string]string{
		"text":               "Frame ${frame.number} by ${user}",
		"vertical_placement": "bottom",
		"bar_color":          "#FF0000",
		"bar_alpha":          "1",
		"data":               `{"user":"ada"}`,
	}, true)
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 120, 80), img.Bounds())

	// 底部背景条覆盖最后一行的左端像素。
	r, g, b, _ := img.At(0, 79).RGBA()
	assert.Equal(t, color.RGBA{R: 255}, color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)})
	r, g, b, _ = img.At(0, 0).RGBA()
	assert.Equal(t, color.RGBA{R: 128, G: 128, B: 128}, color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)})
}

func TestCaptionBadRequests(t *testing.T) {
	cases := map[string]*http.Request{
		"missing image": captionRequest(t, map[string]string{"text": "x"}, false),
		"out of range":  captionRequest(t, map[string]string{"bar_alpha": "2"}, true),
		"bad color":     captionRequest(t, map[string]string{"text_color": "#XYZ"}, true),
		"bad backend":   captionRequest(t, map[string]string{"backend": "vulkan"}, true),
		"bad data":      captionRequest(t, map[string]string{"data": "{"}, true),
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newTestServer().Handler().ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

package recipe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	stdimage "image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-engine/internal/core/assistant"
	"recipe-engine/internal/core/engine"
	"recipe-engine/internal/core/image"
	"recipe-engine/internal/infrastructure/config"
	"recipe-engine/internal/pkg/common"
)

type fakeVision struct {
	enabled bool
	names   []string
	err     error
	got     string
}

func (f *fakeVision) Enabled() bool { return f.enabled }

func (f *fakeVision) IdentifyIngredients(_ context.Context, img string) ([]string, error) {
	f.got = img
	return f.names, f.err
}

type fakeScans struct {
	sources []string
}

func (f *fakeScans) ObserveScan(source string) { f.sources = append(f.sources, source) }

func pngDataURI(t *testing.T) string {
	t.Helper()
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newScanRouter(t *testing.T, vision IngredientIdentifier, scans ScanRecorder) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	e, err := engine.NewDefault(config.Default().Engine)
	require.NoError(t, err)
	h := NewHandler(e, image.NewService(1<<20, 256, 80), vision, scans)

	r := gin.New()
	r.POST("/scan", h.Scan)
	return r
}

func postScan(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/scan", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestScan_Photo(t *testing.T) {
	vision := &fakeVision{enabled: true, names: []string{"poulet", "citron"}}
	scans := &fakeScans{}
	r := newScanRouter(t, vision, scans)

	body, err := json.Marshal(ScanRequest{Ingredients: []string{"olives"}, Image: pngDataURI(t)})
	require.NoError(t, err)

	w := postScan(r, string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ScanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"olives", "poulet", "citron"}, resp.Ingredients)
	assert.Equal(t, []string{"poulet", "citron"}, resp.Identified)
	assert.NotEmpty(t, resp.Results)
	assert.True(t, strings.HasPrefix(vision.got, "data:image/jpeg;base64,"))
	assert.Equal(t, []string{"photo"}, scans.sources)
}

func TestScan_PhotoErrors(t *testing.T) {
	tests := []struct {
		name   string
		vision *fakeVision
		image  string
		status int
		code   string
	}{
		{"vision disabled", &fakeVision{}, "", http.StatusServiceUnavailable, "ASSISTANT_DISABLED"},
		{"not an image", &fakeVision{enabled: true}, "data:image/png;base64,bm90IGFuIGltYWdl", http.StatusBadRequest, "INVALID_IMAGE_FORMAT"},
		{"upstream failure", &fakeVision{enabled: true, err: errors.New("boom")}, "", http.StatusBadGateway, "ASSISTANT_ERROR"},
		{"queue full", &fakeVision{enabled: true, err: assistant.ErrQueueFull}, "", http.StatusServiceUnavailable, common.ErrCodeServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scans := &fakeScans{}
			r := newScanRouter(t, tt.vision, scans)

			img := tt.image
			if img == "" {
				img = pngDataURI(t)
			}
			body, err := json.Marshal(ScanRequest{Image: img})
			require.NoError(t, err)

			w := postScan(r, string(body))
			assert.Equal(t, tt.status, w.Code)
			var resp common.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.Empty(t, scans.sources)
		})
	}
}

func TestScan_NamesOnly(t *testing.T) {
	scans := &fakeScans{}
	r := newScanRouter(t, nil, scans)

	w := postScan(r, `{"ingredients":["semoule","carottes","courgettes","pois chiches"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"names"}, scans.sources)
}

package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	r := gin.New()
	r.Use(m.HTTPMiddleware())
	r.GET("/recipes/:name", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for _, path := range []string{"/recipes/harira", "/recipes/pastilla", "/missing"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/recipes/:name", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "recipe_engine_http_requests_total")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestBusinessMetrics(t *testing.T) {
	m := NewMetrics()

	m.ObserveTurn("Harira", false)
	m.ObserveTurn("", true)
	m.ObserveTurn("", false)
	m.ObserveScan("photo")
	m.ObserveAssistant("reply", "llama", "success", 200*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.turnsTotal.WithLabelValues("recipe_confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.turnsTotal.WithLabelValues("stressed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.turnsTotal.WithLabelValues("chat")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recipesConfirmed.WithLabelValues("Harira")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scansTotal.WithLabelValues("photo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.assistantRequests.WithLabelValues("reply", "llama", "success")))
}

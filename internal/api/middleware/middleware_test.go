package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestBodySizeLimit_Streaming(t *testing.T) {
	r := gin.New()
	r.Use(BodySizeLimit(8))
	r.POST("/echo", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("0123456789"))
	req.ContentLength = -1
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/echo", strings.NewReader("small")).Code)
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(20 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/fast", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(r, http.MethodGet, "/slow", nil)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Contains(t, w.Body.String(), "GATEWAY_TIMEOUT")

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/fast", nil).Code)
}

func TestInject(t *testing.T) {
	r := gin.New()
	r.Use(Inject(map[string]interface{}{"answer": 42}))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "%d", c.GetInt("answer"))
	})

	assert.Equal(t, "42", serve(r, http.MethodGet, "/", nil).Body.String())
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour, 1)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestDeduplicator(t *testing.T) {
	d := NewDeduplicator(time.Minute)
	defer d.Stop()

	r := gin.New()
	r.Use(d.Middleware())
	r.POST("/items", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		require.NoError(t, err)
		c.String(http.StatusOK, string(body))
	})
	r.GET("/items", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodPost, "/items", strings.NewReader("a"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a", w.Body.String(), "body is restored for the handler")

	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodPost, "/items", strings.NewReader("a")).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/items", strings.NewReader("b")).Code)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/items", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/items", nil).Code)
}

func TestDeduplicator_WindowExpires(t *testing.T) {
	d := NewDeduplicator(10 * time.Millisecond)
	defer d.Stop()

	r := gin.New()
	r.Use(d.Middleware())
	r.POST("/items", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/items", strings.NewReader("a")).Code)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/items", strings.NewReader("a")).Code)
}

package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newEngine(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(origins))
	r.GET("/api/universities", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestAllowedOrigin(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/universities", nil)
	req.Header.Set("Origin", "http://localhost:3000/")
	newEngine([]string{"http://localhost:3000"}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000/", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRejectedOriginGetsNoHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/universities", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	newEngine([]string{"http://localhost:3000"}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflight(t *testing.T) {
	engine := newEngine([]string{"http://localhost:3000"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/universities", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodOptions, "/api/universities", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestWildcard(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/universities", nil)
	req.Header.Set("Origin", "http://anything.example.com")
	newEngine([]string{"*"}).ServeHTTP(w, req)
	assert.Equal(t, "http://anything.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

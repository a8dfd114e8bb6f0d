package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/Nixie-Tech-LLC/dqdash/internal/metrics"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logger(), Metrics())
	r.GET("/ping/:id", func(c *gin.Context) {
		id, _ := GetRequestID(c)
		c.String(http.StatusOK, id)
	})
	return r
}

func TestRequestIDGenerated(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping/1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	id := w.Header().Get(RequestIDHeader)
	assert.Len(t, id, 20)
	assert.Equal(t, id, w.Body.String())
}

func TestRequestIDPropagated(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping/1", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	newRouter().ServeHTTP(w, req)

	assert.Equal(t, "upstream-id", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "upstream-id", w.Body.String())
}

func TestMetricsByRoute(t *testing.T) {
	r := newRouter()
	before := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("/ping/:id", http.MethodGet, "200"))

	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping/7", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	after := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("/ping/:id", http.MethodGet, "200"))
	assert.Equal(t, 3.0, after-before)
	assert.GreaterOrEqual(t, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("unmatched", http.MethodGet, "404")), 1.0)
}

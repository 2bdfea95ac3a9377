package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRegistration(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.RecordRegistration("registered")
	m.RecordRegistration("registered")
	m.RecordRegistration("duplicate")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Registrations.WithLabelValues("registered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Registrations.WithLabelValues("duplicate")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(prometheus.NewRegistry())

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/members/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/metrics", m.Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/members/42", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `route="/api/members/:id"`)
	assert.Contains(t, w.Body.String(), `status="404"`)
}

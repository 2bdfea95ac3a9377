package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-kitchensink/internal/infrastructure/metrics"
)

// MetricsModule exposes Prometheus metrics at GET /metrics
type MetricsModule struct {
	Metrics *metrics.Metrics
}

func NewMetricsModule(m *metrics.Metrics) *MetricsModule { return &MetricsModule{Metrics: m} }

func (m *MetricsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/metrics", m.Metrics.Handler())
}

// Package metrics 提供基于 Prometheus 的 CRUD 服务指标采集。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	gerrors "gocrud/errors"
)

// Metrics CRUD 操作指标集合
type Metrics struct {
	operations *prometheus.CounterVec
	errors     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// New 创建指标集合并注册到给定的 Registerer。
// registerer 为 nil 时使用 prometheus.DefaultRegisterer。
func New(namespace string, registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "crud_operations_total",
				Help:      "CRUD 操作总数",
			},
			[]string{"entity", "operation"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "crud_errors_total",
				Help:      "按错误码统计的 CRUD 失败总数",
			},
			[]string{"entity", "operation", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "crud_operation_duration_seconds",
				Help:      "CRUD 操作耗时分布",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"entity", "operation"},
		),
	}

	registerer.MustRegister(m.operations, m.errors, m.duration)
	return m
}

// Observe 记录一次操作：计数、耗时，失败时按错误码计入错误计数
func (m *Metrics) Observe(entity, operation string, start time.Time, err error) {
	m.operations.WithLabelValues(entity, operation).Inc()
	m.duration.WithLabelValues(entity, operation).Observe(time.Since(start).Seconds())
	if err != nil {
		m.errors.WithLabelValues(entity, operation, string(gerrors.GetCode(err))).Inc()
	}
}

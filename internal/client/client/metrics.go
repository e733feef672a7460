package client

import (
	"fmt"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Metrics counts requests per method and status code and records their
// latency. A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	gatherer prometheus.Gatherer
}

// NewMetrics registers the client collectors on reg.
func NewMetrics(reg *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "greenhub",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Backend requests by method and status code.",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "greenhub",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Backend request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		gatherer: reg,
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) observe(method, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, code).Inc()
	m.duration.WithLabelValues(method).Observe(d.Seconds())
}

// RequestCount is one row of the request counter.
type RequestCount struct {
	Method string
	Code   string
	Count  float64
}

// Requests returns the counter rows sorted by method, then code.
func (m *Metrics) Requests() ([]RequestCount, error) {
	if m == nil {
		return nil, nil
	}
	families, err := m.gatherer.Gather()
	if err != nil {
		return nil, err
	}

	var rows []RequestCount
	for _, f := range families {
		if f.GetName() != "greenhub_client_requests_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			rows = append(rows, requestRow(metric))
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Method != rows[j].Method {
			return rows[i].Method < rows[j].Method
		}
		return rows[i].Code < rows[j].Code
	})
	return rows, nil
}

func requestRow(m *dto.Metric) RequestCount {
	row := RequestCount{Count: m.GetCounter().GetValue()}
	for _, l := range m.GetLabel() {
		switch l.GetName() {
		case "method":
			row.Method = l.GetValue()
		case "code":
			row.Code = l.GetValue()
		}
	}
	return row
}

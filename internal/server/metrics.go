package server

import (
	"sync"
	"time"
)

// RejectReason classifies why the publish endpoint refused a request.
type RejectReason string

const (
	RejectMethod    RejectReason = "method"
	RejectToken     RejectReason = "token"
	RejectEmptyBody RejectReason = "empty_body"
)

// Metrics holds application metrics.
type Metrics struct {
	mu sync.RWMutex

	// Publish metrics
	publishesTotal       int64
	publishBytesTotal    int64
	publishErrorsTotal   int64
	publishDurationTotal time.Duration

	// Rejection metrics, by gate
	rejectedMethodTotal int64
	rejectedTokenTotal  int64
	rejectedEmptyTotal  int64

	// Page serving metrics
	pagesServedTotal     int64
	pageBytesServedTotal int64

	// Mirror metrics
	mirrorPushesTotal int64
	mirrorBytesTotal  int64
	mirrorErrorsTotal int64

	// Webhook metrics
	webhookDeliveredTotal int64
	webhookFailedTotal    int64

	// System metrics
	requestsTotal    int64
	requestErrors4xx int64
	requestErrors5xx int64
}

var globalMetrics = &Metrics{}

// GetMetrics returns the global metrics instance.
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordPublish records a successful page publish.
func (m *Metrics) RecordPublish(bytes int64, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishesTotal++
	m.publishBytesTotal += bytes
	m.publishDurationTotal += duration
}

// RecordPublishError records a failed store write.
func (m *Metrics) RecordPublishError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishErrorsTotal++
}

// RecordRejection records a request refused by one of the publish gates.
func (m *Metrics) RecordRejection(reason RejectReason) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch reason {
	case RejectMethod:
		m.rejectedMethodTotal++
	case RejectToken:
		m.rejectedTokenTotal++
	case RejectEmptyBody:
		m.rejectedEmptyTotal++
	}
}

// RecordPageServed records a page read served to a client.
func (m *Metrics) RecordPageServed(bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pagesServedTotal++
	m.pageBytesServedTotal += bytes
}

// RecordMirrorPush records a successful mirror upload.
func (m *Metrics) RecordMirrorPush(bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mirrorPushesTotal++
	m.mirrorBytesTotal += bytes
}

// RecordMirrorError records a failed mirror upload.
func (m *Metrics) RecordMirrorError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mirrorErrorsTotal++
}

// RecordWebhookDelivery records a webhook delivery outcome.
func (m *Metrics) RecordWebhookDelivery(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if success {
		m.webhookDeliveredTotal++
	} else {
		m.webhookFailedTotal++
	}
}

// RecordRequest records an HTTP request by response class.
func (m *Metrics) RecordRequest(statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestsTotal++

	if statusCode >= 500 {
		m.requestErrors5xx++
	} else if statusCode >= 400 {
		m.requestErrors4xx++
	}
}

// Snapshot returns a point-in-time copy of all counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return MetricsSnapshot{
		PublishesTotal:       m.publishesTotal,
		PublishBytesTotal:    m.publishBytesTotal,
		PublishErrorsTotal:   m.publishErrorsTotal,
		PublishAvgDurationMs: avgDuration(m.publishDurationTotal, m.publishesTotal),
		RejectedMethodTotal:  m.rejectedMethodTotal,
		RejectedTokenTotal:   m.rejectedTokenTotal,
		RejectedEmptyTotal:   m.rejectedEmptyTotal,
		PagesServedTotal:     m.pagesServedTotal,
		PageBytesServedTotal: m.pageBytesServedTotal,
		MirrorPushesTotal:    m.mirrorPushesTotal,
		MirrorBytesTotal:     m.mirrorBytesTotal,
		MirrorErrorsTotal:    m.mirrorErrorsTotal,
		WebhookDelivered:     m.webhookDeliveredTotal,
		WebhookFailed:        m.webhookFailedTotal,
		RequestsTotal:        m.requestsTotal,
		RequestErrors4xx:     m.requestErrors4xx,
		RequestErrors5xx:     m.requestErrors5xx,
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	PublishesTotal       int64   `json:"publishes_total"`
	PublishBytesTotal    int64   `json:"publish_bytes_total"`
	PublishErrorsTotal   int64   `json:"publish_errors_total"`
	PublishAvgDurationMs float64 `json:"publish_avg_duration_ms"`

	RejectedMethodTotal int64 `json:"rejected_method_total"`
	RejectedTokenTotal  int64 `json:"rejected_token_total"`
	RejectedEmptyTotal  int64 `json:"rejected_empty_total"`

	PagesServedTotal     int64 `json:"pages_served_total"`
	PageBytesServedTotal int64 `json:"page_bytes_served_total"`

	MirrorPushesTotal int64 `json:"mirror_pushes_total"`
	MirrorBytesTotal  int64 `json:"mirror_bytes_total"`
	MirrorErrorsTotal int64 `json:"mirror_errors_total"`

	WebhookDelivered int64 `json:"webhook_delivered_total"`
	WebhookFailed    int64 `json:"webhook_failed_total"`

	RequestsTotal    int64 `json:"requests_total"`
	RequestErrors4xx int64 `json:"request_errors_4xx"`
	RequestErrors5xx int64 `json:"request_errors_5xx"`
}

func avgDuration(total time.Duration, count int64) float64 {
	if count == 0 {
		return 0
	}
	return float64(total.Milliseconds()) / float64(count)
}

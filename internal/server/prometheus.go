// prometheus.go - Prometheus text-format exporter over the metrics snapshot.
package server

import (
	"fmt"
	"net/http"
	"strings"
)

// PrometheusExporter renders internal counters in Prometheus exposition
// format on GET /metrics.
type PrometheusExporter struct {
	version string
}

// NewPrometheusExporter creates an exporter labelled with the build version.
func NewPrometheusExporter(version string) *PrometheusExporter {
	if version == "" {
		version = "dev"
	}
	return &PrometheusExporter{version: version}
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (p *PrometheusExporter) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		snapshot := GetMetrics().Snapshot()

		var output strings.Builder

		output.WriteString("# HELP pagegate_info Application version info\n")
		output.WriteString("# TYPE pagegate_info gauge\n")
		output.WriteString(fmt.Sprintf("pagegate_info{version=%q} 1\n\n", p.version))

		writeCounter(&output, "pagegate_requests_total",
			"Total number of HTTP requests", snapshot.RequestsTotal)
		writeCounter(&output, "pagegate_request_errors_4xx_total",
			"Total number of 4xx responses", snapshot.RequestErrors4xx)
		writeCounter(&output, "pagegate_request_errors_5xx_total",
			"Total number of 5xx responses", snapshot.RequestErrors5xx)

		writeCounter(&output, "pagegate_publishes_total",
			"Total number of accepted page publishes", snapshot.PublishesTotal)
		writeCounter(&output, "pagegate_publish_bytes_total",
			"Total bytes written to the target file", snapshot.PublishBytesTotal)
		writeCounter(&output, "pagegate_publish_errors_total",
			"Total number of failed target-file writes", snapshot.PublishErrorsTotal)

		writeCounter(&output, "pagegate_rejected_method_total",
			"Requests rejected by the method gate", snapshot.RejectedMethodTotal)
		writeCounter(&output, "pagegate_rejected_token_total",
			"Requests rejected by the token gate", snapshot.RejectedTokenTotal)
		writeCounter(&output, "pagegate_rejected_empty_total",
			"Requests rejected for an empty body", snapshot.RejectedEmptyTotal)

		writeCounter(&output, "pagegate_pages_served_total",
			"Total number of page reads served", snapshot.PagesServedTotal)
		writeCounter(&output, "pagegate_page_bytes_served_total",
			"Total page bytes served", snapshot.PageBytesServedTotal)

		writeCounter(&output, "pagegate_mirror_pushes_total",
			"Successful mirror uploads", snapshot.MirrorPushesTotal)
		writeCounter(&output, "pagegate_mirror_errors_total",
			"Failed mirror uploads", snapshot.MirrorErrorsTotal)

		writeCounter(&output, "pagegate_webhook_delivered_total",
			"Webhook deliveries that succeeded", snapshot.WebhookDelivered)
		writeCounter(&output, "pagegate_webhook_failed_total",
			"Webhook deliveries that exhausted retries", snapshot.WebhookFailed)

		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(output.String()))
	}
}

func writeCounter(b *strings.Builder, name, help string, value int64) {
	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s counter\n", name)
	fmt.Fprintf(b, "%s %d\n\n", name, value)
}

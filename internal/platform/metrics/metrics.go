package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the invite issuance pipeline and the
// profile flows.
type Metrics struct {
	InvitesIssued     prometheus.Counter
	IssueDuration     prometheus.Histogram
	QRRenderDuration  prometheus.Histogram
	PDFRenderDuration prometheus.Histogram
	ProfileBootstraps prometheus.Counter
	RequestDuration   *prometheus.HistogramVec
}

// New creates a Metrics instance with all metrics registered on the default
// registry.
func New() *Metrics {
	return &Metrics{
		InvitesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guestpass_invites_issued_total",
			Help: "Total number of invites successfully issued",
		}),
		IssueDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "guestpass_invite_issue_duration_seconds",
			Help:    "End to end duration of invite issuance",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		QRRenderDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "guestpass_qr_render_duration_seconds",
			Help:    "Duration of QR code encoding",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		PDFRenderDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "guestpass_pdf_render_duration_seconds",
			Help:    "Duration of invite document composition",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		ProfileBootstraps: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guestpass_profile_bootstraps_total",
			Help: "Total number of profile documents bootstrapped from signup events",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "guestpass_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "status"}),
	}
}

// ObserveIssue records the duration of an issuance call. Call with
// time.Now() captured at the start of the operation.
func (m *Metrics) ObserveIssue(start time.Time) {
	m.IssueDuration.Observe(time.Since(start).Seconds())
}

// ObserveQRRender records the duration of a QR encode.
func (m *Metrics) ObserveQRRender(start time.Time) {
	m.QRRenderDuration.Observe(time.Since(start).Seconds())
}

// ObservePDFRender records the duration of a document composition.
func (m *Metrics) ObservePDFRender(start time.Time) {
	m.PDFRenderDuration.Observe(time.Since(start).Seconds())
}

package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "headlink"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	translations     *prom.CounterVec
	rewrites         *prom.CounterVec
	syntheticEntries *prom.CounterVec
	scanDuration     prom.Histogram
	indexedDocuments prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil registry gets a private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		translations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "translations_total",
			Help:      "Link translations by outcome",
		}, []string{"result"}),
		rewrites: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "rewrites_total",
			Help:      "Editor fragment rewrites by outcome",
		}, []string{"result"}),
		syntheticEntries: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "synthetic_entries_total",
			Help:      "Synthetic metadata entries added by kind",
		}, []string{"kind"}),
		scanDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Duration of a single heading scan",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}),
		indexedDocuments: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "indexed_documents",
			Help:      "Documents currently held in the resolution index",
		}),
	}
	reg.MustRegister(pr.translations, pr.rewrites, pr.syntheticEntries, pr.scanDuration, pr.indexedDocuments)
	return pr
}

func (p *PrometheusRecorder) IncTranslation(result ResultLabel) {
	if p == nil {
		return
	}
	p.translations.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncRewrite(result ResultLabel) {
	if p == nil {
		return
	}
	p.rewrites.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) AddSyntheticEntries(kind EntryKind, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.syntheticEntries.WithLabelValues(string(kind)).Add(float64(n))
}

func (p *PrometheusRecorder) ObserveScanDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.scanDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetIndexedDocuments(n int) {
	if p == nil {
		return
	}
	p.indexedDocuments.Set(float64(n))
}

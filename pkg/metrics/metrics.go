// Package metrics defines the Prometheus collectors for bookfreq. The CLI
// writes them to a textfile on exit for node_exporter's textfile collector.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dtnitsch/bookfreq/models"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	FetchesTotal  *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	FetchBytes    prometheus.Counter
	LookupsTotal  *prometheus.CounterVec
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
	WordFrequency *prometheus.GaugeVec
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookfreq_fetches_total",
				Help: "Book fetches by outcome (success, http_error, network_error).",
			},
			[]string{"result"},
		),
		FetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bookfreq_fetch_duration_seconds",
				Help:    "Time spent downloading a book.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
		FetchBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bookfreq_fetch_bytes_total",
				Help: "Bytes of book text downloaded.",
			},
		),
		LookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookfreq_lookups_total",
				Help: "Local store lookups by result (hit, miss).",
			},
			[]string{"result"},
		),
		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bookfreq_text_cache_hits_total",
				Help: "Fetches served from the text cache.",
			},
		),
		CacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bookfreq_text_cache_misses_total",
				Help: "Fetches that went to the network.",
			},
		),
		WordFrequency: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bookfreq_word_frequency",
				Help: "Count of each top word for the books processed in this run.",
			},
			[]string{"title", "rank", "word"},
		),
	}

	m.registry.MustRegister(
		m.FetchesTotal,
		m.FetchDuration,
		m.FetchBytes,
		m.LookupsTotal,
		m.CacheHits,
		m.CacheMisses,
		m.WordFrequency,
	)
	return m
}

// ObserveFetch records one download attempt.
func (m *Metrics) ObserveFetch(result string, elapsed time.Duration, size int64) {
	m.FetchesTotal.WithLabelValues(result).Inc()
	m.FetchDuration.Observe(elapsed.Seconds())
	if size > 0 {
		m.FetchBytes.Add(float64(size))
	}
}

// ObserveLookup records a store lookup.
func (m *Metrics) ObserveLookup(found bool) {
	result := "miss"
	if found {
		result = "hit"
	}
	m.LookupsTotal.WithLabelValues(result).Inc()
}

// SetWordFrequencies exports the ranked entries of one book.
func (m *Metrics) SetWordFrequencies(title string, entries []models.FrequencyEntry) {
	for i, e := range entries {
		m.WordFrequency.WithLabelValues(title, strconv.Itoa(i+1), e.Word).Set(float64(e.Count))
	}
}

// WriteFile writes every metric in text exposition format to path.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}

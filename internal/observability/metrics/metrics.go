// Package metrics registers the service's Prometheus instruments.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "pixelcraft_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	quotesTotal   prometheus.Counter
	storeWrites   *prometheus.CounterVec
	streamClients prometheus.Gauge
)

// Init registers the instruments. Safe to call more than once; helpers are
// no-ops until it has run.
func Init() {
	registerOnce.Do(func() {
		quotesTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "quotes_total",
				Help: "Total pricing quotes computed",
			},
		)
		storeWrites = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "store_writes_total",
				Help: "Total project store writes by operation and result",
			},
			[]string{"op", "result"},
		)
		streamClients = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "stream_clients",
				Help: "Currently connected live stream clients",
			},
		)

		prometheus.MustRegister(quotesTotal, storeWrites, streamClients)
	})
}

// ObserveQuote counts one computed quote.
func ObserveQuote() {
	if quotesTotal != nil {
		quotesTotal.Inc()
	}
}

// ObserveStoreWrite counts one create/update/delete against the store.
func ObserveStoreWrite(op, result string) {
	if storeWrites != nil {
		storeWrites.WithLabelValues(op, result).Inc()
	}
}

// StreamClientConnected tracks a new live stream subscriber.
func StreamClientConnected() {
	if streamClients != nil {
		streamClients.Inc()
	}
}

// StreamClientDisconnected tracks a departed live stream subscriber.
func StreamClientDisconnected() {
	if streamClients != nil {
		streamClients.Dec()
	}
}

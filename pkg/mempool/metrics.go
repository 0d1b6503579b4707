package mempool

import "github.com/prometheus/client_golang/prometheus"

// memPoolSize tracks the current number of pooled transactions.
var memPoolSize = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Help:      "Number of transactions currently held in the mempool",
		Name:      "mempool_size",
		Namespace: "ironfish",
	},
)

// initializeMempoolMetrics registers the mempool's gauges with the default
// Prometheus registry. Call once per process.
func initializeMempoolMetrics() {
	prometheus.MustRegister(memPoolSize)
}

func updateMempoolMetrics(size int) {
	memPoolSize.Set(float64(size))
}

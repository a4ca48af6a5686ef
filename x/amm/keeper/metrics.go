package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the AMM module.
type Metrics struct {
	SwapsTotal       *prometheus.CounterVec
	SwapVolume       *prometheus.CounterVec
	SwapLatency      prometheus.Histogram
	LiquidityAdded   *prometheus.CounterVec
	LiquidityRemoved *prometheus.CounterVec
	PairsTotal       prometheus.Gauge
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// NewMetrics creates and registers AMM metrics (singleton pattern).
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			SwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pond",
					Subsystem: "amm",
					Name:      "swaps_total",
					Help:      "Total number of pair swaps executed",
				},
				[]string{"pair", "status"},
			),
			SwapVolume: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pond",
					Subsystem: "amm",
					Name:      "swap_volume_total",
					Help:      "Total swap input volume in base units",
				},
				[]string{"pair", "asset"},
			),
			SwapLatency: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "pond",
					Subsystem: "amm",
					Name:      "swap_latency_seconds",
					Help:      "Swap execution latency in seconds",
					Buckets:   prometheus.DefBuckets,
				},
			),
			LiquidityAdded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pond",
					Subsystem: "amm",
					Name:      "liquidity_added_total",
					Help:      "Total liquidity deposited into pairs",
				},
				[]string{"pair", "asset"},
			),
			LiquidityRemoved: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pond",
					Subsystem: "amm",
					Name:      "liquidity_removed_total",
					Help:      "Total liquidity withdrawn from pairs",
				},
				[]string{"pair", "asset"},
			),
			PairsTotal: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "pond",
					Subsystem: "amm",
					Name:      "pairs_total",
					Help:      "Number of registered pairs",
				},
			),
		}
	})
	return metrics
}

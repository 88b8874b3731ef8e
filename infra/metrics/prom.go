package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/kilianp07/assetsim/core/metrics"
)

// PromSink records simulation tick results in Prometheus metrics.
type PromSink struct {
	ticks    *prometheus.CounterVec
	soc      *prometheus.GaugeVec
	power    *prometheus.GaugeVec
	duration *prometheus.HistogramVec
}

// NewPromSink registers the simulation metrics on the provided registerer.
// If reg is nil, the default registerer is used. Already registered
// collectors are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ticks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_ticks_total",
		Help: "Total number of simulation ticks per asset",
	}, []string{"asset_id"})
	soc := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "asset_state_of_charge_percent",
		Help: "Asset state of charge in percent",
	}, []string{"asset_id"})
	power := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "asset_power_watts",
		Help: "Instantaneous asset power, positive for consumption",
	}, []string{"asset_id"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sim_tick_duration_seconds",
		Help:    "Wall time spent per simulation tick",
		Buckets: prometheus.DefBuckets,
	}, []string{"asset_id"})

	collectors := []prometheus.Collector{ticks, soc, power, duration}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			collectors[i] = are.ExistingCollector
		}
	}
	return &PromSink{
		ticks:    collectors[0].(*prometheus.CounterVec),
		soc:      collectors[1].(*prometheus.GaugeVec),
		power:    collectors[2].(*prometheus.GaugeVec),
		duration: collectors[3].(*prometheus.HistogramVec),
	}, nil
}

// RecordTick updates the metrics for each tick result.
func (s *PromSink) RecordTick(results []coremetrics.TickResult) error {
	for _, r := range results {
		s.ticks.WithLabelValues(r.AssetID).Inc()
		s.soc.WithLabelValues(r.AssetID).Set(r.StateOfCharge)
		s.power.WithLabelValues(r.AssetID).Set(r.PowerW)
		s.duration.WithLabelValues(r.AssetID).Observe(r.TickDuration.Seconds())
	}
	return nil
}

// StartPromServer serves the Prometheus scrape endpoint on the given port.
// It blocks until the server fails.
func StartPromServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

package metrics

import (
	"github.com/kilianp07/assetsim/core/logger"
	coremetrics "github.com/kilianp07/assetsim/core/metrics"
)

// NewSinks builds the sink stack selected by cfg: Nop when nothing is
// enabled, the single sink when one is, a MultiSink otherwise. The
// Prometheus scrape server is the caller's responsibility.
func NewSinks(cfg coremetrics.Config, log logger.Logger) (coremetrics.Sink, error) {
	if log == nil {
		log = logger.NopLogger{}
	}
	var sinks []coremetrics.Sink
	if cfg.PrometheusEnabled {
		sink, err := NewPromSink(nil)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
		log.Infof("prometheus sink enabled on port %d", cfg.PrometheusPort)
	}
	if cfg.InfluxEnabled {
		sinks = append(sinks, NewInfluxSinkWithFallback(cfg))
		log.Infof("influx sink enabled at %s", cfg.InfluxURL)
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return coremetrics.NewMultiSink(sinks...), nil
	}
}

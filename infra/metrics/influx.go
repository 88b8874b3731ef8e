package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/assetsim/core/logger"
	coremetrics "github.com/kilianp07/assetsim/core/metrics"
	"github.com/kilianp07/assetsim/core/timeseries"
	infralogger "github.com/kilianp07/assetsim/infra/logger"
)

// InfluxSink writes tick results to an InfluxDB instance using the official
// client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      infralogger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.Sink {
	sink := NewInfluxSink(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordTick writes the tick results as line protocol points.
func (s *InfluxSink) RecordTick(results []coremetrics.TickResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, r := range results {
		p := write.NewPointWithMeasurement("sim_tick").
			AddTag("run_id", r.RunID).
			AddTag("asset_id", r.AssetID).
			AddTag("control_level", strconv.Itoa(r.ControlLevel)).
			AddField("power_w", round3(r.PowerW)).
			AddField("internal_energy_wh", round3(r.InternalEnergyWh)).
			AddField("state_of_charge", round3(r.StateOfCharge)).
			AddField("tick_duration_ns", r.TickDuration.Nanoseconds()).
			SetTime(pointTime(r.Timestamp))
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

// pointTime maps a simulation timestamp to an Influx point time. Tick
// timestamps are written as seconds since the epoch.
func pointTime(ts timeseries.Timestamp) time.Time {
	if ts.Kind() == timeseries.KindWall {
		return ts.WallValue()
	}
	return time.Unix(ts.TickValue(), 0).UTC()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

package metrics

import "fmt"

// Config selects and configures the metric sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    int    `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == 0 {
		c.PrometheusPort = 9090
	}
}

// Validate checks mandatory fields for the enabled sinks.
func (c Config) Validate() error {
	if c.PrometheusEnabled && (c.PrometheusPort <= 0 || c.PrometheusPort > 65535) {
		return fmt.Errorf("invalid prometheus port %d", c.PrometheusPort)
	}
	if c.InfluxEnabled && c.InfluxURL == "" {
		return fmt.Errorf("influx url is required when influx is enabled")
	}
	return nil
}

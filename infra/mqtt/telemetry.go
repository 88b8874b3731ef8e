// Package mqtt publishes simulation telemetry over MQTT. The publisher is
// optional; the simulation runs without a broker when it is disabled.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/kilianp07/assetsim/core/logger"
	"github.com/kilianp07/assetsim/core/metrics"
)

// Config holds the MQTT telemetry settings.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "assetsim"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "assetsim"
	}
}

// Validate checks mandatory fields when telemetry is enabled.
func (c Config) Validate() error {
	if c.Enabled && c.Broker == "" {
		return fmt.Errorf("broker is required when mqtt telemetry is enabled")
	}
	return nil
}

// Publisher publishes per-tick asset results to the broker.
type Publisher struct {
	client paho.Client
	prefix string
	qos    byte
	log    logger.Logger
}

type tickPayload struct {
	RunID            string  `json:"run_id"`
	AssetID          string  `json:"asset_id"`
	Timestamp        string  `json:"timestamp"`
	ControlLevel     int     `json:"control_level"`
	PowerW           float64 `json:"power_w"`
	InternalEnergyWh float64 `json:"internal_energy_wh"`
	StateOfCharge    float64 `json:"state_of_charge"`
}

// NewPublisher connects to the broker and returns a telemetry publisher.
func NewPublisher(cfg Config, log logger.Logger) (*Publisher, error) {
	if log == nil {
		log = logger.NopLogger{}
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID + "-" + uuid.NewString()[:8]).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)
	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &Publisher{client: client, prefix: cfg.TopicPrefix, qos: cfg.QoS, log: log}, nil
}

// PublishTick publishes one tick result as JSON on the asset's telemetry
// topic.
func (p *Publisher) PublishTick(result metrics.TickResult) error {
	payload, err := json.Marshal(tickPayload{
		RunID:            result.RunID,
		AssetID:          result.AssetID,
		Timestamp:        result.Timestamp.String(),
		ControlLevel:     result.ControlLevel,
		PowerW:           result.PowerW,
		InternalEnergyWh: result.InternalEnergyWh,
		StateOfCharge:    result.StateOfCharge,
	})
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("%s/%s/telemetry", p.prefix, result.AssetID)
	if token := p.client.Publish(topic, p.qos, false, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish %s: %w", topic, token.Error())
	}
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

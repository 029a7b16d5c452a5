package vacmap

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MapPublisher publishes rendered maps to MQTT for home-automation
// consumers. The image goes to <prefix>/<device>/map as retained PNG bytes,
// the header attributes to <prefix>/<device>/map/attributes as JSON.
type MapPublisher struct {
	client mqtt.Client
	prefix string
	qos    byte
	retain bool
}

// NewMapPublisher creates a publisher. An empty prefix falls back to the
// MQTT_PUBLISH_PREFIX env var, then to "vacmap".
func NewMapPublisher(client mqtt.Client, prefix string) *MapPublisher {
	if prefix == "" {
		prefix = os.Getenv("MQTT_PUBLISH_PREFIX")
	}
	if prefix == "" {
		prefix = "vacmap"
	}
	return &MapPublisher{
		client: client,
		prefix: prefix,
		qos:    0,
		retain: true, // retain so integrations see the latest map on subscribe
	}
}

// mapAttributes is the metadata published alongside the image.
type mapAttributes struct {
	Version    string     `json:"version"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Rooms      []RoomInfo `json:"rooms,omitempty"`
	RenderedAt int64      `json:"renderedAt"`
}

// PublishMap publishes one rendered map and its attributes.
func (p *MapPublisher) PublishMap(deviceID string, header *MapHeader, pngData []byte) error {
	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}

	imageTopic := fmt.Sprintf("%s/%s/map", p.prefix, deviceID)
	if token := p.client.Publish(imageTopic, p.qos, p.retain, pngData); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", imageTopic, token.Error())
	}

	attrs := mapAttributes{
		Version:    header.Version.String(),
		Width:      header.Width,
		Height:     header.Height,
		Rooms:      header.Rooms,
		RenderedAt: time.Now().Unix(),
	}
	payload, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("marshaling map attributes: %w", err)
	}

	attrTopic := imageTopic + "/attributes"
	if token := p.client.Publish(attrTopic, p.qos, p.retain, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", attrTopic, token.Error())
	}
	return nil
}

// ConnectMQTT connects a paho client using the given settings. An empty
// broker disables publishing and returns nil.
func ConnectMQTT(cfg MQTTConfig) (mqtt.Client, error) {
	if cfg.Broker == "" {
		return nil, nil
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "vacmap"
	}
	opts.SetClientID(clientID)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(60 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker %s: %w", cfg.Broker, token.Error())
	}
	return client, nil
}

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTSender publishes bid events on rentit/bids/<type> so downstream
// consumers (owner dashboards, audit pipelines) can subscribe to status
// changes without polling the API.
type MQTTSender struct {
	client mqtt.Client
}

// NewMQTTSender connects to the broker named by MQTT_BROKER_URL. Returns nil
// if the variable is unset, or an error if the connect fails.
func NewMQTTSender() (*MQTTSender, error) {
	brokerURL := os.Getenv("MQTT_BROKER_URL")
	if brokerURL == "" {
		return nil, nil
	}
	clientID := os.Getenv("MQTT_CLIENT_ID")
	if clientID == "" {
		clientID = "rentit-notifier"
	}

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &MQTTSender{client: client}, nil
}

func (s *MQTTSender) Name() string { return "mqtt" }

func (s *MQTTSender) Send(_ context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	topic := fmt.Sprintf("rentit/bids/%s", ev.Type)
	token := s.client.Publish(topic, 0, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish: %w", err)
	}
	return nil
}

// Close disconnects from the broker.
func (s *MQTTSender) Close() {
	s.client.Disconnect(250)
}

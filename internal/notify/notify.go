// Package notify tells downstream consumers that a schedule changed so they
// can refresh whatever they derived from it.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/dqdash/internal/metrics"
)

const publishTimeout = 5 * time.Second

// Event is the message body published for every schedule change.
type Event struct {
	Type       string    `json:"type"`
	ScheduleID int       `json:"scheduleId"`
	Reason     string    `json:"reason"`
	At         time.Time `json:"at"`
}

type Notifier interface {
	ScheduleChanged(ctx context.Context, scheduleID int, reason string)
	Close()
}

// Nop drops every event.
type Nop struct{}

func (Nop) ScheduleChanged(context.Context, int, string) {}
func (Nop) Close()                                        {}

// Publisher is the part of mqtt.Client the notifier uses.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTT publishes events to dq/schedules/<id>/changed.
type MQTT struct {
	pub    Publisher
	client mqtt.Client
	now    func() time.Time
}

// Connect dials the broker and returns a notifier bound to it.
func Connect(brokerURL, clientID string) (*MQTT, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(mqtt.Client) {
		log.Info().Str("broker", brokerURL).Msg("connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Str("broker", brokerURL).Msg("MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(publishTimeout) {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: timeout", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", brokerURL, err)
	}

	n := NewMQTT(client)
	n.client = client
	return n, nil
}

func NewMQTT(pub Publisher) *MQTT {
	return &MQTT{pub: pub, now: time.Now}
}

func Topic(scheduleID int) string {
	return fmt.Sprintf("dq/schedules/%d/changed", scheduleID)
}

// ScheduleChanged publishes and waits briefly for the broker. Failures are
// logged and counted, never returned.
func (n *MQTT) ScheduleChanged(ctx context.Context, scheduleID int, reason string) {
	body, err := json.Marshal(Event{
		Type:       "schedule_changed",
		ScheduleID: scheduleID,
		Reason:     reason,
		At:         n.now().UTC(),
	})
	if err != nil {
		log.Error().Err(err).Int("schedule_id", scheduleID).Msg("failed to encode schedule event")
		return
	}

	topic := Topic(scheduleID)
	token := n.pub.Publish(topic, 1, false, body)

	timeout := publishTimeout
	if dl, ok := ctx.Deadline(); ok && time.Until(dl) < timeout {
		timeout = time.Until(dl)
	}
	if !token.WaitTimeout(timeout) {
		metrics.NotificationsPublished.WithLabelValues("error").Inc()
		log.Warn().Str("topic", topic).Msg("timed out publishing schedule event")
		return
	}
	if err := token.Error(); err != nil {
		metrics.NotificationsPublished.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("topic", topic).Msg("failed to publish schedule event")
		return
	}
	metrics.NotificationsPublished.WithLabelValues("ok").Inc()
	log.Debug().Str("topic", topic).Str("reason", reason).Msg("published schedule event")
}

func (n *MQTT) Close() {
	if n.client != nil {
		n.client.Disconnect(250)
		log.Info().Msg("MQTT client disconnected")
	}
}

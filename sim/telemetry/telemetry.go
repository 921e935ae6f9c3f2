// Package telemetry delivers change-of-value notifications for simulated
// points over MQTT. It stands outside the core engine and consumes only
// the registry's read surface, the same way an attached protocol stack
// would.
package telemetry

import (
	"encoding/json"
	"fmt"
	"time"
)

// TopicPrefix is the root of the per-point topic tree. One point maps to
// TopicPrefix/<object kind>/<instance>.
const TopicPrefix = "bacnet/points"

// ValueEvent is one change-of-value notification.
type ValueEvent struct {
	Object    string    `json:"object"`
	Instance  uint32    `json:"instance"`
	Name      string    `json:"name"`
	Value     float64   `json:"value"`
	Tick      uint64    `json:"tick"`
	Timestamp time.Time `json:"timestamp"`
}

// Topic returns the MQTT topic for an event's point.
func Topic(ev ValueEvent) string {
	return fmt.Sprintf("%s/%s/%d", TopicPrefix, ev.Object, ev.Instance)
}

// FormatPayload renders the JSON wire payload.
func FormatPayload(ev ValueEvent) ([]byte, error) {
	return json.Marshal(ev)
}

// Publisher sends value events somewhere. The real implementation talks
// to an MQTT broker; tests use FakePublisher.
type Publisher interface {
	Publish(ev ValueEvent) error
	Close() error
}

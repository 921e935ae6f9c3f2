package telemetry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FarisRizvanovic/Mock-BacNET-Device/sim"
)

func telemetryRegistry(t *testing.T) *sim.Registry {
	t.Helper()
	reg := sim.NewRegistry()
	defs := []sim.Definition{
		{Kind: sim.AnalogInput, Instance: 1, Name: "SpaceTemperature", InitialValue: 22},
		{Kind: sim.AnalogOutput, Instance: 1, Name: "Damper", InitialValue: 30},
	}
	for _, def := range defs {
		p, err := sim.NewPoint(def)
		require.NoError(t, err)
		require.NoError(t, reg.Register(p))
	}
	return reg
}

func TestTopic_PerPointTree(t *testing.T) {
	ev := ValueEvent{Object: "analogInput", Instance: 3000741}
	assert.Equal(t, "bacnet/points/analogInput/3000741", Topic(ev))
}

func TestFormatPayload_RoundTrips(t *testing.T) {
	ev := ValueEvent{Object: "analogOutput", Instance: 5, Name: "Damper", Value: 42.5, Tick: 9}

	payload, err := FormatPayload(ev)
	require.NoError(t, err)

	var decoded ValueEvent
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, ev.Name, decoded.Name)
	assert.Equal(t, ev.Value, decoded.Value)
	assert.Equal(t, ev.Tick, decoded.Tick)
}

func TestNotifier_FirstScanPublishesEverything(t *testing.T) {
	// GIVEN a fresh notifier over two points
	reg := telemetryRegistry(t)
	pub := NewFakePublisher()
	n := NewNotifier(reg, pub)

	// WHEN the first tick is observed
	n.ObserveTick(1)

	// THEN every point produced one event
	events := pub.Events()
	require.Len(t, events, 2)
	names := []string{events[0].Name, events[1].Name}
	assert.Contains(t, names, "SpaceTemperature")
	assert.Contains(t, names, "Damper")
}

func TestNotifier_PublishesOnlyOnChange(t *testing.T) {
	// GIVEN a notifier that has already seen the current values
	reg := telemetryRegistry(t)
	pub := NewFakePublisher()
	n := NewNotifier(reg, pub)
	n.ObserveTick(1)
	require.Len(t, pub.Events(), 2)

	// WHEN a tick passes with no value changes
	n.ObserveTick(2)

	// THEN nothing new is published
	assert.Len(t, pub.Events(), 2)

	// AND a changed value produces exactly one more event
	require.NoError(t, reg.WritePriority(sim.AnalogOutput, 1, 8, 75))
	n.ObserveTick(3)

	events := pub.Events()
	require.Len(t, events, 3)
	last := events[2]
	assert.Equal(t, "Damper", last.Name)
	assert.Equal(t, 75.0, last.Value)
	assert.Equal(t, uint64(3), last.Tick)
}

func TestNotifier_PublishFailure_DoesNotPanic(t *testing.T) {
	reg := telemetryRegistry(t)
	pub := NewFakePublisher()
	pub.FailPublish = true
	n := NewNotifier(reg, pub)

	// Failures are logged and swallowed; the scan completes.
	n.ObserveTick(1)
	assert.Empty(t, pub.Events())
}

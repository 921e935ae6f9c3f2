package sim

import "fmt"

// Config carries every behavioral parameter of the simulation engine and
// environment model. Field names mirror the keys of the device's INI/YAML
// configuration file.
type Config struct {
	// StepInterval is the simulated (and wall-clock) duration of one tick,
	// in seconds.
	StepInterval float64

	// PriorityAwareSimulation selects BACnet-faithful drive permission:
	// commandable points are only driven while priorities 1..15 are empty.
	// When false (legacy mode) every point is driven every tick.
	PriorityAwareSimulation bool

	// AIVariationRange is the per-tick analog input jitter, as a fraction
	// of the unit's nominal scale.
	AIVariationRange float64

	// AOPriority16Variation is the per-tick drift applied to eligible
	// analog outputs/values, as a fraction of the current value.
	AOPriority16Variation float64

	// BinaryFlipProbability is the per-tick Bernoulli probability that a
	// binary point inverts its state.
	BinaryFlipProbability float64

	// MultistateChangeInterval is the mean seconds between multistate
	// transitions; each point draws its actual interval uniformly from
	// [0.5, 1.5] times this mean.
	MultistateChangeInterval float64

	// TemperatureDriftRate is the per-tick rate at which temperature
	// points drift toward their outdoor-coupled target.
	TemperatureDriftRate float64

	// FlowVariationFactor is the multiplicative per-tick noise applied to
	// flow points.
	FlowVariationFactor float64

	// Environment model parameters.
	OutdoorTempCycleMinutes float64
	OutdoorTempBase         float64
	OutdoorTempAmplitude    float64
	HumidityBase            float64
	HumidityRange           float64
	HumidityStep            float64
}

// DefaultConfig mirrors the defaults of the reference device's
// virtual_device.ini: 0.5 s steps, a 20-minute outdoor "day" of 21 ± 6
// degrees, and mild per-tick variation.
func DefaultConfig() Config {
	return Config{
		StepInterval:             0.5,
		PriorityAwareSimulation:  true,
		AIVariationRange:         0.01,
		AOPriority16Variation:    0.005,
		BinaryFlipProbability:    0.005,
		MultistateChangeInterval: 30,
		TemperatureDriftRate:     0.02,
		FlowVariationFactor:      0.02,
		OutdoorTempCycleMinutes:  20,
		OutdoorTempBase:          21,
		OutdoorTempAmplitude:     6,
		HumidityBase:             50,
		HumidityRange:            25,
		HumidityStep:             0.2,
	}
}

// Validate checks that the config is well-formed. Simulation never starts
// on an invalid config.
func (c Config) Validate() error {
	if c.StepInterval <= 0 {
		return fmt.Errorf("step_interval must be positive, got %v", c.StepInterval)
	}
	if c.BinaryFlipProbability < 0 || c.BinaryFlipProbability > 1 {
		return fmt.Errorf("binary_flip_probability must be in [0, 1], got %v", c.BinaryFlipProbability)
	}
	if c.MultistateChangeInterval <= 0 {
		return fmt.Errorf("multistate_change_interval must be positive, got %v", c.MultistateChangeInterval)
	}
	if c.AIVariationRange < 0 || c.AOPriority16Variation < 0 || c.FlowVariationFactor < 0 {
		return fmt.Errorf("variation ranges must not be negative")
	}
	if c.TemperatureDriftRate < 0 || c.TemperatureDriftRate > 1 {
		return fmt.Errorf("temperature_drift_rate must be in [0, 1], got %v", c.TemperatureDriftRate)
	}
	if c.OutdoorTempCycleMinutes <= 0 {
		return fmt.Errorf("outdoor_temp_cycle_minutes must be positive, got %v", c.OutdoorTempCycleMinutes)
	}
	if c.HumidityRange < 0 || c.HumidityStep < 0 {
		return fmt.Errorf("humidity_range and humidity_step must not be negative")
	}
	return nil
}

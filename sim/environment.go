package sim

import (
	"math"
	"math/rand"
)

// Environment holds the process-wide slowly-varying outdoor signals shared
// by point update rules. It is owned by the engine (one instance per
// simulation, never a package global) and is advanced exactly once per
// tick, before any point consumes it.
type Environment struct {
	cyclePeriod float64 // seconds per full outdoor temperature cycle
	tempBase    float64
	tempAmp     float64

	humidityBase  float64
	humidityRange float64
	humidityStep  float64

	rng      *rand.Rand
	elapsed  float64 // simulated seconds since engine start
	humidity float64
}

// NewEnvironment builds the environment from config. Humidity starts at
// its base value; elapsed time starts at zero, so OutdoorTemperature
// equals the configured base before the first tick.
func NewEnvironment(cfg Config, rng *rand.Rand) *Environment {
	return &Environment{
		cyclePeriod:   cfg.OutdoorTempCycleMinutes * 60,
		tempBase:      cfg.OutdoorTempBase,
		tempAmp:       cfg.OutdoorTempAmplitude,
		humidityBase:  cfg.HumidityBase,
		humidityRange: cfg.HumidityRange,
		humidityStep:  cfg.HumidityStep,
		rng:           rng,
		humidity:      cfg.HumidityBase,
	}
}

// Advance moves simulated time forward by dt seconds and steps the
// humidity random walk once, clamped to base ± range.
func (e *Environment) Advance(dt float64) {
	e.elapsed += dt
	e.humidity += e.rng.Float64()*2*e.humidityStep - e.humidityStep
	lo, hi := e.humidityBase-e.humidityRange, e.humidityBase+e.humidityRange
	if e.humidity < lo {
		e.humidity = lo
	}
	if e.humidity > hi {
		e.humidity = hi
	}
}

// Elapsed is the simulated seconds since engine start.
func (e *Environment) Elapsed() float64 {
	return e.elapsed
}

// OutdoorTemperature is the deterministic sinusoidal outdoor cycle:
// base + amplitude * sin(2π * elapsed / period).
func (e *Environment) OutdoorTemperature() float64 {
	if e.cyclePeriod <= 0 {
		return e.tempBase
	}
	return e.tempBase + e.tempAmp*math.Sin(2*math.Pi*e.elapsed/e.cyclePeriod)
}

// OutdoorHumidity is the current value of the bounded random walk.
func (e *Environment) OutdoorHumidity() float64 {
	return e.humidity
}

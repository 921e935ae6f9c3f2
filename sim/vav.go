package sim

import (
	"math/rand"
	"time"
)

// Control constants lifted from the reference VAV device: a half-degree
// deadband around the space setpoint, proportional damper gain, the room's
// thermal gain, and the hot/cold deck supply temperatures.
const (
	controlBand     = 0.5
	damperGain      = 4.0
	roomThermalGain = 0.04
	coldDeckTemp    = 12.0
	hotDeckTemp     = 30.0
	damperRelaxTo   = 30.0

	faultMeanSeconds      = 120.0
	faultHoldSeconds      = 5.0
	maxFlowRefreshSeconds = 3600.0
	maxFlowLow            = 350.0
	maxFlowHigh           = 450.0
)

// VAVProfile is the closed-loop behavior layer for a device whose points
// follow the standard VAV naming. Instead of independent per-point noise,
// the profile runs the box's control loop each tick: the damper and reheat
// respond to space temperature error, the discharge temperature mixes the
// deck temperatures, and the room temperature responds to supply air.
//
// Every handle is optional; a device missing some of the named points gets
// the loop for whatever subset exists. Commandable points are driven
// through the same slot-16 permission path as the generic rules, so an
// operator override on, say, the Damper freezes the loop's authority over
// it until released.
type VAVProfile struct {
	rng *rand.Rand

	damper      *Point // analogOutput "Damper"
	damperHot   *Point // analogOutput "DamperHotDeck"
	damperCold  *Point // analogOutput "DamperColdDeck"
	reheat      *Point // analogOutput "Reheat"
	occupiedCmd *Point // binaryOutput "OccupiedCommand"
	opStatus    *Point // multistateValue "OperationStatus"

	spaceTemp     *Point
	spaceSetpoint *Point
	inletTemp     *Point
	dischargeTemp *Point
	airflow       *Point
	airflowHot    *Point
	airflowCold   *Point
	humidity      *Point
	maxAirflow    *Point
	outdoorTemp   *Point

	lastOccupied   float64
	nextFault      float64
	faultUntil     float64
	nextMaxRefresh float64
}

// NewVAVProfile binds the well-known VAV point names out of the registry.
// Missing points leave nil handles and disable their part of the loop.
func NewVAVProfile(reg *Registry, rng *rand.Rand) *VAVProfile {
	ao := func(name string) *Point { p, _ := reg.FindNamed(AnalogOutput, name); return p }
	ai := func(name string) *Point { p, _ := reg.FindNamed(AnalogInput, name); return p }

	v := &VAVProfile{
		rng:           rng,
		damper:        ao("Damper"),
		damperHot:     ao("DamperHotDeck"),
		damperCold:    ao("DamperColdDeck"),
		reheat:        ao("Reheat"),
		spaceTemp:     ai("SpaceTemperature"),
		spaceSetpoint: ai("SpaceSetpoint"),
		inletTemp:     ai("InletTemperature"),
		dischargeTemp: ai("DischargeTemperature"),
		airflow:       ai("Airflow"),
		airflowHot:    ai("AirflowHotDeck"),
		airflowCold:   ai("AirflowColdDeck"),
		humidity:      ai("Humidity"),
		maxAirflow:    ai("MaximumAirflow"),
		outdoorTemp:   ai("OutdoorTemperature"),
	}
	if p, ok := reg.FindNamed(BinaryOutput, "OccupiedCommand"); ok {
		v.occupiedCmd = p
		v.lastOccupied = p.EffectiveValue()
	}
	if p, ok := reg.FindNamed(MultistateValue, "OperationStatus"); ok {
		v.opStatus = p
	} else if p, ok := reg.FindNamed(MultistateInput, "OperationStatus"); ok {
		v.opStatus = p
	}
	return v
}

// Managed lists the points the profile drives; the engine exempts them
// from the generic per-kind rules.
func (v *VAVProfile) Managed() []*Point {
	candidates := []*Point{
		v.damper, v.damperHot, v.damperCold, v.reheat, v.opStatus,
		v.spaceTemp, v.inletTemp, v.dischargeTemp,
		v.airflow, v.airflowHot, v.airflowCold,
		v.humidity, v.maxAirflow, v.outdoorTemp, v.spaceSetpoint,
	}
	out := make([]*Point, 0, len(candidates))
	for _, p := range candidates {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// drive lands a computed value on a point, honoring the priority
// permission for commandable kinds. Nil handles are ignored.
func drive(p *Point, priorityAware bool, now time.Time, value float64) {
	if p == nil {
		return
	}
	p.simulate(priorityAware, now, func(float64) float64 { return value })
}

func value(p *Point, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return p.EffectiveValue()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Step advances the closed loop by one tick. Called by the engine after
// the generic rules, with the environment already advanced.
func (v *VAVProfile) Step(env *Environment, cfg Config, now time.Time) {
	pa := cfg.PriorityAwareSimulation

	sp := value(v.spaceSetpoint, comfortTemperature)
	t := value(v.spaceTemp, comfortTemperature)
	damperVal := value(v.damper, 0)
	reheatVal := value(v.reheat, 0)

	// Deadband control: too warm opens the damper, too cold brings on
	// reheat, inside the band the damper relaxes toward its resting
	// position.
	err := sp - t
	switch {
	case err < -controlBand:
		damperVal = clamp(damperVal+(-err)*damperGain, 0, 100)
		reheatVal = 0
	case err > controlBand:
		damperVal = clamp(damperVal-err*damperGain, 0, 100)
		reheatVal = clamp(err*damperGain*2, 0, 100)
	default:
		reheatVal = 0
		damperVal = clamp(damperVal+(damperRelaxTo-damperVal)*0.1, 0, 100)
	}
	drive(v.damper, pa, now, damperVal)
	drive(v.reheat, pa, now, reheatVal)

	// Deck dampers and airflows derive from the primary actuators.
	drive(v.damperHot, pa, now, reheatVal)
	drive(v.damperCold, pa, now, damperVal)
	airflowVal := damperVal * 1.2
	drive(v.airflow, pa, now, airflowVal)
	drive(v.airflowHot, pa, now, reheatVal)
	drive(v.airflowCold, pa, now, damperVal)

	// Supply air mixes the deck temperatures by reheat position; the inlet
	// sensor lags it, and the room responds to supply air and airflow.
	discharge := coldDeckTemp*(1-reheatVal/100) + hotDeckTemp*(reheatVal/100)
	drive(v.dischargeTemp, pa, now, discharge)
	inlet := value(v.inletTemp, discharge)
	drive(v.inletTemp, pa, now, inlet+(discharge-inlet)*0.05)
	t += (discharge - t) * (airflowVal / 120) * roomThermalGain
	drive(v.spaceTemp, pa, now, t)

	// Environment-tracking sensors.
	drive(v.outdoorTemp, pa, now, env.OutdoorTemperature())
	drive(v.humidity, pa, now, env.OutdoorHumidity())

	v.stepFault(env, pa, now)
	v.stepMaxAirflow(env, pa, now)
	v.stepOccupancy(pa, now, sp)
}

// stepFault blips OperationStatus into its fault state for a few seconds,
// with exponentially distributed gaps between blips.
func (v *VAVProfile) stepFault(env *Environment, pa bool, now time.Time) {
	if v.opStatus == nil {
		return
	}
	elapsed := env.Elapsed()
	if v.nextFault == 0 {
		v.nextFault = elapsed + v.rng.ExpFloat64()*faultMeanSeconds
	}
	switch {
	case v.faultUntil > 0 && elapsed >= v.faultUntil:
		drive(v.opStatus, pa, now, 1)
		v.faultUntil = 0
		v.nextFault = elapsed + v.rng.ExpFloat64()*faultMeanSeconds
	case v.faultUntil == 0 && elapsed >= v.nextFault:
		drive(v.opStatus, pa, now, v.faultState())
		v.faultUntil = elapsed + faultHoldSeconds
	}
}

// faultState locates the "Fault" entry in the state text, falling back to
// the last state.
func (v *VAVProfile) faultState() float64 {
	states := v.opStatus.StateText()
	for i, s := range states {
		if s == "Fault" {
			return float64(i + 1)
		}
	}
	return float64(len(states))
}

// stepMaxAirflow refreshes the MaximumAirflow reading on an hourly cadence.
func (v *VAVProfile) stepMaxAirflow(env *Environment, pa bool, now time.Time) {
	if v.maxAirflow == nil {
		return
	}
	elapsed := env.Elapsed()
	if v.nextMaxRefresh == 0 {
		v.nextMaxRefresh = elapsed + maxFlowRefreshSeconds
		return
	}
	if elapsed >= v.nextMaxRefresh {
		drive(v.maxAirflow, pa, now, maxFlowLow+v.rng.Float64()*(maxFlowHigh-maxFlowLow))
		v.nextMaxRefresh = elapsed + maxFlowRefreshSeconds
	}
}

// stepOccupancy nudges the space setpoint when the occupancy command
// toggles.
func (v *VAVProfile) stepOccupancy(pa bool, now time.Time, currentSetpoint float64) {
	if v.occupiedCmd == nil || v.spaceSetpoint == nil {
		return
	}
	occ := v.occupiedCmd.EffectiveValue()
	if occ == v.lastOccupied {
		return
	}
	shift := -0.1
	if occ != 0 {
		shift = 0.1
	}
	drive(v.spaceSetpoint, pa, now, currentSetpoint+shift)
	v.lastOccupied = occ
}

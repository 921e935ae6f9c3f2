package sim

import (
	"math"
	"math/rand"
	"testing"
)

func testEnv(cfg Config, seed int64) *Environment {
	return NewEnvironment(cfg, rand.New(rand.NewSource(seed)))
}

func TestEnvironment_OutdoorTemperature_Sinusoid(t *testing.T) {
	cfg := DefaultConfig() // 20-minute cycle, 21 ± 6
	env := testEnv(cfg, 42)
	period := cfg.OutdoorTempCycleMinutes * 60

	// GIVEN elapsed 0, the temperature sits at the base
	if got := env.OutdoorTemperature(); got != cfg.OutdoorTempBase {
		t.Errorf("t=0: got %v, want %v", got, cfg.OutdoorTempBase)
	}

	// WHEN a quarter cycle elapses
	env.Advance(period / 4)

	// THEN the temperature peaks at base + amplitude
	want := cfg.OutdoorTempBase + cfg.OutdoorTempAmplitude
	if got := env.OutdoorTemperature(); math.Abs(got-want) > 1e-9 {
		t.Errorf("t=period/4: got %v, want %v", got, want)
	}

	// AND a half cycle later it bottoms out at base - amplitude
	env.Advance(period / 2)
	want = cfg.OutdoorTempBase - cfg.OutdoorTempAmplitude
	if got := env.OutdoorTemperature(); math.Abs(got-want) > 1e-9 {
		t.Errorf("t=3*period/4: got %v, want %v", got, want)
	}
}

func TestEnvironment_Humidity_BoundedWalk(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HumidityStep = 5 // exaggerate the walk to stress the clamp
	env := testEnv(cfg, 42)

	lo := cfg.HumidityBase - cfg.HumidityRange
	hi := cfg.HumidityBase + cfg.HumidityRange
	if got := env.OutdoorHumidity(); got != cfg.HumidityBase {
		t.Fatalf("initial humidity: got %v, want base %v", got, cfg.HumidityBase)
	}
	for i := 0; i < 10000; i++ {
		env.Advance(cfg.StepInterval)
		if h := env.OutdoorHumidity(); h < lo || h > hi {
			t.Fatalf("tick %d: humidity %v escaped [%v, %v]", i, h, lo, hi)
		}
	}
}

func TestEnvironment_Deterministic(t *testing.T) {
	// GIVEN two environments built from the same seed
	cfg := DefaultConfig()
	a, b := testEnv(cfg, 7), testEnv(cfg, 7)

	// THEN their humidity traces match tick for tick
	for i := 0; i < 1000; i++ {
		a.Advance(cfg.StepInterval)
		b.Advance(cfg.StepInterval)
		if a.OutdoorHumidity() != b.OutdoorHumidity() {
			t.Fatalf("tick %d: traces diverged (%v vs %v)", i, a.OutdoorHumidity(), b.OutdoorHumidity())
		}
	}
}

func TestEnvironment_Elapsed_Accumulates(t *testing.T) {
	env := testEnv(DefaultConfig(), 1)
	for i := 0; i < 4; i++ {
		env.Advance(0.5)
	}
	if got := env.Elapsed(); got != 2 {
		t.Errorf("Elapsed: got %v, want 2", got)
	}
}

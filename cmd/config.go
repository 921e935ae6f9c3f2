package cmd

import (
	"fmt"

	"github.com/go-viper/encoding/ini"
	"github.com/spf13/viper"

	"github.com/FarisRizvanovic/Mock-BacNET-Device/sim"
)

// loadDeviceConfig reads the device configuration file, layering the file's
// values over the built-in defaults. INI and YAML are both accepted; an
// empty path returns the defaults untouched. The second return value is the
// points file named in the config, if any.
func loadDeviceConfig(path string) (sim.Config, string, error) {
	cfg := sim.DefaultConfig()

	// The reference device shipped an INI config; viper moved INI out of
	// core, so the codec is registered explicitly.
	codecs := viper.NewCodecRegistry()
	if err := codecs.RegisterCodec("ini", ini.Codec{}); err != nil {
		return cfg, "", fmt.Errorf("register ini codec: %w", err)
	}
	v := viper.NewWithOptions(viper.WithCodecRegistry(codecs))
	v.SetDefault("simulation.step_interval", cfg.StepInterval)
	v.SetDefault("simulation.priority_aware_simulation", cfg.PriorityAwareSimulation)
	v.SetDefault("simulation.ai_variation_range", cfg.AIVariationRange)
	v.SetDefault("simulation.ao_priority16_variation", cfg.AOPriority16Variation)
	v.SetDefault("simulation.binary_flip_probability", cfg.BinaryFlipProbability)
	v.SetDefault("simulation.multistate_change_interval", cfg.MultistateChangeInterval)
	v.SetDefault("simulation.temperature_drift_rate", cfg.TemperatureDriftRate)
	v.SetDefault("simulation.flow_variation_factor", cfg.FlowVariationFactor)
	v.SetDefault("environment.outdoor_temp_cycle_minutes", cfg.OutdoorTempCycleMinutes)
	v.SetDefault("environment.outdoor_temp_base", cfg.OutdoorTempBase)
	v.SetDefault("environment.outdoor_temp_amplitude", cfg.OutdoorTempAmplitude)
	v.SetDefault("environment.humidity_base", cfg.HumidityBase)
	v.SetDefault("environment.humidity_range", cfg.HumidityRange)
	v.SetDefault("environment.humidity_step", cfg.HumidityStep)
	v.SetDefault("data.points_file", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, "", fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.StepInterval = v.GetFloat64("simulation.step_interval")
	cfg.PriorityAwareSimulation = v.GetBool("simulation.priority_aware_simulation")
	cfg.AIVariationRange = v.GetFloat64("simulation.ai_variation_range")
	cfg.AOPriority16Variation = v.GetFloat64("simulation.ao_priority16_variation")
	cfg.BinaryFlipProbability = v.GetFloat64("simulation.binary_flip_probability")
	cfg.MultistateChangeInterval = v.GetFloat64("simulation.multistate_change_interval")
	cfg.TemperatureDriftRate = v.GetFloat64("simulation.temperature_drift_rate")
	cfg.FlowVariationFactor = v.GetFloat64("simulation.flow_variation_factor")
	cfg.OutdoorTempCycleMinutes = v.GetFloat64("environment.outdoor_temp_cycle_minutes")
	cfg.OutdoorTempBase = v.GetFloat64("environment.outdoor_temp_base")
	cfg.OutdoorTempAmplitude = v.GetFloat64("environment.outdoor_temp_amplitude")
	cfg.HumidityBase = v.GetFloat64("environment.humidity_base")
	cfg.HumidityRange = v.GetFloat64("environment.humidity_range")
	cfg.HumidityStep = v.GetFloat64("environment.humidity_step")

	return cfg, v.GetString("data.points_file"), nil
}

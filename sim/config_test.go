package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.5, cfg.StepInterval)
	assert.True(t, cfg.PriorityAwareSimulation)
}

func TestConfigValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero step interval", func(c *Config) { c.StepInterval = 0 }},
		{"negative step interval", func(c *Config) { c.StepInterval = -1 }},
		{"flip probability above 1", func(c *Config) { c.BinaryFlipProbability = 1.5 }},
		{"negative flip probability", func(c *Config) { c.BinaryFlipProbability = -0.1 }},
		{"zero multistate interval", func(c *Config) { c.MultistateChangeInterval = 0 }},
		{"negative AI variation", func(c *Config) { c.AIVariationRange = -0.01 }},
		{"negative AO variation", func(c *Config) { c.AOPriority16Variation = -0.01 }},
		{"negative flow variation", func(c *Config) { c.FlowVariationFactor = -0.01 }},
		{"drift rate above 1", func(c *Config) { c.TemperatureDriftRate = 2 }},
		{"zero outdoor cycle", func(c *Config) { c.OutdoorTempCycleMinutes = 0 }},
		{"negative humidity range", func(c *Config) { c.HumidityRange = -1 }},
		{"negative humidity step", func(c *Config) { c.HumidityStep = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigValidate_BoundaryValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BinaryFlipProbability = 0
	assert.NoError(t, cfg.Validate())

	cfg.BinaryFlipProbability = 1
	assert.NoError(t, cfg.Validate())

	cfg.TemperatureDriftRate = 0
	assert.NoError(t, cfg.Validate())

	cfg.TemperatureDriftRate = 1
	assert.NoError(t, cfg.Validate())
}

// Package config handles loading and saving seam settings.
package config

import (
	"fmt"
	"time"
)

// Config holds all settings.
type Config struct {
	Topology TopologyConfig `yaml:"topology"`
	Kernel   KernelConfig   `yaml:"kernel"`
	Engine   EngineConfig   `yaml:"engine"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TopologyConfig holds adjacency index settings.
type TopologyConfig struct {
	Tolerance    float64 `yaml:"tolerance"`      // vertex weld step per axis
	UseDrawRange bool    `yaml:"use_draw_range"` // honour mesh draw ranges
}

// KernelConfig holds tessellation settings.
type KernelConfig struct {
	MeshCells int `yaml:"mesh_cells"` // marching cubes resolution
}

// EngineConfig holds script evaluation settings.
type EngineConfig struct {
	EvalTimeout time.Duration `yaml:"eval_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Topology: TopologyConfig{
			Tolerance:    1e-6,
			UseDrawRange: true,
		},
		Kernel: KernelConfig{
			MeshCells: 64,
		},
		Engine: EngineConfig{
			EvalTimeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if !(c.Topology.Tolerance > 0) {
		return fmt.Errorf("topology.tolerance must be positive, got %g", c.Topology.Tolerance)
	}
	if c.Kernel.MeshCells < 4 {
		return fmt.Errorf("kernel.mesh_cells must be at least 4, got %d", c.Kernel.MeshCells)
	}
	if c.Engine.EvalTimeout <= 0 {
		return fmt.Errorf("engine.eval_timeout must be positive, got %s", c.Engine.EvalTimeout)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ReinierMaas/PathTracer/pkg/integrator"
	"github.com/ReinierMaas/PathTracer/pkg/loaders"
	"github.com/ReinierMaas/PathTracer/pkg/renderer"
)

// Config holds the render settings. Flags win over the yaml file, the yaml
// file wins over these defaults.
type Config struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	Workers int `yaml:"workers"` // 0 = number of CPU cores

	LensSize float64 `yaml:"lens_size"`
	Exposure float64 `yaml:"exposure"`

	MaxBounces int `yaml:"max_bounces"`
	// The bounce-budget override pair toggled by the H key
	BounceOverrideHigh int `yaml:"bounce_override_high"`
	BounceOverrideLow  int `yaml:"bounce_override_low"`

	SkyboxPath   string  `yaml:"skybox_path"`
	SkyboxWidth  int     `yaml:"skybox_width"`
	SkyboxHeight int     `yaml:"skybox_height"`
	SkyboxScale  float64 `yaml:"skybox_scale"`
}

// DefaultConfig returns the stock render settings
func DefaultConfig() Config {
	return Config{
		Width:              800,
		Height:             600,
		Workers:            0,
		LensSize:           renderer.DefaultLensSize,
		Exposure:           renderer.DefaultExposure,
		MaxBounces:         integrator.DefaultMaxBounces,
		BounceOverrideHigh: 512,
		BounceOverrideLow:  2,
		SkyboxPath:         "./assets/sky_15.raw",
		SkyboxWidth:        loaders.DefaultSkyboxWidth,
		SkyboxHeight:       loaders.DefaultSkyboxHeight,
		SkyboxScale:        0.01,
	}
}

// LoadConfig reads a yaml settings file over the defaults
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &config); err != nil {
		return config, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return config, nil
}

package config

import (
	"runtime"
	"sync"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
)

// envSeed holds the two environment-derived default fields. The environment
// is read once per process.
type envSeed struct {
	Workers     int    `env:"BUILDCONF_WORKERS"`
	AnalyticsID string `env:"BUILDCONF_ANALYTICS_ID"`
}

var (
	seedOnce sync.Once
	seed     envSeed
)

func environmentSeed() envSeed {
	seedOnce.Do(func() {
		if err := env.Parse(&seed); err != nil {
			// Malformed environment values fall back to the built-in
			// defaults rather than failing resolution.
			seed = envSeed{}
		}
	})
	return seed
}

// DefaultConfig returns a fresh copy of the built-in default registry.
// The registry is never shared: every resolution starts from its own copy,
// so no caller can corrupt the defaults seen by a later resolution.
func DefaultConfig() *Config {
	cpus := runtime.NumCPU() - 1
	if cpus < 1 {
		cpus = 1
	}

	cfg := &Config{
		ConfigOrigin:    OriginDefault,
		Target:          TargetServer,
		DistDir:         "dist",
		AssetPrefix:     "",
		BasePath:        "",
		PageExtensions:  []string{"tsx", "ts", "jsx", "js"},
		TrailingSlash:   false,
		Compress:        true,
		PoweredByHeader: true,
		AnalyticsID:     "",
		Images: ImagesConfig{
			DeviceSizes: []int{640, 750, 828, 1080, 1200, 1920, 2048, 3840},
			ImageSizes:  []int{16, 32, 48, 64, 96},
			Domains:     []string{},
			Path:        "/media/",
			Loader:      "default",
		},
		OnDemandEntries: OnDemandEntriesConfig{
			MaxInactiveAge:    60,
			PagesBufferLength: 2,
		},
		AMP: AMPConfig{CanonicalBase: ""},
		Experimental: ExperimentalConfig{
			CPUs:          cpus,
			WorkerThreads: false,
			ReactMode:     ReactModeLegacy,
			I18N:          false,
		},
		Future: FutureConfig{StrictAssetResolution: false},
	}

	s := environmentSeed()
	overlay := Config{
		AnalyticsID:  s.AnalyticsID,
		Experimental: ExperimentalConfig{CPUs: s.Workers},
	}
	// Only the non-zero environment-derived fields override; the arguments
	// are statically valid, so the merge can not fail.
	_ = mergo.Merge(cfg, overlay, mergo.WithOverride)

	return cfg
}

// DefaultTree returns the default registry in generic mapping form.
func DefaultTree() (map[string]any, error) {
	return DefaultConfig().Tree()
}

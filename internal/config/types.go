package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Build phases handed to function-form configuration sources. The engine
// treats them as opaque strings; they exist so user code can vary overrides
// per phase.
const (
	PhaseDevelopmentServer = "development-server"
	PhaseProductionBuild   = "production-build"
	PhaseProductionServer  = "production-server"
	PhaseExport            = "export"
)

// Accepted values for the top-level target field.
const (
	TargetServer                      = "server"
	TargetServerless                  = "serverless"
	TargetExperimentalServerlessTrace = "experimental-serverless-trace"
)

// Accepted values for experimental.reactMode.
const (
	ReactModeLegacy     = "legacy"
	ReactModeBlocking   = "blocking"
	ReactModeConcurrent = "concurrent"
)

// Origin tags recorded in the resolved configuration. A file-sourced
// configuration uses the file's base name as its origin instead.
const (
	OriginDefault = "default"
	OriginServer  = "server"
)

// Config is the effective build/serve pipeline configuration produced by a
// resolution. Field names mirror the keys of the generic mapping form; the
// yaml tags are the canonical key spelling.
type Config struct {
	ConfigOrigin string `yaml:"configOrigin" json:"configOrigin"`
	ConfigFile   string `yaml:"configFile,omitempty" json:"configFile,omitempty"`

	Target          string                `yaml:"target" json:"target"`
	DistDir         string                `yaml:"distDir" json:"distDir"`
	AssetPrefix     string                `yaml:"assetPrefix" json:"assetPrefix"`
	BasePath        string                `yaml:"basePath" json:"basePath"`
	PageExtensions  []string              `yaml:"pageExtensions" json:"pageExtensions"`
	TrailingSlash   bool                  `yaml:"trailingSlash" json:"trailingSlash"`
	Compress        bool                  `yaml:"compress" json:"compress"`
	PoweredByHeader bool                  `yaml:"poweredByHeader" json:"poweredByHeader"`
	AnalyticsID     string                `yaml:"analyticsId" json:"analyticsId"`
	Images          ImagesConfig          `yaml:"images" json:"images"`
	OnDemandEntries OnDemandEntriesConfig `yaml:"onDemandEntries" json:"onDemandEntries"`
	AMP             AMPConfig             `yaml:"amp" json:"amp"`
	Experimental    ExperimentalConfig    `yaml:"experimental" json:"experimental"`
	Future          FutureConfig          `yaml:"future" json:"future"`

	// Extra carries unrecognized top-level keys through resolution verbatim,
	// so configurations written against a newer schema keep working.
	Extra map[string]any `yaml:"-" json:"extra,omitempty"`
}

// ImagesConfig holds the image-serving parameters.
type ImagesConfig struct {
	DeviceSizes []int    `yaml:"deviceSizes" json:"deviceSizes"`
	ImageSizes  []int    `yaml:"imageSizes" json:"imageSizes"`
	Domains     []string `yaml:"domains" json:"domains"`
	Path        string   `yaml:"path" json:"path"`
	Loader      string   `yaml:"loader" json:"loader"`
}

// OnDemandEntriesConfig tunes on-demand page building.
type OnDemandEntriesConfig struct {
	// MaxInactiveAge is the number of seconds a built page is kept in the
	// buffer without being requested.
	MaxInactiveAge    int `yaml:"maxInactiveAge" json:"maxInactiveAge"`
	PagesBufferLength int `yaml:"pagesBufferLength" json:"pagesBufferLength"`
}

// AMPConfig holds AMP-specific settings.
type AMPConfig struct {
	CanonicalBase string `yaml:"canonicalBase" json:"canonicalBase"`
}

// ExperimentalConfig holds feature flags without compatibility guarantees.
type ExperimentalConfig struct {
	CPUs          int    `yaml:"cpus" json:"cpus"`
	WorkerThreads bool   `yaml:"workerThreads" json:"workerThreads"`
	ReactMode     string `yaml:"reactMode" json:"reactMode"`
	// I18N is false while the feature is disabled and an I18NConfig-shaped
	// mapping once a user enables it.
	I18N any `yaml:"i18n" json:"i18n"`
}

// FutureConfig holds forward-compatible flags.
type FutureConfig struct {
	StrictAssetResolution bool `yaml:"strictAssetResolution" json:"strictAssetResolution"`
}

// I18NConfig is the typed form of the experimental.i18n subtree.
type I18NConfig struct {
	Locales         []string        `yaml:"locales" json:"locales" validate:"required,min=1,dive,required"`
	DefaultLocale   string          `yaml:"defaultLocale" json:"defaultLocale" validate:"required"`
	Domains         []DomainBinding `yaml:"domains,omitempty" json:"domains,omitempty"`
	LocaleDetection *bool           `yaml:"localeDetection,omitempty" json:"localeDetection,omitempty"`
}

// DomainBinding associates a network domain with a default locale and an
// optional set of locales it serves exclusively.
type DomainBinding struct {
	Domain        string   `yaml:"domain" json:"domain"`
	DefaultLocale string   `yaml:"defaultLocale" json:"defaultLocale"`
	Locales       []string `yaml:"locales,omitempty" json:"locales,omitempty"`
}

// I18NSettings returns the typed i18n settings, or nil while the feature is
// disabled. The mapping form is decoded on every call; resolved
// configurations are already validated, so decoding can only fail for
// hand-built Config values.
func (e *ExperimentalConfig) I18NSettings() (*I18NConfig, error) {
	rec, ok := asRecord(e.I18N)
	if !ok {
		return nil, nil
	}
	return decodeI18N(rec)
}

// Tree renders the configuration in the generic mapping form consumed by the
// merge engine and validator chain. Extra keys are overlaid without clobbering
// schema keys.
func (c *Config) Tree() (map[string]any, error) {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to render configuration tree: %w", err)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("failed to render configuration tree: %w", err)
	}

	for k, v := range c.Extra {
		if _, taken := tree[k]; !taken {
			tree[k] = v
		}
	}

	return tree, nil
}

// fromTree decodes a merged, validated tree into the typed form. Top-level
// keys outside the schema land in Extra.
func fromTree(tree map[string]any) (*Config, error) {
	raw, err := yaml.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration tree: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: configuration does not match the schema: %v", ErrTypeMismatch, err)
	}

	for k, v := range tree {
		if schemaKeys[k] {
			continue
		}
		if cfg.Extra == nil {
			cfg.Extra = make(map[string]any)
		}
		cfg.Extra[k] = v
	}

	return &cfg, nil
}

// schemaKeys is the set of recognized top-level keys, derived from the
// default registry so it can not drift from the struct definition.
var schemaKeys = func() map[string]bool {
	tree, err := DefaultConfig().Tree()
	if err != nil {
		panic(fmt.Errorf("default registry does not round-trip: %w", err))
	}
	keys := make(map[string]bool, len(tree)+1)
	for k := range tree {
		keys[k] = true
	}
	keys["configFile"] = true
	return keys
}()

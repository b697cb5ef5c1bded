package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Resolver composes discovery, normalization, merging and validation into
// one resolution pipeline. Construct with NewResolver; the zero value has no
// locator or loaders. A Resolver is safe for concurrent use: resolutions
// share no state except the experimental notice, which fires at most once
// per Resolver no matter how many resolutions run.
type Resolver struct {
	log     zerolog.Logger
	locator Locator
	loaders map[string]Loader
	expOnce sync.Once
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger routes the resolver's warnings and notices to log. The default
// logger discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Resolver) { r.log = log }
}

// WithLocator replaces the default upward-searching file locator.
func WithLocator(l Locator) Option {
	return func(r *Resolver) { r.locator = l }
}

// WithLoader registers a loader for a file extension (".yaml", ".lua").
func WithLoader(ext string, l Loader) Option {
	return func(r *Resolver) { r.loaders[ext] = l }
}

// NewResolver returns a Resolver with the default locator and loaders.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		log:     zerolog.Nop(),
		locator: NewLocator(),
		loaders: map[string]Loader{
			".yaml": YAMLLoader{},
			".lua":  LuaLoader{},
		},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve returns the effective configuration for a build phase.
//
// When override is non-nil it is used directly (origin "server"), skipping
// file discovery; it may be a mapping, a *Config or a ConfigFunc. Otherwise
// dir is searched upward for a recognized configuration file. With no file
// found anywhere, the untouched default registry is returned — unless an
// unsupported-extension variant exists in dir, which is a hard error.
func (r *Resolver) Resolve(phase, dir string, override any) (*Config, error) {
	defaults, err := DefaultTree()
	if err != nil {
		return nil, err
	}

	if override != nil {
		return r.resolveUser(phase, override, defaults, OriginServer, "")
	}

	path, err := r.locator.Locate(dir)
	if err != nil {
		return nil, fmt.Errorf("configuration discovery failed: %w", err)
	}
	if path == "" {
		if found := probeUnsupportedVariants(dir); found != "" {
			return nil, fmt.Errorf("%w: configuration file %s is not supported, rename it to %s",
				ErrUnsupportedSource, found, FileNameYAML)
		}
		// The registry already satisfies every invariant; no merge, no
		// validation.
		return DefaultConfig(), nil
	}

	loader, ok := r.loaders[filepath.Ext(path)]
	if !ok {
		return nil, fmt.Errorf("%w: no loader registered for %s", ErrUnsupportedSource, path)
	}
	raw, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	return r.resolveUser(phase, raw, defaults, filepath.Base(path), abs)
}

func (r *Resolver) resolveUser(phase string, raw any, defaults map[string]any, origin, file string) (*Config, error) {
	normalized, err := normalizeSource(phase, raw, defaults)
	if err != nil {
		return nil, err
	}
	user, err := userTreeOf(normalized)
	if err != nil {
		return nil, err
	}
	if len(user) == 0 && file != "" {
		r.log.Info().Str("file", file).Msg("configuration file found, but it contains no overrides")
	}

	if err := validatePreMerge(user); err != nil {
		return nil, err
	}
	user = applyPreMergeFixups(user)

	merged := mergeTree(defaults, user, mergeHooks{
		deprecated: func(oldKey, newKey string) {
			r.log.Warn().Msgf("the %s key is deprecated and will be removed, use %s instead", oldKey, newKey)
		},
		experimental: func() {
			r.expOnce.Do(func() {
				r.log.Warn().Msg("experimental features are enabled; they are not covered by compatibility guarantees")
			})
		},
	})

	merged["configOrigin"] = origin
	if file != "" {
		merged["configFile"] = file
	}

	if err := validateMerged(merged, r.log); err != nil {
		return nil, err
	}
	return fromTree(merged)
}

package config

import (
	"fmt"
	"reflect"
)

// FuncContext is the second argument passed to function-form configuration
// sources.
type FuncContext struct {
	// DefaultConfig is the unmodified default registry in mapping form, so
	// user code can derive overrides from the true baseline.
	DefaultConfig map[string]any
}

// ConfigFunc is the function form of a configuration source. It receives the
// build phase and the reference defaults and returns the actual
// configuration value.
type ConfigFunc func(phase string, ctx FuncContext) any

// normalizeSource resolves the function form of a raw configuration source
// and rejects values that would resolve asynchronously. The input is never
// modified; any other value is returned unchanged.
func normalizeSource(phase string, raw any, defaults map[string]any) (any, error) {
	switch fn := raw.(type) {
	case ConfigFunc:
		raw = fn(phase, FuncContext{DefaultConfig: defaults})
	case func(phase string, ctx FuncContext) any:
		raw = fn(phase, FuncContext{DefaultConfig: defaults})
	}

	if err, failed := raw.(error); failed {
		return nil, fmt.Errorf("configuration source failed: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	switch reflect.TypeOf(raw).Kind() {
	case reflect.Chan:
		return nil, fmt.Errorf("%w: configuration resolved to a channel; asynchronous configuration is not supported", ErrUnsupportedSource)
	case reflect.Func:
		return nil, fmt.Errorf("%w: configuration resolved to another function; a source function must return a plain mapping", ErrUnsupportedSource)
	}

	return raw, nil
}

// userTreeOf coerces a normalized source value into the generic mapping form.
func userTreeOf(v any) (map[string]any, error) {
	switch c := v.(type) {
	case nil:
		return map[string]any{}, nil
	case *Config:
		return c.Tree()
	case Config:
		return c.Tree()
	}
	if rec, ok := asRecord(v); ok {
		return rec, nil
	}
	return nil, fmt.Errorf("%w: configuration must be a mapping, got %T", ErrTypeMismatch, v)
}

package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSource_PlainValuePassesThrough(t *testing.T) {
	raw := map[string]any{"distDir": "out"}

	got, err := normalizeSource(PhaseProductionBuild, raw, map[string]any{})

	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestNormalizeSource_FunctionFormReceivesPhaseAndDefaults(t *testing.T) {
	defaults, err := DefaultTree()
	require.NoError(t, err)

	var gotPhase string
	var gotDefaults map[string]any
	fn := ConfigFunc(func(phase string, ctx FuncContext) any {
		gotPhase = phase
		gotDefaults = ctx.DefaultConfig
		return map[string]any{"distDir": "out"}
	})

	got, err := normalizeSource(PhaseDevelopmentServer, fn, defaults)

	require.NoError(t, err)
	assert.Equal(t, PhaseDevelopmentServer, gotPhase)
	assert.Equal(t, defaults, gotDefaults, "the callable sees the unmodified registry")
	assert.Equal(t, map[string]any{"distDir": "out"}, got)
}

func TestNormalizeSource_BareFunctionForm(t *testing.T) {
	fn := func(phase string, ctx FuncContext) any {
		return map[string]any{"compress": false}
	}

	got, err := normalizeSource(PhaseExport, fn, map[string]any{})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"compress": false}, got)
}

func TestNormalizeSource_AsyncRejected(t *testing.T) {
	cases := []struct {
		name string
		raw  any
	}{
		{"channel result", ConfigFunc(func(string, FuncContext) any { return make(chan map[string]any) })},
		{"nested function result", ConfigFunc(func(string, FuncContext) any {
			return func(string, FuncContext) any { return nil }
		})},
		{"bare channel", make(chan int)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := normalizeSource(PhaseProductionBuild, tc.raw, map[string]any{})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnsupportedSource)
		})
	}
}

func TestNormalizeSource_ErrorResultPropagates(t *testing.T) {
	boom := errors.New("script exploded")
	fn := ConfigFunc(func(string, FuncContext) any { return boom })

	_, err := normalizeSource(PhaseProductionBuild, fn, map[string]any{})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestUserTreeOf(t *testing.T) {
	cfg := DefaultConfig()

	tree, err := userTreeOf(cfg)
	require.NoError(t, err)
	assert.Equal(t, "dist", tree["distDir"])

	empty, err := userTreeOf(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = userTreeOf("not a mapping")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = userTreeOf([]any{"still not a mapping"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

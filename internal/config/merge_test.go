package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//
// --- cleaning -----------------------------------------------------------------
//

func TestCleanUserTree_DropsNulls(t *testing.T) {
	user := map[string]any{
		"distDir":     nil,
		"compress":    false,
		"assetPrefix": "/cdn",
	}

	cleaned := cleanUserTree(user, mergeHooks{})

	assert.NotContains(t, cleaned, "distDir")
	assert.Contains(t, cleaned, "compress")
	assert.Contains(t, cleaned, "assetPrefix")

	// The input is never mutated.
	assert.Contains(t, user, "distDir")
}

func TestCleanUserTree_LegacyTrailingSlash(t *testing.T) {
	cases := []struct {
		name     string
		user     map[string]any
		want     any
		warnsOld string
	}{
		{
			name:     "migrated when modern key unset",
			user:     map[string]any{"exportTrailingSlash": true},
			want:     true,
			warnsOld: "exportTrailingSlash",
		},
		{
			name:     "modern key wins",
			user:     map[string]any{"exportTrailingSlash": true, "trailingSlash": false},
			want:     false,
			warnsOld: "exportTrailingSlash",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var gotOld, gotNew string
			cleaned := cleanUserTree(tc.user, mergeHooks{
				deprecated: func(oldKey, newKey string) { gotOld, gotNew = oldKey, newKey },
			})

			require.Contains(t, cleaned, "trailingSlash")
			assert.Equal(t, tc.want, cleaned["trailingSlash"].value)
			assert.NotContains(t, cleaned, "exportTrailingSlash")
			assert.Equal(t, tc.warnsOld, gotOld)
			assert.Equal(t, "trailingSlash", gotNew)
		})
	}
}

//
// --- merge semantics ----------------------------------------------------------
//

func TestMergeTree_ScalarAndSequenceReplaceWholesale(t *testing.T) {
	defaults := map[string]any{
		"distDir":        "dist",
		"pageExtensions": []any{"tsx", "ts"},
	}
	user := map[string]any{
		"distDir":        "out",
		"pageExtensions": []any{"mdx"},
	}

	merged := mergeTree(defaults, user, mergeHooks{})

	assert.Equal(t, "out", merged["distDir"])
	assert.Equal(t, []any{"mdx"}, merged["pageExtensions"])
}

func TestMergeTree_RecordMergesOneLevelDeep(t *testing.T) {
	defaults := map[string]any{
		"images": map[string]any{
			"path":        "/media/",
			"deviceSizes": []any{640, 1080},
			"loader":      "default",
		},
	}
	user := map[string]any{
		"images": map[string]any{"path": "/img"},
	}

	merged := mergeTree(defaults, user, mergeHooks{})

	images, ok := merged["images"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/img", images["path"])
	assert.Equal(t, []any{640, 1080}, images["deviceSizes"], "untouched nested fields keep defaults")
	assert.Equal(t, "default", images["loader"])
}

func TestMergeTree_NoDeeperRecursion(t *testing.T) {
	defaults := map[string]any{
		"outer": map[string]any{
			"inner": map[string]any{"a": 1, "b": 2},
		},
	}
	user := map[string]any{
		"outer": map[string]any{
			"inner": map[string]any{"a": 9},
		},
	}

	merged := mergeTree(defaults, user, mergeHooks{})

	inner := merged["outer"].(map[string]any)["inner"].(map[string]any)
	assert.Equal(t, map[string]any{"a": 9}, inner, "second-level records replace wholesale")
}

func TestMergeTree_NestedNullsSkipped(t *testing.T) {
	defaults := map[string]any{
		"images": map[string]any{"path": "/media/", "loader": "default"},
	}
	user := map[string]any{
		"images": map[string]any{"path": nil, "loader": "custom"},
	}

	merged := mergeTree(defaults, user, mergeHooks{})

	images := merged["images"].(map[string]any)
	assert.Equal(t, "/media/", images["path"], "null nested key keeps the default")
	assert.Equal(t, "custom", images["loader"])
}

func TestMergeTree_UnknownKeysPassThrough(t *testing.T) {
	defaults := map[string]any{"distDir": "dist"}
	user := map[string]any{
		"webpackFinal": map[string]any{"mode": "fast"},
		"answer":       42,
	}

	merged := mergeTree(defaults, user, mergeHooks{})

	assert.Equal(t, "dist", merged["distDir"])
	assert.Equal(t, map[string]any{"mode": "fast"}, merged["webpackFinal"])
	assert.Equal(t, 42, merged["answer"])
}

func TestMergeTree_DoesNotMutateInputs(t *testing.T) {
	defaults := map[string]any{
		"images": map[string]any{"path": "/media/"},
	}
	user := map[string]any{
		"images": map[string]any{"path": "/img"},
	}

	merged := mergeTree(defaults, user, mergeHooks{})
	merged["images"].(map[string]any)["path"] = "/changed/"

	assert.Equal(t, "/media/", defaults["images"].(map[string]any)["path"])
	assert.Equal(t, "/img", user["images"].(map[string]any)["path"])
}

func TestMergeTree_ExperimentalHook(t *testing.T) {
	defaults, err := DefaultTree()
	require.NoError(t, err)

	cases := []struct {
		name  string
		user  map[string]any
		fired bool
	}{
		{
			name:  "non-default experimental value fires",
			user:  map[string]any{"experimental": map[string]any{"workerThreads": true}},
			fired: true,
		},
		{
			name:  "default-equal experimental values do not fire",
			user:  map[string]any{"experimental": map[string]any{"workerThreads": false}},
			fired: false,
		},
		{
			name:  "no experimental key does not fire",
			user:  map[string]any{"distDir": "out"},
			fired: false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fired := false
			mergeTree(defaults, tc.user, mergeHooks{experimental: func() { fired = true }})
			assert.Equal(t, tc.fired, fired)
		})
	}
}

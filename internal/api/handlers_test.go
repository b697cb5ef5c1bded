package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nauticalab/buildconf/internal/config"
)

func testRouter(t *testing.T, dir string) *chi.Mux {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	handler := NewHandler(config.NewResolver(), dir, "1.0.0-test", "abc123", "2026-01-01", "go1.24", zerolog.Nop())
	router := chi.NewRouter()
	setupRoutes(router, handler)
	return router
}

func doRequest(t *testing.T, router *chi.Mux, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, testRouter(t, ""), http.MethodGet, "/api/v1/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestVersion(t *testing.T) {
	rec := doRequest(t, testRouter(t, ""), http.MethodGet, "/api/v1/version", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp VersionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "1.0.0-test", resp.Version)
	assert.Equal(t, "abc123", resp.GitCommit)
}

func TestDefaults(t *testing.T) {
	rec := doRequest(t, testRouter(t, ""), http.MethodGet, "/api/v1/defaults", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "dist", resp["distDir"])
	assert.Equal(t, "default", resp["configOrigin"])
	assert.Equal(t, "server", resp["target"])
}

func TestConfig_NoFile(t *testing.T) {
	rec := doRequest(t, testRouter(t, ""), http.MethodGet, "/api/v1/config", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "default", resp["configOrigin"])
}

func TestConfig_WithFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileNameYAML)
	require.NoError(t, os.WriteFile(path, []byte("distDir: out\n"), 0o644))

	rec := doRequest(t, testRouter(t, dir), http.MethodGet, "/api/v1/config?phase=production-build", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "out", resp["distDir"])
	assert.Equal(t, config.FileNameYAML, resp["configOrigin"])
}

func TestConfig_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileNameYAML)
	require.NoError(t, os.WriteFile(path, []byte("distDir: public\n"), 0o644))

	rec := doRequest(t, testRouter(t, dir), http.MethodGet, "/api/v1/config", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "reserved")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name      string
		request   ValidateRequest
		wantValid bool
		wantKind  string
	}{
		{
			name:      "valid override",
			request:   ValidateRequest{Config: map[string]any{"distDir": "out"}},
			wantValid: true,
		},
		{
			name:      "enum violation",
			request:   ValidateRequest{Config: map[string]any{"target": "edge"}},
			wantValid: false,
			wantKind:  "enum_violation",
		},
		{
			name:      "reserved value",
			request:   ValidateRequest{Config: map[string]any{"distDir": "public"}},
			wantValid: false,
			wantKind:  "reserved_value",
		},
		{
			name:      "range violation",
			request:   ValidateRequest{Phase: "export", Config: map[string]any{"images": map[string]any{"deviceSizes": []any{99999}}}},
			wantValid: false,
			wantKind:  "range_violation",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, err := json.Marshal(tc.request)
			require.NoError(t, err)

			rec := doRequest(t, testRouter(t, ""), http.MethodPost, "/api/v1/validate", body)

			require.Equal(t, http.StatusOK, rec.Code)
			var resp ValidateResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantValid, resp.Valid)
			assert.Equal(t, tc.wantKind, resp.Kind)
			if !tc.wantValid {
				assert.NotEmpty(t, resp.Error)
			}
		})
	}
}

func TestValidate_BadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not JSON", "not json"},
		{"missing config field", `{"phase": "export"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, testRouter(t, ""), http.MethodPost, "/api/v1/validate", []byte(tc.body))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Message)
		})
	}
}

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/nauticalab/buildconf/internal/config"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	// resolver performs configuration resolutions on behalf of requests
	resolver *config.Resolver
	// dir is the starting directory for file discovery
	dir string
	// version is the application version
	version string
	// gitCommit is the git commit hash of the build
	gitCommit string
	// buildTime is the time when the application was built
	buildTime string
	// goVersion is the Go version used to build the application
	goVersion string
	log       zerolog.Logger
}

// NewHandler creates a new Handler instance
func NewHandler(resolver *config.Resolver, dir string, version, gitCommit, buildTime, goVersion string, log zerolog.Logger) *Handler {
	return &Handler{
		resolver:  resolver,
		dir:       dir,
		version:   version,
		gitCommit: gitCommit,
		buildTime: buildTime,
		goVersion: goVersion,
		log:       log,
	}
}

// Health handles GET /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, h.log, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Version handles GET /api/v1/version
func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, h.log, VersionResponse{
		Version:   h.version,
		GitCommit: h.gitCommit,
		BuildTime: h.buildTime,
		GoVersion: h.goVersion,
	})
}

// Defaults handles GET /api/v1/defaults
// Returns the built-in default registry.
func (h *Handler) Defaults(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, h.log, config.DefaultConfig())
}

// Config handles GET /api/v1/config
// Resolves the effective configuration for the server's directory. The
// phase query parameter defaults to production-server.
func (h *Handler) Config(w http.ResponseWriter, r *http.Request) {
	phase := r.URL.Query().Get("phase")
	if phase == "" {
		phase = config.PhaseProductionServer
	}

	cfg, err := h.resolver.Resolve(phase, h.dir, nil)
	if err != nil {
		h.log.Error().Err(err).Str("phase", phase).Msg("configuration resolution failed")
		if config.ErrorKind(err) != "" {
			respondBadRequest(w, h.log, err.Error())
			return
		}
		respondInternalError(w, h.log, "failed to resolve configuration")
		return
	}

	respondSuccess(w, h.log, cfg)
}

// Validate handles POST /api/v1/validate
// Resolves the posted user configuration as a direct override and reports
// whether it passed the validator chain.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, h.log, "request body must be JSON with a config field")
		return
	}
	if req.Config == nil {
		respondBadRequest(w, h.log, "config field is required")
		return
	}
	phase := req.Phase
	if phase == "" {
		phase = config.PhaseProductionBuild
	}

	if _, err := h.resolver.Resolve(phase, "", req.Config); err != nil {
		respondSuccess(w, h.log, ValidateResponse{
			Valid: false,
			Kind:  config.ErrorKind(err),
			Error: err.Error(),
		})
		return
	}
	respondSuccess(w, h.log, ValidateResponse{Valid: true})
}

// Package config resolves the effective runtime configuration for the
// build/serve pipeline. It discovers an optional user configuration file,
// normalizes it, merges it over the built-in default registry and
// validates the merged result before handing it to callers.
//
// # Resolution pipeline
//
// The main entry point is [Resolver.Resolve], which composes the stages:
//
//	resolver := config.NewResolver()
//	cfg, err := resolver.Resolve(config.PhaseProductionBuild, ".", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.DistDir, cfg.ConfigOrigin)
//
// Discovery walks upward from the starting directory looking for
// buildconf.yaml or the executable buildconf.lua, stopping at the enclosing
// Git worktree root. With no file found the untouched default registry is
// returned with ConfigOrigin "default". A direct override skips discovery
// entirely and is tagged "server".
//
// # Function-form sources
//
// A configuration source may be a [ConfigFunc] instead of a plain mapping.
// It receives the build phase and the unmodified default registry, so user
// code can derive overrides from the true baseline:
//
//	resolver.Resolve(config.PhaseDevelopmentServer, "", config.ConfigFunc(
//	    func(phase string, ctx config.FuncContext) any {
//	        return map[string]any{
//	            "distDir": "dev-dist",
//	            "images":  ctx.DefaultConfig["images"],
//	        }
//	    }))
//
// A Lua configuration file is loaded as exactly such a function: the script
// sees the globals phase and defaultConfig and returns a table.
//
// # Merge semantics
//
// The merge is one level deep. A record-valued key is merged field-by-field
// over the default record, so a user can override a single field of images
// without restating the whole subtree; anything nested deeper replaces
// wholesale. Scalars and sequences replace wholesale. A key set to null is
// treated as absent, not as an override to empty.
//
// # Validation
//
// After merging, an ordered validator chain enforces the structural and
// cross-field invariants (path prefixes, image size ranges, i18n domain and
// locale exclusivity, enumerations). Failures wrap the sentinel errors in
// errors.go, so callers can classify them with errors.Is:
//
//	if errors.Is(err, config.ErrEnumViolation) { ... }
package config

package config

import "fmt"

func ExampleResolver_Resolve() {
	r := NewResolver()

	cfg, err := r.Resolve(PhaseProductionBuild, "", map[string]any{
		"distDir":  "out",
		"basePath": "/docs",
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(cfg.DistDir)
	fmt.Println(cfg.AssetPrefix)
	fmt.Println(cfg.ConfigOrigin)
	// Output:
	// out
	// /docs
	// server
}

package main

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/lada-dev/lada/pkg/llm/registry"
)

// runModels lists the configured engines, their reachability, and the models
// each one serves.
func runModels(ctx context.Context, cfgPath string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	reg := registry.New()

	for _, kind := range slices.Sorted(maps.Keys(cfg.Model.Engines)) {
		engineCfg := cfg.Model.Engines[kind]

		client, err := reg.ClientFor(kind, cfg)
		if err != nil {
			return err
		}

		fmt.Println(titleStyle.Render(string(kind)) + dimStyle.Render(" ("+engineCfg.Host+")"))

		if !client.IsAvailable(ctx) {
			fmt.Println("  " + errorStyle.Render("unavailable") + ": " + availabilityHint(kind))
			continue
		}

		models, err := client.ListModels(ctx)
		if err != nil {
			fmt.Println("  " + errorStyle.Render("error: ") + err.Error())
			continue
		}

		if len(models) == 0 {
			fmt.Println(dimStyle.Render("  no models installed"))
			continue
		}

		for _, m := range models {
			fmt.Println("  • " + m)
		}
	}

	return nil
}

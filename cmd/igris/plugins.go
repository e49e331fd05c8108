package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"igris/internal/dispatch"
	"igris/internal/intent"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List registered plugins",
	RunE: func(cmd *cobra.Command, args []string) error {
		resolvePaths()
		store := intent.NewCatalogueStore(cataloguePath)
		defer store.Close()

		registry := dispatch.NewRegistry()
		dispatch.RegisterBuiltins(registry, store)
		for _, p := range registry.All() {
			fmt.Printf("%s\n  %s\n", p.Name, p.Description)
		}
		return nil
	},
}

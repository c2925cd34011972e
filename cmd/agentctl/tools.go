package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parthshr370/agentrt/examples/demotools"
	"github.com/parthshr370/agentrt/registry"
)

func toolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect the demo tool catalogue",
	}
	cmd.AddCommand(toolsListCmd())
	return cmd
}

func toolsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the demo tools and their inferred JSON schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.New()
			demotools.RegisterAll(reg)

			for _, spec := range reg.List() {
				params, _ := json.MarshalIndent(spec.Parameters, "", "  ")
				fmt.Printf("%s — %s\n%s\n\n", spec.Name, spec.Description, params)
			}
			return nil
		},
	}
}

package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passivation-demo",
		Short: "Exercise the entity passivation engine against a simulated worker pool",
	}
	cmd.AddCommand(newScenariosCmd())
	cmd.AddCommand(newServeCmd())
	return cmd
}

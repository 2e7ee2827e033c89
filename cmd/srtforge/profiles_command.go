package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProfilesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the available speed profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := ctx.registry()
			if err != nil {
				return err
			}
			selected, err := ctx.selectProfile("")
			if err != nil {
				return err
			}

			rows := make([][]string, 0, 3)
			for _, preset := range registry.All() {
				name := preset.Name
				if preset.Name == selected.Name {
					name += " (default)"
				}
				rows = append(rows, []string{
					name,
					preset.Model,
					fmt.Sprintf("%d", preset.Threads),
					fmt.Sprintf("%d", preset.BeamSize),
					fmt.Sprintf("%d", preset.BestOf),
					fmt.Sprintf("%.1f", preset.SecondsPerMB),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Profile", "Model", "Threads", "Beam", "Best of", "Sec/MB"},
				rows, nil, 3, 4, 5, 6,
			))
			return nil
		},
	}
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vcompress/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external binaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			statuses := deps.CheckBinaries(deps.Requirements(cfg.Engine.FFmpegPath, cfg.Engine.FFprobePath))

			rows := make([][]string, 0, len(statuses))
			missing := false
			for _, status := range statuses {
				detail := status.Detail
				if detail == "" {
					detail = status.Description
				}
				rows = append(rows, []string{
					status.Name,
					status.Command,
					yesNo(status.Available),
					yesNo(status.Optional),
					detail,
				})
				if !status.Available && !status.Optional {
					missing = true
				}
			}
			headers := []string{"Dependency", "Command", "Available", "Optional", "Detail"}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, nil))
			if missing {
				return errors.New("required dependencies are missing")
			}
			return nil
		},
	}
}

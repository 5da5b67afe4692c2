package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vcompress/internal/compressor"
)

func newArgsCommand(ctx *commandContext) *cobra.Command {
	var flags jobFlags

	cmd := &cobra.Command{
		Use:   "args <input>",
		Short: "Print the ffmpeg arguments a compress run would use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, cfg.Defaults)
			if err != nil {
				return err
			}
			job, err := compressor.New().Plan(compressor.FromPath(args[0]), opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), shellJoin(append([]string{"ffmpeg"}, job.Args...)))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func shellJoin(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		if arg == "" || strings.ContainsAny(arg, " \t\"'\\$") {
			quoted[i] = strconv.Quote(arg)
		} else {
			quoted[i] = arg
		}
	}
	return strings.Join(quoted, " ")
}

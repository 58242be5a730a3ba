package main

import (
	"fmt"
	"os"

	"github.com/deixis/aseprite-mcp/internal/runner"
	"github.com/spf13/cobra"
)

func newRunCmd(o *options) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "run <script.lua>",
		Short: "Run a Lua script through Aseprite once and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading script: %w", err)
			}
			r, err := o.newRunner(cmd.Context(), nil)
			if err != nil {
				return err
			}

			var res *runner.Result
			if file != "" {
				res, err = r.RunScriptOnFile(cmd.Context(), file, string(src))
			} else {
				res, err = r.RunScript(cmd.Context(), string(src))
			}
			if err != nil {
				return err
			}

			if res.Success {
				fmt.Fprintln(cmd.OutOrStdout(), res.Text())
				return nil
			}
			fmt.Fprintln(cmd.ErrOrStderr(), res.Text())
			return errFailed
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "sprite to open before the script runs")
	return cmd
}

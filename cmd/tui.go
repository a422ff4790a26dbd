package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/robot-exposure/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive terminal dashboard",
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := initResolver(cmd.Context(), "lookup")
		if err != nil {
			return err
		}
		return tui.Run(res)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

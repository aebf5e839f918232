package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"survivallab/internal/lab"
)

var (
	replayInput   string
	replayJSONOut bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Re-render a recorded round log",
	Long:  "replay feeds round records from a JSONL log back through a writer for inspection.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		var writer lab.RoundWriter
		if replayJSONOut {
			writer = lab.NewJSONStdoutWriter()
		} else {
			writer = lab.NewColorStdoutWriter(nil)
		}
		return lab.ReplayLogFile(replayInput, writer)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to round record log file")
	replayCmd.Flags().BoolVar(&replayJSONOut, "json", false, "Print round records as JSON instead of styled output")
	replayCmd.MarkFlagRequired("input")
}

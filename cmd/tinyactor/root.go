package main

import (
	"github.com/hedisam/tinyactor/config"
	"github.com/spf13/cobra"
)

func newCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tinyactor",
		Short:         "Cooperative actor runtime demo board",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(newCmdRun())
	cmd.AddCommand(newCmdConfig())
	return cmd
}

// loadConfig returns the defaults when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

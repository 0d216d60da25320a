package main

import (
	"github.com/pingcap/errors"
	"github.com/spf13/cobra"
)

func newCmdConfig() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(path)
			if err != nil {
				return errors.Trace(err)
			}
			out, err := cfg.Encode()
			if err != nil {
				return errors.Trace(err)
			}
			cmd.Print(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "config", "", "Path of the configuration file")
	return cmd
}

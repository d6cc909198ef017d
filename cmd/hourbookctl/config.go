package main

import (
	"fmt"

	"github.com/hourbook/hourbook-backend/pkg/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Load and validate configuration for the current environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadWithValidation(root.service)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "configuration invalid:\n%v\n", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration ok (environment: %s, rabbitmq enabled: %t)\n",
				cfg.Server.Environment, cfg.RabbitMQ.Enabled)
			return nil
		},
	})

	return cmd
}

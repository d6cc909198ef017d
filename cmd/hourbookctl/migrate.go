package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db, _, err := root.connect()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return nil
		},
	}
}

func newInitAdminCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init-admin",
		Short: "Create the configured default administrator if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, closeDB, err := root.application()
			if err != nil {
				return err
			}
			defer closeDB()

			if err := a.DB.Migrate(cmd.Context()); err != nil {
				return err
			}

			created, err := a.Users.EnsureDefaultAdmin(cmd.Context(), a.Config.Admin.Username, a.Config.Admin.Password)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "admin user %q created\n", a.Config.Admin.Username)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "admin user %q already exists\n", a.Config.Admin.Username)
			}
			return nil
		},
	}
}

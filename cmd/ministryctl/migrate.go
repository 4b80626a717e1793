package main

import (
	"fmt"

	"ministry/internal/infra/persistence/postgres"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			if err := postgres.Migrate(cmd.Context(), e.db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migration complete")

			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert countries, permissions, roles and payment methods",
		Long: `Insert the reference data the API expects. Running it again changes nothing:
existing rows are matched by their natural keys and left as they are.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			if err := postgres.Seed(cmd.Context(), e.db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Seed complete")

			return nil
		},
	}
}

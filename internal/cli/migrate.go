package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Cava-api/migrations"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones del esquema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Aplica las migraciones pendientes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, _, err := loadConfig()
				if err != nil {
					return err
				}
				if err := migrations.Up(cfg.DB.ConnectionString()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migraciones aplicadas")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revierte todas las migraciones",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, _, err := loadConfig()
				if err != nil {
					return err
				}
				if err := migrations.Down(cfg.DB.ConnectionString()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migraciones revertidas")
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Muestra la versión actual del esquema",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, _, err := loadConfig()
				if err != nil {
					return err
				}
				v, dirty, err := migrations.Version(cfg.DB.ConnectionString())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "versión %d (dirty=%t)\n", v, dirty)
				return nil
			},
		},
	)
	return cmd
}

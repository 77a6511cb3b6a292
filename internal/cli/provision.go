package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Cava-api/internal/domain/cellar"
	"github.com/jhoicas/Cava-api/internal/domain/entity"
	"github.com/jhoicas/Cava-api/internal/infrastructure/postgres"
)

func newProvisionCommand() *cobra.Command {
	var (
		name     string
		cellarID string
	)
	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Crea una cava con todos sus slots",
		Long: `Crea la cava y aprovisiona sus slots: la fila 1 con 7 posiciones, el resto con 9,
y la nevera F1..FN. Con --id de una cava existente solo completa los slots que falten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()
			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			topo := cellar.Topology{Rows: cfg.Cellar.Rows, FridgeSlots: cfg.Cellar.FridgeSlots}
			created := cellarID == ""
			if created {
				cellarID = uuid.NewString()
			}

			var inserted int64
			err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
				if created {
					if err := postgres.NewCellarRepository(tx).Create(ctx, &entity.Cellar{ID: cellarID, Name: name}); err != nil {
						return err
					}
				} else if _, err := postgres.NewCellarRepository(tx).GetByID(ctx, cellarID); err != nil {
					return err
				}
				n, err := postgres.NewSlotRepository(tx).Provision(ctx, topo.Slots(cellarID))
				inserted = n
				return err
			})
			if err != nil {
				return fmt.Errorf("aprovisionar cava: %w", err)
			}
			log.Info().Str("cellar_id", cellarID).Int64("slots", inserted).Msg("cava aprovisionada")
			return outputJSON(cmd.OutOrStdout(), map[string]any{
				"cellar_id":      cellarID,
				"slots_inserted": inserted,
				"capacity":       topo.CellarCapacity(),
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "Cava", "nombre de la cava nueva")
	cmd.Flags().StringVar(&cellarID, "id", "", "cava existente a completar")
	return cmd
}

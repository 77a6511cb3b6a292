package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Cava-api/internal/application/layout"
	"github.com/jhoicas/Cava-api/internal/domain/cellar"
	"github.com/jhoicas/Cava-api/internal/domain/zone"
	"github.com/jhoicas/Cava-api/internal/infrastructure/cache"
	"github.com/jhoicas/Cava-api/internal/infrastructure/postgres"
)

func newProposeCommand() *cobra.Command {
	var (
		cellarID string
		save     bool
	)
	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Calcula la propuesta de layout de una cava",
		Long:  `Imprime la propuesta de filas por zona. Con --save la confirma como layout objetivo.`,
		Args:  cobra.NoArgs,
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

			proposer := layout.NewProposer(
				postgres.NewSlotRepository(pool),
				postgres.NewZoneLayoutRepository(pool),
				postgres.NewTxRunner(pool),
				cache.Noop{},
				zone.DefaultRegistry(),
				zone.DefaultClassifier(),
				cellar.Topology{Rows: cfg.Cellar.Rows, FridgeSlots: cfg.Cellar.FridgeSlots},
				log,
			)
			proposal, err := proposer.ProposeZoneLayout(ctx, cellarID)
			if err != nil {
				return err
			}
			if save {
				if err := proposer.SaveZoneLayout(ctx, cellarID, layout.AssignmentsFromProposal(proposal)); err != nil {
					return err
				}
			}
			return outputJSON(cmd.OutOrStdout(), proposal)
		},
	}
	cmd.Flags().StringVar(&cellarID, "cellar", "", "cava a analizar (obligatorio)")
	cmd.Flags().BoolVar(&save, "save", false, "confirmar la propuesta como layout objetivo")
	_ = cmd.MarkFlagRequired("cellar")
	return cmd
}

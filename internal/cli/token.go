package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Cava-api/pkg/jwt"
)

func newTokenCommand() *cobra.Command {
	var (
		cellarID string
		userID   string
		secret   string
		minutes  int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un token de desarrollo para una cava",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			if secret == "" {
				secret = cfg.JWT.Secret
			}
			if minutes <= 0 {
				minutes = cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(secret, userID, cellarID, cfg.JWT.Issuer, minutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&cellarID, "cellar", "", "cava del token (obligatorio)")
	cmd.Flags().StringVar(&userID, "user", "cavactl", "usuario del token")
	cmd.Flags().StringVar(&secret, "secret", "", "secreto JWT (por defecto JWT_SECRET)")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "vigencia en minutos (por defecto JWT_EXPIRATION_MINUTES)")
	_ = cmd.MarkFlagRequired("cellar")
	return cmd
}

// Package cli comandos de cavactl, la herramienta de operación de la cava.
package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Cava-api/pkg/config"
	"github.com/jhoicas/Cava-api/pkg/logger"
)

// NewRootCommand construye el árbol de comandos de cavactl.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:     "cavactl",
		Version: version,
		Short:   "Operación del motor de reconfiguración de la cava",
		Long: `cavactl aplica migraciones, aprovisiona cavas nuevas, emite tokens de desarrollo
y calcula propuestas de layout sin pasar por la API HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.AddCommand(
		newMigrateCommand(),
		newProvisionCommand(),
		newTokenCommand(),
		newProposeCommand(),
	)
	return root
}

// Execute ejecuta cavactl con los argumentos del proceso.
func Execute(version string) error {
	return NewRootCommand(version).Execute()
}

func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	return cfg, log, nil
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

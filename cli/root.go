package cli

import (
	"github.com/comanda-app/comanda/config"
	"github.com/comanda-app/comanda/utils"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile string
}

// NewRootCommand creates the comanda command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "comanda",
		Short:         "Comanda - multi-tenant restaurant ordering and kitchen board",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before the environment")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

// Execute runs the root command; main exits non-zero on error.
func Execute() error {
	err := NewRootCommand().Execute()
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("comanda")
	}
	return err
}

// loadConfig -> baca .env + environment, lalu siapkan logger dan JWT
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	utils.InitLogger(cfg.LogLevel)
	utils.SetJWTSecret(cfg.JWTSecret)
	return cfg, nil
}

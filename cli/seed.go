package cli

import (
	"fmt"
	"os"

	"github.com/comanda-app/comanda/config"
	"github.com/comanda-app/comanda/database"
	"github.com/spf13/cobra"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	File string
}

func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load tenants, menu, users and coupons from a YAML file",
		Long: `Load tenants from a YAML seed file. Records get stable ids, so
running the same file twice updates instead of duplicating.

Example:
  comanda seed --file ./seed.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "seed YAML file (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runSeed(opts *SeedOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	f, err := os.Open(opts.File)
	if err != nil {
		return err
	}
	defer f.Close()

	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	res, err := database.Seed(db, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d tenant(s), %d product(s), %d user(s)\n", res.Tenants, res.Products, res.Users)
	return nil
}

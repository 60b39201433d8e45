package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/mvd-portal/internal"
	"github.com/frahmantamala/mvd-portal/internal/seed"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the store with the default portal data",
	Long: `Writes the default accounts, news, applications, records, staff, leaders and fleet
when the store is empty. With --clear the stored state is replaced by the defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		initLogger(cfg)
		lg := slog.Default()

		ctx, cancel := internal.WithTimeout(context.Background(), 0)
		defer cancel()

		// Seeding is explicit here, whatever store.seed_defaults says.
		cfg.Store.SeedDefaults = true
		st, err := openStore(ctx, cfg, lg)
		if err != nil {
			return err
		}
		defer st.Close()

		if !clearData {
			loaded, err := st.Load(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("store holds %d users, %d applications (revision %d)\n",
				len(loaded.Users), len(loaded.Applications), st.Revision())
			return nil
		}

		defaults, err := seed.Build(cfg.Security.BCryptCost)
		if err != nil {
			return err
		}
		if err := st.Save(ctx, defaults); err != nil {
			return fmt.Errorf("failed to replace state: %w", err)
		}
		fmt.Printf("state replaced with defaults (revision %d)\n", st.Revision())
		return nil
	},
}

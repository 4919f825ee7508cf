package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/missionboard/internal/store"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}

			ctx := context.Background()
			s, cleanup, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			version, err := s.SchemaVersion(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema at version %d (latest %d)\n",
				cfg.Database.Driver, version, store.LatestSchemaVersion())
			return nil
		},
	}

	return cmd
}

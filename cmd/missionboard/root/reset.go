package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Run the daily focus-list reset now",
		Long:  "Moves every completed task in any focus list back to not started, exactly as the scheduled 05:00 UTC job does.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}

			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.ResetSelected(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reset %d tasks, reopened %d missions\n", res.Tasks, res.Missions)
			return nil
		},
	}

	return cmd
}

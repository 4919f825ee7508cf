package root

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/missionboard/internal/app"
	"github.com/nhle/missionboard/internal/engine"
)

func newTUICmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the two-panel terminal client",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return errors.New("--user is required")
			}
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

			user, err := svc.UserByName(ctx, username)
			if errors.Is(err, engine.ErrNotFound) {
				return fmt.Errorf("no user %q; create one with `missionboard user add %s`", username, username)
			}
			if err != nil {
				return err
			}

			// The terminal belongs to the UI; logs go to a file beside the config.
			logFile, err := tea.LogToFile(filepath.Join(filepath.Dir(configPath), "tui.log"), "missionboard")
			if err == nil {
				defer logFile.Close()
			}

			_, err = tea.NewProgram(app.New(svc, user), tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "Username to act as")

	return cmd
}

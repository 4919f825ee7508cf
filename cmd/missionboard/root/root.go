package root

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nhle/missionboard/internal/model"
	"github.com/nhle/missionboard/internal/theme"
)

const Version = "0.1.0"

var configPath string

var errStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ErrorColor))

var rootCmd = &cobra.Command{
	Use:           "missionboard",
	Short:         "Missions, tasks and a daily focus list",
	Long:          "missionboard organizes work into missions and tasks, keeps a daily focus list, and serves it over a REST API or a terminal client.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", model.DefaultConfigPath(), "Path to the config file")

	rootCmd.AddCommand(
		newServeCmd(),
		newTUICmd(),
		newResetCmd(),
		newMigrateCmd(),
		newUserCmd(),
		newInitCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

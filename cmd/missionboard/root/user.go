package root

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/missionboard/internal/auth"
	"github.com/nhle/missionboard/internal/model"
)

// passwordEnv supplies the password for non-interactive `user add`.
const passwordEnv = model.EnvPrefix + "_PASSWORD"

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newUserAddCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an account",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("username is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv(passwordEnv)
			}
			if password == "" {
				if err := promptPassword(&password); err != nil {
					return err
				}
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

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			user, err := svc.RegisterUser(ctx, args[0], hash)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (or set "+passwordEnv+")")

	return cmd
}

func promptPassword(out *string) error {
	return huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Validate(func(s string) error {
			if s == "" {
				return errors.New("password is required")
			}
			return nil
		}).
		Value(out).
		Run()
}

package root

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/missionboard/internal/credential"
	"github.com/nhle/missionboard/internal/engine"
	"github.com/nhle/missionboard/internal/model"
	"github.com/nhle/missionboard/internal/store"
)

// signingKeyEnv overrides the keyring-held JWT signing key.
const signingKeyEnv = model.EnvPrefix + "_JWT_SECRET"

// loadConfig reads the config file, binding the named flags of cmd over
// the given config keys.
func loadConfig(cmd *cobra.Command, flagKeys map[string]string) (*model.AppConfig, error) {
	v := model.NewViper(configPath)
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("binding flag --%s: %w", flag, err)
		}
	}
	return model.LoadConfigFrom(v)
}

func openStore(ctx context.Context, cfg *model.AppConfig) (*store.SQLStore, func(), error) {
	s, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = s.Close()
	}
	return s, cleanup, nil
}

func openService(ctx context.Context, cfg *model.AppConfig) (*engine.Service, func(), error) {
	s, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	svc := engine.NewService(s, engine.Options{
		ReopenMissionsOnReset: cfg.Reset.ReopenMissions,
	})
	return svc, cleanup, nil
}

// signingKey returns the JWT signing key from the environment, falling back
// to the keyring, which generates one on first use.
func signingKey(cfg *model.AppConfig) ([]byte, error) {
	if secret := os.Getenv(signingKeyEnv); secret != "" {
		return []byte(secret), nil
	}

	vault, err := credential.Open(credential.Config{
		Backend: cfg.Auth.KeyringBackend,
		FileDir: cfg.Auth.KeyringDir,
	})
	if err != nil {
		return nil, err
	}
	return vault.SigningKey()
}

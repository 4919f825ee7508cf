package root

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/missionboard/internal/api"
	"github.com/nhle/missionboard/internal/auth"
	"github.com/nhle/missionboard/internal/scheduler"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API and the daily reset job",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, map[string]string{
				"addr":        "server.addr",
				"mode":        "server.mode",
				"cors-origin": "server.cors_origin",
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, cleanup, err := openService(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			key, err := signingKey(cfg)
			if err != nil {
				return err
			}
			tokens := auth.NewTokens(key, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

			job := scheduler.New(svc, scheduler.Config{
				Hour:    cfg.Reset.Hour,
				Minute:  cfg.Reset.Minute,
				Timeout: time.Duration(cfg.Reset.TimeoutSec) * time.Second,
			})
			if cfg.Reset.Enabled {
				job.Start()
				defer job.Stop()
				next := scheduler.NextRun(time.Now(), cfg.Reset.Hour, cfg.Reset.Minute)
				log.Printf("daily reset scheduled, next run %s", next.Format(time.RFC3339))
			}

			server := api.NewServer(svc, tokens, job, api.Config{
				Mode:       cfg.Server.Mode,
				CORSOrigin: cfg.Server.CORSOrigin,
				AdminUsers: cfg.Server.AdminUsers,
			})

			log.Printf("missionboard v%s listening on %s (%s)", Version, cfg.Server.Addr, cfg.Database.Driver)
			if err := server.Run(ctx, cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			log.Println("shut down")
			return nil
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().String("mode", "", "gin mode: debug, release or test")
	cmd.Flags().String("cors-origin", "", "Allowed CORS origin")

	return cmd
}

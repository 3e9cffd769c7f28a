package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shelter-vax-bot/internal/adapters/notify/slack"
	"shelter-vax-bot/internal/adapters/shelterapi"
	"shelter-vax-bot/internal/app"
	"shelter-vax-bot/internal/config"
	"shelter-vax-bot/internal/platform/logger"
	"shelter-vax-bot/internal/router"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vaxbot",
	Short: "Vaccine due-date report bot for the shelter",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one report pass and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := buildApp()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if _, err := a.RunOnce(ctx); err != nil {
			return fmt.Errorf("run failed: %w", err)
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the latest report over HTTP and re-run on an interval",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cfg, err := buildApp()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := &http.Server{
			Addr: ":" + cfg.Server.Port,
			Handler: router.NewRouter(router.Options{
				Latest: a.Holder(),
				APIKey: cfg.Server.APIKey,
			}),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		go func() {
			_ = a.RunLoop(ctx, cfg.Scheduler.Every.Std())
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

// buildApp arma el cableado real: config → adapters → pipeline.
func buildApp() (*app.App, config.Config, error) {
	cfg := config.Load()

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Logging.Level),
		Format: logger.ParseFormat(cfg.Logging.Format),
		App:    cfg.Logging.App,
	})

	shelter, err := shelterapi.NewClient(shelterapi.Config{
		BaseURL:      cfg.Shelter.BaseURL,
		APIKey:       cfg.Shelter.APIKey,
		APIKeyHeader: cfg.Shelter.APIKeyHeader,
		Timeout:      cfg.Shelter.Timeout.Std(),
		PageSize:     cfg.Shelter.PageSize,
	})
	if err != nil {
		return nil, cfg, fmt.Errorf("shelter api client: %w", err)
	}
	if !shelter.IsConfigured() {
		return nil, cfg, errors.New("shelter api not configured (set SHELTER_API_URL and SHELTER_API_KEY)")
	}

	notifier := slack.NewNotifier(cfg.Slack.WebhookURL, cfg.Shelter.Timeout.Std())
	if !notifier.IsConfigured() {
		log.Warn("slack webhook not configured, reports will not be published", nil)
	}

	a, err := app.New(cfg, app.Deps{
		Feed:     shelter,
		Dir:      shelter,
		Notifier: notifier,
		Logger:   log,
	})
	if err != nil {
		return nil, cfg, err
	}
	return a, cfg, nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

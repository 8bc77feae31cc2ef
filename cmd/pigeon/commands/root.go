package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"pigeon/internal/app"
)

var (
	home     string
	relayURL string
	verbose  bool
	appCtx   *app.App
)

func Execute() error {
	root := &cobra.Command{
		Use:           "pigeon",
		Short:         "End-to-end encrypted chat CLI",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				h, err := app.DefaultHome()
				if err != nil {
					return err
				}
				home = h
			}
			cfg, err := app.LoadConfig(home)
			if err != nil {
				return err
			}
			if relayURL != "" {
				cfg.RelayURL = relayURL
			}
			if verbose {
				cfg.LogLevel = "debug"
			}
			w, err := app.NewWire(cfg, app.NewLogger(cfg.LogLevel, os.Stderr))
			if err != nil {
				return err
			}
			appCtx = app.New(w)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appCtx != nil {
				appCtx.Identity.Lock()
			}
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.pigeon or $PIGEON_HOME)")
	root.PersistentFlags().StringVar(&relayURL, "relay", "", "relay base URL (e.g. http://127.0.0.1:8080)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		signupCmd(), signinCmd(), signoutCmd(), whoamiCmd(),
		keysCmd(), fingerprintCmd(), contactsCmd(),
		sendCmd(), historyCmd(), watchCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return root.ExecuteContext(ctx)
}

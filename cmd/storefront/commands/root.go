package commands

import (
	"github.com/rogerio-castellano/storefront/internal/app"
	"github.com/rogerio-castellano/storefront/internal/config"
	"github.com/rogerio-castellano/storefront/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	appCtx     *app.App
)

// Execute runs the storefront command tree.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront catalog and cart service",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Log.Level)
			if err != nil {
				return err
			}
			a, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				logger.Error("startup failed", zap.Error(err))
				return err
			}
			appCtx = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if appCtx == nil {
				return nil
			}
			defer appCtx.Logger.Sync() //nolint:errcheck
			return appCtx.Close()
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./storefront.yaml)")

	root.AddCommand(serveCmd(), productsCmd(), cartCmd())
	return root
}

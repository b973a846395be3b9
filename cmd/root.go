package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cartCmd "github.com/avelane/storefront/cart/cmd"
	catalogCmd "github.com/avelane/storefront/catalog/cmd"
	"github.com/avelane/storefront/internal/config"
	"github.com/avelane/storefront/internal/constants"
	"github.com/avelane/storefront/internal/log"
)

func Start() {
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{Use: constants.APP_MAIN_STOREFRONT}
	commands := []*cobra.Command{
		{
			Use:   "cart",
			Short: "Run cart service",
			Run: func(cmd *cobra.Command, args []string) {
				cartCmd.RunCartService(cmd.Context())
			},
		},
		{
			Use:   "catalog",
			Short: "Run catalog service",
			Run: func(cmd *cobra.Command, args []string) {
				catalogCmd.RunCatalogService(cmd.Context())
			},
		},
	}
	rootCmd.AddCommand(commands...)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger := log.Get("/var/log/storefront.log", config.Application{}).
			With().
			Str(constants.KEY_APP_NAME, constants.APP_MAIN_STOREFRONT).
			Str(constants.KEY_TAG, "main Start").
			Logger()
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}

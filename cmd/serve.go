package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"fraudscan/internal/catalog"
	"fraudscan/internal/doctext"
	"fraudscan/internal/logger"
	"fraudscan/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the fraud-risk scoring HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "listen address (default is "+defaultListenAddr+")")

	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

func serve(cmd *cobra.Command) error {
	ctx := cmd.Context()

	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}

	log.Info("starting the fraudscan api",
		zap.String("version", version),
		zap.Int("catalog_version", catalog.Version),
		zap.String("listen", config.Listen),
		zap.Bool("ai_enabled", config.AI != nil && config.AI.Enabled),
	)

	aggregator, analyzer, err := buildPipeline(ctx, config, log)
	if err != nil {
		return err
	}

	srv := server.New(aggregator, analyzer, doctext.Plain{}, log)

	return srv.Run(ctx, config.Listen)
}

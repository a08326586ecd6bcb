package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sanjeevkumarraob/file-extractor-service/internal/config"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:          "file-extractor",
	Short:        "Extract text and tables from uploaded documents",
	Long:         "Serves an HTTP API that turns PDF, Word, spreadsheet, CSV and text files into plain text and structured rows.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		l, err := config.InitLogger(cfg.Log)
		if err != nil {
			return eris.Wrap(err, "init logger")
		}
		logger = l

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sanjeevkumarraob/file-extractor-service/internal/document"
)

var (
	extractBanner        bool
	extractSheetEncoding string
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>...",
	Short: "Extract local files and print the results as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ext, err := newExtractor(cfg, logger)
		if err != nil {
			return err
		}

		opts := ext.Options()
		if cmd.Flags().Changed("banner") {
			opts.FileBanner = extractBanner
		}
		if extractSheetEncoding != "" {
			opts.SheetEncoding = document.SheetEncoding(extractSheetEncoding)
		}
		ext = ext.WithOptions(opts)

		reqs := make([]document.Request, len(args))
		for i, path := range args {
			content, err := os.ReadFile(path)
			if err != nil {
				return eris.Wrapf(err, "read %s", path)
			}
			reqs[i] = document.Request{FileName: filepath.Base(path), Content: content}
		}

		results := ext.ExtractBatch(cmd.Context(), reqs)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(results); err != nil {
			return eris.Wrap(err, "write results")
		}

		failed := 0
		for _, r := range results {
			if r.Failed() {
				failed++
			}
		}
		if failed > 0 {
			return eris.Errorf("%d of %d files failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractBanner, "banner", false, "prefix PDF and spreadsheet text with a FILE banner")
	extractCmd.Flags().StringVar(&extractSheetEncoding, "sheet-encoding", "", "spreadsheet text encoding: csv or json (default from config)")
	rootCmd.AddCommand(extractCmd)
}
